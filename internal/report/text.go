package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/bebsworthy/codescan/internal/analyzer"
)

// TextRenderer writes one line per violation: "path:line:" padded to a common
// width, a tab, then the rule message.
type TextRenderer struct {
	// Color forces coloring on or off; nil colors only terminals
	Color *bool
}

var priorityColors = map[int]*color.Color{
	1: color.New(color.FgHiRed, color.Bold),
	2: color.New(color.FgRed),
	3: color.New(color.FgYellow),
	4: color.New(color.FgCyan),
	5: color.New(color.FgHiBlack),
}

// Render implements Renderer
func (t *TextRenderer) Render(w io.Writer, r *analyzer.Result, opts Options) error {
	colored := t.useColor(w)

	locations := make([]string, len(r.Violations))
	width := 0
	for i, v := range r.Violations {
		locations[i] = displayPath(v.File, opts) + ":" + strconv.Itoa(v.Line) + ":"
		if lw := runewidth.StringWidth(locations[i]); lw > width {
			width = lw
		}
	}

	for i, v := range r.Violations {
		location := runewidth.FillRight(locations[i], width)
		if colored {
			location = colorFor(v.Rule.Priority).Sprint(location)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", location, v.Rule.Message); err != nil {
			return err
		}
	}

	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "%s\t-\t%v\n", displayPath(e.File, opts), e.Err); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextRenderer) useColor(w io.Writer) bool {
	if t.Color != nil {
		return *t.Color
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func colorFor(priority int) *color.Color {
	c, ok := priorityColors[priority]
	if !ok {
		c = priorityColors[3]
	}
	// The package-level NoColor default is computed once from the original
	// stdout, so enable explicitly.
	c.EnableColor()
	return c
}
