package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bebsworthy/codescan/internal/analyzer"
)

// CSVRenderer writes one row per violation
type CSVRenderer struct{}

var csvHeader = []string{"Problem", "File", "Priority", "Line", "Description", "Rule set", "Rule"}

// Render implements Renderer
func (c *CSVRenderer) Render(w io.Writer, r *analyzer.Result, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, v := range r.Violations {
		row := []string{
			strconv.Itoa(i + 1),
			displayPath(v.File, opts),
			strconv.Itoa(v.Rule.Priority),
			strconv.Itoa(v.Line),
			v.Rule.Message,
			v.Rule.RuleSet,
			v.Rule.Name,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
