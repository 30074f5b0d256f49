// Package report renders analysis results and decides the exit status of a run.
package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bebsworthy/codescan/internal/analyzer"
	"github.com/bebsworthy/codescan/internal/source"
)

// Exit codes of a codescan run
const (
	// ExitOK means the run completed without errors or failing violations
	ExitOK = 0
	// ExitError means the run could not complete (bad arguments, unresolvable rulesets, I/O)
	ExitError = 1
	// ExitViolations means violations were found and the run fails on violations
	ExitViolations = 4
)

// Options controls how locations are rendered
type Options struct {
	// ShortNames renders paths relative to their source root
	ShortNames bool
}

// Renderer writes a report in one format
type Renderer interface {
	Render(w io.Writer, r *analyzer.Result, opts Options) error
}

// NewRenderer returns the renderer for a format name
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextRenderer{}, nil
	case "xml":
		return &XMLRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "csv":
		return &CSVRenderer{}, nil
	default:
		return nil, fmt.Errorf("Can't create report with format of %s", format)
	}
}

// ReportResult contains the final report output
type ReportResult struct {
	// Exit code (0 for success, 4 for violations, 1 for errors)
	ExitCode int
	// Standard error output (for errors)
	Stderr string
	// Standard output (the rendered report)
	Stdout string
}

// Reporter renders results and maps them to an exit code
type Reporter struct {
	renderer        Renderer
	options         Options
	failOnViolation bool
}

// NewReporter creates a reporter
func NewReporter(renderer Renderer, opts Options, failOnViolation bool) *Reporter {
	return &Reporter{
		renderer:        renderer,
		options:         opts,
		failOnViolation: failOnViolation,
	}
}

// Report renders the result
func (r *Reporter) Report(result *analyzer.Result) (*ReportResult, error) {
	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, result, r.options); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &ReportResult{
		ExitCode: ExitCode(result, r.failOnViolation),
		Stdout:   buf.String(),
	}, nil
}

// ExitCode maps an analysis result to the process exit code
func ExitCode(result *analyzer.Result, failOnViolation bool) int {
	if failOnViolation && len(result.Violations) > 0 {
		return ExitViolations
	}
	return ExitOK
}

// ReportError creates a report for an error that stopped the run
func ReportError(err error) *ReportResult {
	return &ReportResult{
		ExitCode: ExitError,
		Stderr:   err.Error(),
	}
}

// displayPath renders a file path for output
func displayPath(f source.File, opts Options) string {
	if opts.ShortNames && f.Rel != "" {
		return f.Rel
	}
	return f.Path
}

// fileGroup holds the violations of one file in report order
type fileGroup struct {
	Path       string
	Violations []analyzer.Violation
}

func groupByFile(result *analyzer.Result, opts Options) []fileGroup {
	index := make(map[string]int)
	var groups []fileGroup
	for _, v := range result.Violations {
		name := displayPath(v.File, opts)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, fileGroup{Path: name})
		}
		groups[i].Violations = append(groups[i].Violations, v)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Path < groups[j].Path
	})
	return groups
}
