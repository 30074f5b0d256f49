package report

import (
	"encoding/json"
	"io"

	"github.com/bebsworthy/codescan/internal/analyzer"
)

// JSONRenderer writes the report as a JSON document
type JSONRenderer struct{}

type jsonReport struct {
	FormatVersion    int         `json:"formatVersion"`
	Files            []jsonFile  `json:"files"`
	ProcessingErrors []jsonError `json:"processingErrors"`
}

type jsonFile struct {
	Filename   string          `json:"filename"`
	Violations []jsonViolation `json:"violations"`
}

type jsonViolation struct {
	BeginLine   int    `json:"beginline"`
	BeginColumn int    `json:"begincolumn"`
	Description string `json:"description"`
	Rule        string `json:"rule"`
	RuleSet     string `json:"ruleset"`
	Priority    int    `json:"priority"`
}

type jsonError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// Render implements Renderer
func (j *JSONRenderer) Render(w io.Writer, r *analyzer.Result, opts Options) error {
	doc := jsonReport{
		FormatVersion:    1,
		Files:            []jsonFile{},
		ProcessingErrors: []jsonError{},
	}
	for _, group := range groupByFile(r, opts) {
		f := jsonFile{Filename: group.Path}
		for _, v := range group.Violations {
			f.Violations = append(f.Violations, jsonViolation{
				BeginLine:   v.Line,
				BeginColumn: v.Column,
				Description: v.Rule.Message,
				Rule:        v.Rule.Name,
				RuleSet:     v.Rule.RuleSet,
				Priority:    v.Rule.Priority,
			})
		}
		doc.Files = append(doc.Files, f)
	}
	for _, e := range r.Errors {
		doc.ProcessingErrors = append(doc.ProcessingErrors, jsonError{
			Filename: displayPath(e.File, opts),
			Message:  e.Err.Error(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
