package report

import (
	"encoding/xml"
	"io"

	"github.com/bebsworthy/codescan/internal/analyzer"
)

// XMLRenderer writes a PMD-style XML document
type XMLRenderer struct{}

type xmlReport struct {
	XMLName xml.Name   `xml:"pmd"`
	Version string     `xml:"version,attr"`
	Files   []xmlFile  `xml:"file"`
	Errors  []xmlError `xml:"error"`
}

type xmlFile struct {
	Name       string         `xml:"name,attr"`
	Violations []xmlViolation `xml:"violation"`
}

type xmlViolation struct {
	BeginLine   int    `xml:"beginline,attr"`
	BeginColumn int    `xml:"begincolumn,attr"`
	Rule        string `xml:"rule,attr"`
	RuleSet     string `xml:"ruleset,attr"`
	Priority    int    `xml:"priority,attr"`
	Message     string `xml:",chardata"`
}

type xmlError struct {
	Filename string `xml:"filename,attr"`
	Msg      string `xml:"msg,attr"`
}

// Render implements Renderer
func (x *XMLRenderer) Render(w io.Writer, r *analyzer.Result, opts Options) error {
	doc := xmlReport{Version: "codescan"}
	for _, group := range groupByFile(r, opts) {
		f := xmlFile{Name: group.Path}
		for _, v := range group.Violations {
			f.Violations = append(f.Violations, xmlViolation{
				BeginLine:   v.Line,
				BeginColumn: v.Column,
				Rule:        v.Rule.Name,
				RuleSet:     v.Rule.RuleSet,
				Priority:    v.Rule.Priority,
				Message:     v.Rule.Message,
			})
		}
		doc.Files = append(doc.Files, f)
	}
	for _, e := range r.Errors {
		doc.Errors = append(doc.Errors, xmlError{
			Filename: displayPath(e.File, opts),
			Msg:      e.Err.Error(),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
