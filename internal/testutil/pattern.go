package testutil

import (
	"os"
	"regexp"

	"github.com/bebsworthy/codescan/internal/filter"
)

// Matches reports whether the content of the file at path matches pattern.
// The whole file is read once and searched as a single string, so a pattern
// may span lines.
func Matches(path, pattern string) (bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 - paths come from captured runs
	if err != nil {
		return false, &HarnessError{Type: ErrorTypeFileRead, Path: path, Err: err}
	}

	re, err := filter.Shared().Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.Match(data), nil
}

// ContainsLiteral reports whether the file at path contains text verbatim
func ContainsLiteral(path, text string) (bool, error) {
	return Matches(path, quote(text))
}

func quote(text string) string {
	return regexp.QuoteMeta(text)
}
