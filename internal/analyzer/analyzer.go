// Package analyzer runs rules over source files.
package analyzer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/bebsworthy/codescan/internal/debug"
	"github.com/bebsworthy/codescan/internal/filter"
	"github.com/bebsworthy/codescan/internal/language"
	"github.com/bebsworthy/codescan/internal/rules"
	"github.com/bebsworthy/codescan/internal/source"
)

// maxLineLength bounds a single scanned line
const maxLineLength = 1024 * 1024

// Violation is a rule match at a source location
type Violation struct {
	File   source.File
	Line   int
	Column int
	Rule   *rules.Rule
}

// ProcessingError records a file that could not be analyzed
type ProcessingError struct {
	File source.File
	Err  error
}

// Result contains the outcome of an analysis run
type Result struct {
	Violations    []Violation
	Errors        []ProcessingError
	FilesAnalyzed int
	RulesApplied  int
	Duration      time.Duration
}

// Options controls rule selection and parallelism
type Options struct {
	// Threads is the number of files analyzed concurrently
	Threads int
	// MinimumPriority drops rules with a larger (less important) priority; 0 keeps all
	MinimumPriority int
	// Versions selects the language version per language name; missing entries use the default
	Versions map[string]language.Version
	// Cache holds compiled rule patterns; nil uses the shared cache
	Cache *filter.PatternCache
}

type compiledRule struct {
	rule *rules.Rule
	re   *regexp.Regexp
}

// Analyzer applies a fixed set of rules to files
type Analyzer struct {
	byLanguage map[string][]compiledRule
	threads    int
	count      int
}

// New selects and compiles the rules that apply under opts
func New(ruleList []*rules.Rule, opts Options) (*Analyzer, error) {
	cache := opts.Cache
	if cache == nil {
		cache = filter.Shared()
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = 1
	}

	a := &Analyzer{
		byLanguage: make(map[string][]compiledRule),
		threads:    threads,
	}

	for _, rule := range ruleList {
		if opts.MinimumPriority > 0 && rule.Priority > opts.MinimumPriority {
			debug.Log("Rule %s/%s dropped: priority %d above minimum %d",
				rule.RuleSet, rule.Name, rule.Priority, opts.MinimumPriority)
			continue
		}

		if rule.MinimumLanguageVersion != "" {
			version, ok := opts.Versions[rule.Language]
			if !ok {
				lang, found := language.Find(rule.Language)
				if !found {
					return nil, fmt.Errorf("rule %s/%s: unknown language %q", rule.RuleSet, rule.Name, rule.Language)
				}
				version = lang.Default()
			}
			if !version.AtLeast(rule.MinimumLanguageVersion) {
				debug.Log("Rule %s/%s skipped: requires %s, using %s",
					rule.RuleSet, rule.Name, rule.MinimumLanguageVersion, version)
				continue
			}
		}

		re, err := cache.GetOrCompile(&rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s/%s: %w", rule.RuleSet, rule.Name, err)
		}
		a.byLanguage[rule.Language] = append(a.byLanguage[rule.Language], compiledRule{rule: rule, re: re})
		a.count++
	}

	return a, nil
}

// RuleCount returns the number of rules that will be applied
func (a *Analyzer) RuleCount() int {
	return a.count
}

// Analyze runs the rules over files. Files are processed concurrently but the
// result is ordered by file, line, column and rule name.
func (a *Analyzer) Analyze(ctx context.Context, files []source.File) (*Result, error) {
	debug.LogSection("Analysis")
	start := time.Now()

	result := &Result{RulesApplied: a.count}

	semaphore := make(chan struct{}, a.threads)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, file := range files {
		applicable := a.byLanguage[file.Language.Name]
		if len(applicable) == 0 {
			continue
		}

		wg.Add(1)
		go func(f source.File, set []compiledRule) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			violations, err := analyzeFile(f, set)

			mu.Lock()
			defer mu.Unlock()
			result.FilesAnalyzed++
			if err != nil {
				debug.LogError(err, "analyzing "+f.Path)
				result.Errors = append(result.Errors, ProcessingError{File: f, Err: err})
				return
			}
			result.Violations = append(result.Violations, violations...)
		}(file, applicable)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortViolations(result.Violations)
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].File.Path < result.Errors[j].File.Path
	})

	result.Duration = time.Since(start)
	debug.Log("Analyzed %d files with %d rules: %d violations, %d errors",
		result.FilesAnalyzed, a.count, len(result.Violations), len(result.Errors))
	debug.LogTiming("analysis", result.Duration)
	return result, nil
}

func analyzeFile(f source.File, set []compiledRule) ([]Violation, error) {
	// #nosec G304 - files come from the source collector
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // read-only

	var violations []Violation
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, cr := range set {
			loc := cr.re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			debug.LogPatternMatch(cr.re.String(), text, true)
			violations = append(violations, Violation{
				File:   f,
				Line:   line,
				Column: loc[0] + 1,
				Rule:   cr.rule,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return violations, nil
}

func sortViolations(v []Violation) {
	sort.SliceStable(v, func(i, j int) bool {
		a, b := v[i], v[j]
		if a.File.Path != b.File.Path {
			return a.File.Path < b.File.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule.Name < b.Rule.Name
	})
}
