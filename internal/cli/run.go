package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bebsworthy/codescan/internal/analyzer"
	"github.com/bebsworthy/codescan/internal/config"
	"github.com/bebsworthy/codescan/internal/debug"
	"github.com/bebsworthy/codescan/internal/language"
	"github.com/bebsworthy/codescan/internal/report"
	"github.com/bebsworthy/codescan/internal/rules"
	"github.com/bebsworthy/codescan/internal/source"
	pkgconfig "github.com/bebsworthy/codescan/pkg/config"
)

// errNoRulesets is returned when neither flags nor config name a ruleset
var errNoRulesets = errors.New("No rulesets specified")

// execute performs one analysis run and returns its exit code
func execute(cmd *cobra.Command, opts *options) (int, error) {
	start := time.Now()
	if opts.debug {
		debug.Enable()
	}
	debug.LogSection("Codescan Run")
	debug.LogArgs(opts.args)

	roots := source.SplitRoots(opts.dirs)
	if len(roots) == 0 {
		return report.ExitError, fmt.Errorf("no source directory given")
	}

	if err := applyProjectConfig(cmd, opts, roots[0]); err != nil {
		return report.ExitError, err
	}

	renderer, err := report.NewRenderer(opts.format)
	if err != nil {
		return report.ExitError, err
	}
	if text, ok := renderer.(*report.TextRenderer); ok {
		colored := colorReport(opts.reportFile, os.Stdout)
		text.Color = &colored
	}

	if opts.minimumPriority < 1 || opts.minimumPriority > 5 {
		return report.ExitError, fmt.Errorf("minimum priority must be between 1 and 5, got %d", opts.minimumPriority)
	}

	version, err := language.Resolve(opts.language, opts.version)
	if err != nil {
		return report.ExitError, err
	}
	if opts.version != "" || debug.IsEnabled() {
		fmt.Fprintf(os.Stderr, "Using %s version: %s\n", version.Language.DisplayName, version)
	}

	if strings.TrimSpace(opts.rulesets) == "" {
		return report.ExitError, errNoRulesets
	}
	ruleList, err := rules.Resolve(opts.rulesets)
	if err != nil {
		return report.ExitError, err
	}
	debug.Log("Resolved %d rules from %s", len(ruleList), opts.rulesets)

	collection, err := source.NewCollector(roots, opts.exclude).Collect()
	if err != nil {
		return report.ExitError, err
	}

	a, err := analyzer.New(ruleList, analyzer.Options{
		Threads:         opts.threads,
		MinimumPriority: opts.minimumPriority,
		Versions:        map[string]language.Version{version.Language.Name: version},
	})
	if err != nil {
		return report.ExitError, err
	}
	debug.Log("Applying %d rules with %d threads", a.RuleCount(), opts.threads)

	result, err := a.Analyze(context.Background(), collection.Files)
	if err != nil {
		return report.ExitError, err
	}

	reporter := report.NewReporter(renderer, report.Options{ShortNames: opts.shortNames}, opts.failOnViolation)
	output, err := reporter.Report(result)
	if err != nil {
		return report.ExitError, err
	}

	if err := writeReport(opts.reportFile, output.Stdout); err != nil {
		return report.ExitError, err
	}

	debug.Log("Found %d violations in %d files", len(result.Violations), result.FilesAnalyzed)
	debug.LogTiming("codescan run", time.Since(start))
	return output.ExitCode, nil
}

// applyProjectConfig fills options that were not given on the command line
func applyProjectConfig(cmd *cobra.Command, opts *options, firstRoot string) error {
	cfg, err := loadProjectConfig(opts.configPath, firstRoot)
	if err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}
	flags := cmd.Flags()
	if !flags.Changed("rulesets") && len(cfg.Rulesets) > 0 {
		opts.rulesets = strings.Join(cfg.Rulesets, ",")
	}
	if !flags.Changed("minimumpriority") && cfg.MinimumPriority > 0 {
		opts.minimumPriority = cfg.MinimumPriority
	}
	if !flags.Changed("format") && cfg.Format != "" {
		opts.format = cfg.Format
	}
	if !flags.Changed("threads") && cfg.Threads > 0 {
		opts.threads = cfg.Threads
	}
	if !flags.Changed("language") && cfg.Language != "" {
		opts.language = cfg.Language
	}
	if !flags.Changed("version") && cfg.LanguageVersion != "" {
		opts.version = cfg.LanguageVersion
	}
	opts.exclude = append(opts.exclude, cfg.Exclude...)
	return nil
}

// loadProjectConfig returns nil when no configuration exists
func loadProjectConfig(path, firstRoot string) (*pkgconfig.Config, error) {
	loader := config.NewLoader(firstRoot)
	if path != "" {
		return loader.LoadFromPath(path)
	}

	cfg, err := loader.Load()
	if errors.Is(err, config.ErrConfigNotFound) {
		debug.Log("No project configuration found")
		return nil, nil
	}
	return cfg, err
}

// isTerminal reports whether f is attached to a terminal
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorReport decides whether the text report is colored. Report files never are.
func colorReport(reportFile string, stdout *os.File) bool {
	return reportFile == "" && isTerminal(stdout)
}

// writeReport writes to path, or to the current stdout when path is empty
func writeReport(path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(os.Stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	debug.Log("Report written to %s", path)
	return nil
}
