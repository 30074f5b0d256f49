// Package cli implements the codescan command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bebsworthy/codescan/internal/debug"
	"github.com/bebsworthy/codescan/internal/report"
	"github.com/bebsworthy/codescan/internal/status"
)

// options holds the flag values of one invocation
type options struct {
	args            []string
	dirs            string
	format          string
	rulesets        string
	minimumPriority int
	debug           bool
	version         string
	language        string
	reportFile      string
	shortNames      bool
	threads         int
	failOnViolation bool
	exclude         []string
	configPath      string
}

// flagAliases maps alternative long names to their flag
var flagAliases = map[string]string{
	"min":     "minimumpriority",
	"verbose": "debug",
	"v":       "version",
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if target, ok := flagAliases[name]; ok {
		name = target
	}
	return pflag.NormalizedName(name)
}

// newRootCmd creates the codescan command bound to opts
func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codescan -d <dir> -R <rulesets> [flags]",
		Short: "Rule-based source code analyzer",
		Long: `Codescan checks source files against rulesets and reports every violation.

Rulesets are referenced by built-in name (java-basic), by name and rule
(java-design/UseCollectionIsEmpty) or by path to a YAML ruleset file.

Exit status is 0 when no violations are found, 4 when violations are found
and 1 when the run could not complete.`,
		Example: `  # Check a tree with two built-in rulesets
  codescan -d src -R java-basic,java-design

  # Only report high priority findings as XML
  codescan -d src -R java-basic -f xml -min 2

  # Select the language version
  codescan -d src -R java-strings -version 1.5 -language java`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dirs, "dir", "d", "", "Comma-separated list of source roots")
	flags.StringVarP(&opts.format, "format", "f", "text", "Report format: text, xml, json or csv")
	flags.StringVarP(&opts.rulesets, "rulesets", "R", "", "Comma-separated ruleset references")
	flags.IntVar(&opts.minimumPriority, "minimumpriority", 5, "Report only rules with this priority or higher (1 is highest)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug output")
	flags.StringVar(&opts.version, "version", "", "Language version to check against")
	flags.StringVarP(&opts.language, "language", "l", "", "Language the version applies to")
	flags.StringVarP(&opts.reportFile, "reportfile", "r", "", "Write the report to this file instead of stdout")
	flags.BoolVar(&opts.shortNames, "shortnames", false, "Report paths relative to their source root")
	flags.IntVarP(&opts.threads, "threads", "t", 1, "Number of files analyzed concurrently")
	flags.BoolVar(&opts.failOnViolation, "failOnViolation", true, "Exit with status 4 when violations are found")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "Glob patterns of files to skip")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a project configuration file")
	flags.SetNormalizeFunc(normalizeFlagName)

	_ = cmd.MarkFlagRequired("dir") //nolint:errcheck

	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// Main runs codescan with args and ends through status.Exit, so under
// suppress-exit mode it returns after publishing the status code.
func Main(args []string) {
	status.Exit(Run(args))
}

// Run runs codescan with args and returns the exit code
func Run(args []string) int {
	debug.Reset()

	opts := &options{args: args}
	cmd := newRootCmd(opts)
	cmd.SetArgs(normalizeArgs(cmd.Flags(), args))
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	code := report.ExitOK
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		var err error
		code, err = execute(cmd, opts)
		return err
	}

	if err := cmd.Execute(); err != nil {
		result := report.ReportError(err)
		fmt.Fprintln(os.Stderr, result.Stderr)
		return result.ExitCode
	}
	return code
}
