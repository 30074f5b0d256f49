// Package testutil provides the in-process CLI harness and fixture helpers
// for the codescan test suite.
//
// Harness: drives a CLI entry point inside the test process
//   - NewHarness(dir, entry) binds a sink directory to an EntryPoint
//   - SetupSuite() creates the directory and turns on suppress-exit mode
//   - Invoke() captures stdout and stderr of one run in <dir>/<name>.txt
//     and returns the published status code
//   - Run() and RunExpectingStatus() fail the test on an unexpected status
//
// OutputCapture: stream redirection
//   - WithRedirected() points os.Stdout and os.Stderr at a Sink and always
//     restores them
//   - CaptureOutput() captures both streams in memory
//
// Pattern checks: Matches() and ContainsLiteral() search captured files.
//
// Example usage:
//
//	h := testutil.NewHarness(testutil.DefaultSuiteDir(), cli.Main)
//	if err := h.SetupSuite(); err != nil {
//		log.Fatal(err)
//	}
//
//	run := h.RunExpectingStatus(t, []string{"-d", src, "-R", "java-designn"}, "wrongRuleset", 1)
//	run.AssertContains(t, "Can't find resource 'null' for rule 'java-designn'.")
package testutil
