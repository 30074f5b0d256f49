package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bebsworthy/codescan/internal/status"
)

// SuiteDirEnvVar overrides the directory that receives captured runs
const SuiteDirEnvVar = "CODESCAN_TEST_OUTPUT"

// DefaultSuiteDir returns the directory for captured runs
func DefaultSuiteDir() string {
	if dir := os.Getenv(SuiteDirEnvVar); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "codescan-cli-tests")
}

// EntryPoint is an in-process CLI main; it reports its status through the
// status package instead of returning it.
type EntryPoint func(args []string)

// CapturedRun is the outcome of one in-process invocation
type CapturedRun struct {
	Name       string
	SinkPath   string
	StatusCode int
	Duration   time.Duration
}

// Harness drives an entry point in-process and captures its output in files
type Harness struct {
	Dir   string
	Entry EntryPoint
}

// NewHarness creates a harness writing sinks under dir
func NewHarness(dir string, entry EntryPoint) *Harness {
	return &Harness{Dir: dir, Entry: entry}
}

// SetupSuite creates the sink directory and turns on suppress-exit mode.
// Calling it again is harmless.
func (h *Harness) SetupSuite() error {
	if err := os.MkdirAll(h.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create test output directory %s: %w", h.Dir, err)
	}
	return status.EnableSuppressExit()
}

// Invoke runs the entry point with args, capturing both streams in
// <dir>/<name>.txt. A non-zero status is not an error here.
func (h *Harness) Invoke(args []string, name string) (*CapturedRun, error) {
	sink, err := OpenSink(h.Dir, name)
	if err != nil {
		return nil, err
	}
	defer sink.Close() //nolint:errcheck

	// A code left over from an earlier run must not satisfy this one
	status.Default().Reset()

	fmt.Fprintf(sink, "Start running test %s\n", name) //nolint:errcheck

	start := time.Now()
	WithRedirected(sink, func() {
		h.Entry(args)
	})
	elapsed := time.Since(start)

	code, err := status.Consume()
	if err != nil {
		return nil, &HarnessError{Type: ErrorTypeMissingSignal, TestName: name, Path: sink.Path(), Err: err}
	}

	fmt.Fprintf(sink, "Test finished with status %d after %d ms.\n", code, elapsed.Milliseconds()) //nolint:errcheck

	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output sink %s: %w", sink.Path(), err)
	}

	return &CapturedRun{
		Name:       name,
		SinkPath:   sink.Path(),
		StatusCode: code,
		Duration:   elapsed,
	}, nil
}

// Run invokes the entry point and fails the test when the status is above zero
func (h *Harness) Run(t testing.TB, args []string, name string) *CapturedRun {
	t.Helper()

	run, err := h.Invoke(args, name)
	if err != nil {
		t.Fatalf("test %s: %v", name, err)
	}
	if run.StatusCode > 0 {
		t.Fatal((&HarnessError{
			Type:     ErrorTypeUnexpectedStatus,
			TestName: name,
			Path:     run.SinkPath,
			Status:   run.StatusCode,
		}).Error())
	}
	return run
}

// RunExpectingStatus invokes the entry point and fails the test unless it
// ends with want
func (h *Harness) RunExpectingStatus(t testing.TB, args []string, name string, want int) *CapturedRun {
	t.Helper()

	run, err := h.Invoke(args, name)
	if err != nil {
		t.Fatalf("test %s: %v", name, err)
	}
	if run.StatusCode != want {
		t.Fatalf("%s (expected %d)", (&HarnessError{
			Type:     ErrorTypeUnexpectedStatus,
			TestName: name,
			Path:     run.SinkPath,
			Status:   run.StatusCode,
		}).Error(), want)
	}
	return run
}

// Output returns the captured text of the run
func (r *CapturedRun) Output() (string, error) {
	data, err := os.ReadFile(r.SinkPath)
	if err != nil {
		return "", &HarnessError{Type: ErrorTypeFileRead, TestName: r.Name, Path: r.SinkPath, Err: err}
	}
	return string(data), nil
}

// AssertMatches fails the test unless the captured output matches pattern
func (r *CapturedRun) AssertMatches(t testing.TB, pattern string) {
	t.Helper()
	assertFound(t, r.SinkPath, pattern)
}

// AssertContains fails the test unless the captured output contains text
func (r *CapturedRun) AssertContains(t testing.TB, text string) {
	t.Helper()
	assertFound(t, r.SinkPath, quote(text))
}

// AssertNotContains fails the test when the captured output contains text
func (r *CapturedRun) AssertNotContains(t testing.TB, text string) {
	t.Helper()
	found, err := ContainsLiteral(r.SinkPath, text)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatalf("unexpected %q found in %s", text, r.SinkPath)
	}
}

func assertFound(t testing.TB, path, pattern string) {
	t.Helper()
	found, err := Matches(path, pattern)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal((&HarnessError{Type: ErrorTypePatternNotFound, Path: path, Pattern: pattern}).Error())
	}
}
