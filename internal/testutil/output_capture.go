package testutil

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// redirectMu serializes every swap of the process-wide os.Stdout and os.Stderr
var redirectMu sync.Mutex

// streamSnapshot holds the process streams in effect before a redirect
type streamSnapshot struct {
	stdout *os.File
	stderr *os.File
}

func takeSnapshot() streamSnapshot {
	return streamSnapshot{stdout: os.Stdout, stderr: os.Stderr}
}

func (s streamSnapshot) restore() {
	os.Stdout = s.stdout
	os.Stderr = s.stderr
}

// WithRedirected runs body with os.Stdout and os.Stderr both pointing at the
// sink. The previous streams are restored however body exits, including
// runtime.Goexit from t.FailNow and panics, which are re-raised after restore.
func WithRedirected(sink *Sink, body func()) {
	redirectMu.Lock()
	defer redirectMu.Unlock()

	snapshot := takeSnapshot()
	defer snapshot.restore()

	os.Stdout = sink.File()
	os.Stderr = sink.File()

	body()
}

// CaptureOutput captures stdout and stderr output from a function.
// It shares the redirect lock with WithRedirected.
func CaptureOutput(fn func()) (stdout, stderr string, err error) {
	redirectMu.Lock()
	defer redirectMu.Unlock()

	// Create pipes
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return "", "", err
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		_ = stdoutR.Close() //nolint:errcheck
		_ = stdoutW.Close() //nolint:errcheck
		return "", "", err
	}

	// Capture output in goroutines
	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stdoutR) //nolint:errcheck
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stderrR) //nolint:errcheck
		stderrChan <- buf.String()
	}()

	func() {
		snapshot := takeSnapshot()
		defer func() {
			snapshot.restore()
			// Close write ends so the readers finish
			_ = stdoutW.Close() //nolint:errcheck
			_ = stderrW.Close() //nolint:errcheck
		}()

		os.Stdout = stdoutW
		os.Stderr = stderrW
		fn()
	}()

	// Get captured output
	stdout = <-stdoutChan
	stderr = <-stderrChan

	return stdout, stderr, nil
}

// CaptureStdout is a convenience function that captures only stdout.
func CaptureStdout(fn func()) (string, error) {
	stdout, _, err := CaptureOutput(fn)
	return stdout, err
}

// CaptureStderr is a convenience function that captures only stderr.
func CaptureStderr(fn func()) (string, error) {
	_, stderr, err := CaptureOutput(fn)
	return stderr, err
}
