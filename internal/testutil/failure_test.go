package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTB captures fatal failures instead of failing the enclosing test
type recordingTB struct {
	testing.TB

	mu       sync.Mutex
	failures []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatal(args ...interface{}) {
	r.record(fmt.Sprint(args...))
}

func (r *recordingTB) Fatalf(format string, args ...interface{}) {
	r.record(fmt.Sprintf(format, args...))
}

func (r *recordingTB) record(msg string) {
	r.mu.Lock()
	r.failures = append(r.failures, msg)
	r.mu.Unlock()
	runtime.Goexit()
}

// failureOf runs fn on its own goroutine, as the testing package does, and
// returns the fatal message it produced, if any
func failureOf(fn func(tb testing.TB)) (string, bool) {
	rec := &recordingTB{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(rec)
	}()
	<-done

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.failures) == 0 {
		return "", false
	}
	return strings.Join(rec.failures, "\n"), true
}

func TestRunFailsOnPositiveStatus(t *testing.T) {
	h := newTestHarness(t, fakeEntry(1, true))

	msg, failed := failureOf(func(tb testing.TB) {
		h.Run(tb, []string{"x"}, "runFails")
	})
	require.True(t, failed)
	assert.Contains(t, msg, "test runFails: unexpected status code 1")
	assert.Contains(t, msg, filepath.Join(h.Dir, "runFails.txt"))
}

func TestRunExpectingStatusFailsOnMismatch(t *testing.T) {
	h := newTestHarness(t, fakeEntry(4, true))

	msg, failed := failureOf(func(tb testing.TB) {
		h.RunExpectingStatus(tb, nil, "expectZero", 0)
	})
	require.True(t, failed)
	assert.Contains(t, msg, "unexpected status code 4")
	assert.Contains(t, msg, "(expected 0)")
}

func TestRunFailsOnMissingSignal(t *testing.T) {
	h := newTestHarness(t, fakeEntry(0, false))

	msg, failed := failureOf(func(tb testing.TB) {
		h.Run(tb, nil, "runSilent")
	})
	require.True(t, failed)
	assert.Contains(t, msg, "without publishing a status")
}

func TestRunPassesOnZeroStatus(t *testing.T) {
	h := newTestHarness(t, fakeEntry(0, true))

	_, failed := failureOf(func(tb testing.TB) {
		h.Run(tb, nil, "runPasses")
	})
	assert.False(t, failed)
}

func TestAssertContainsFailsOnMissingText(t *testing.T) {
	h := newTestHarness(t, fakeEntry(0, true))
	run, err := h.Invoke([]string{"present"}, "assertMissing")
	require.NoError(t, err)

	msg, failed := failureOf(func(tb testing.TB) {
		run.AssertContains(tb, "absent text")
	})
	require.True(t, failed)
	assert.Contains(t, msg, `pattern "absent text" not found in `+run.SinkPath)

	msg, failed = failureOf(func(tb testing.TB) {
		run.AssertMatches(tb, `^nowhere$`)
	})
	require.True(t, failed)
	assert.Contains(t, msg, `pattern "^nowhere$" not found in `+run.SinkPath)
}

func TestAssertNotContainsFailsOnPresentText(t *testing.T) {
	h := newTestHarness(t, fakeEntry(0, true))
	run, err := h.Invoke([]string{"present"}, "assertPresent")
	require.NoError(t, err)

	msg, failed := failureOf(func(tb testing.TB) {
		run.AssertNotContains(tb, "args: present")
	})
	require.True(t, failed)
	assert.Contains(t, msg, `unexpected "args: present" found in `+run.SinkPath)
}

func TestAssertFailsOnUnreadableOutput(t *testing.T) {
	h := newTestHarness(t, fakeEntry(0, true))
	run, err := h.Invoke(nil, "removed")
	require.NoError(t, err)
	require.NoError(t, os.Remove(run.SinkPath))

	msg, failed := failureOf(func(tb testing.TB) {
		run.AssertContains(tb, "anything")
	})
	require.True(t, failed)
	assert.Contains(t, msg, "cannot read "+run.SinkPath)
}
