// Package status carries the exit status of an in-process codescan run.
//
// When codescan is embedded in a test process the entry point must not call
// os.Exit. Instead, with suppress-exit mode enabled, it publishes the code it
// would have exited with and returns; the caller consumes it afterwards.
package status

import (
	"errors"
	"os"
	"sync"
)

// SuppressExitEnvVar instructs codescan to publish its status instead of exiting.
const SuppressExitEnvVar = "CODESCAN_NO_EXIT_AFTER_RUN"

// ErrMissingSignal indicates no status was published since the last Consume.
var ErrMissingSignal = errors.New("no status signal published")

// osExit is a variable to allow mocking os.Exit in tests
var osExit = os.Exit

// Signal is a single-slot status mailbox.
type Signal struct {
	mu   sync.Mutex
	code int
	set  bool
}

// Publish stores code, replacing any value not yet consumed.
func (s *Signal) Publish(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
	s.set = true
}

// Consume returns the published code and clears the slot.
func (s *Signal) Consume() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return 0, ErrMissingSignal
	}
	code := s.code
	s.code = 0
	s.set = false
	return code, nil
}

// Reset clears the slot without reading it.
func (s *Signal) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = 0
	s.set = false
}

var defaultSignal = &Signal{}

// Default returns the process-wide signal used by Exit.
func Default() *Signal {
	return defaultSignal
}

// Publish sets the process-wide signal.
func Publish(code int) {
	defaultSignal.Publish(code)
}

// Consume reads and clears the process-wide signal.
func Consume() (int, error) {
	return defaultSignal.Consume()
}

// EnableSuppressExit turns on suppress-exit mode for the whole process.
func EnableSuppressExit() error {
	return os.Setenv(SuppressExitEnvVar, "true")
}

// SuppressExit reports whether suppress-exit mode is active.
func SuppressExit() bool {
	return os.Getenv(SuppressExitEnvVar) == "true"
}

// Exit ends a codescan run. In suppress-exit mode the code is published to the
// default signal and Exit returns; otherwise the process terminates.
func Exit(code int) {
	if SuppressExit() {
		Publish(code)
		return
	}
	osExit(code)
}
