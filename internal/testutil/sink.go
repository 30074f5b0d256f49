package testutil

import (
	"os"
	"path/filepath"
	"sync"
)

// SinkExtension is appended to every sink name
const SinkExtension = ".txt"

// Sink is a file that receives both stdout and stderr of one invocation
type Sink struct {
	path string
	file *os.File
	once sync.Once
	err  error
}

// OpenSink creates or truncates <dir>/<name>.txt
func OpenSink(dir, name string) (*Sink, error) {
	path := filepath.Join(dir, name+SinkExtension)
	f, err := os.Create(path) // #nosec G304 - sink paths are chosen by tests
	if err != nil {
		return nil, &HarnessError{Type: ErrorTypeSinkCreation, TestName: name, Path: path, Err: err}
	}
	return &Sink{path: path, file: f}, nil
}

// Path returns the sink file path
func (s *Sink) Path() string {
	return s.path
}

// File returns the underlying file for stream redirection
func (s *Sink) File() *os.File {
	return s.file
}

// Write appends to the sink
func (s *Sink) Write(p []byte) (int, error) {
	return s.file.Write(p)
}

// Close flushes and closes the sink; later calls return the first result
func (s *Sink) Close() error {
	s.once.Do(func() {
		if err := s.file.Sync(); err != nil {
			s.err = err
		}
		if err := s.file.Close(); err != nil && s.err == nil {
			s.err = err
		}
	})
	return s.err
}
