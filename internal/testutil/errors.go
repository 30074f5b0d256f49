package testutil

import (
	"errors"
	"fmt"

	"github.com/bebsworthy/codescan/internal/status"
)

// Harness error sentinels for errors.Is checks
var (
	// ErrSinkCreation indicates the output sink file could not be created
	ErrSinkCreation = errors.New("cannot create output sink")

	// ErrMissingSignal indicates the entry point returned without publishing a status
	ErrMissingSignal = status.ErrMissingSignal

	// ErrUnexpectedStatus indicates the invocation ended with a status other than expected
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrPatternNotFound indicates captured output did not match a pattern
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrFileRead indicates a captured output file could not be read
	ErrFileRead = errors.New("cannot read file")
)

// ErrorType represents the kind of harness failure
type ErrorType int

const (
	// ErrorTypeUnknown indicates an unknown error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeSinkCreation indicates the sink file could not be created
	ErrorTypeSinkCreation
	// ErrorTypeMissingSignal indicates no status was published
	ErrorTypeMissingSignal
	// ErrorTypeUnexpectedStatus indicates a status check failed
	ErrorTypeUnexpectedStatus
	// ErrorTypePatternNotFound indicates a pattern check failed
	ErrorTypePatternNotFound
	// ErrorTypeFileRead indicates a file could not be read
	ErrorTypeFileRead
)

// HarnessError represents a detailed harness failure
type HarnessError struct {
	Type     ErrorType
	TestName string
	Path     string
	Pattern  string
	Status   int
	Err      error
}

// Error implements the error interface
func (e *HarnessError) Error() string {
	switch e.Type {
	case ErrorTypeSinkCreation:
		return fmt.Sprintf("cannot create output sink %s: %v", e.Path, e.Err)
	case ErrorTypeMissingSignal:
		return fmt.Sprintf("test %s: entry point returned without publishing a status", e.TestName)
	case ErrorTypeUnexpectedStatus:
		return fmt.Sprintf("test %s: unexpected status code %d, output in %s", e.TestName, e.Status, e.Path)
	case ErrorTypePatternNotFound:
		return fmt.Sprintf("pattern %q not found in %s", e.Pattern, e.Path)
	case ErrorTypeFileRead:
		return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("harness error: %v", e.Err)
	}
}

// Unwrap returns the underlying error
func (e *HarnessError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *HarnessError) Is(target error) bool {
	switch target {
	case ErrSinkCreation:
		return e.Type == ErrorTypeSinkCreation
	case ErrMissingSignal:
		return e.Type == ErrorTypeMissingSignal
	case ErrUnexpectedStatus:
		return e.Type == ErrorTypeUnexpectedStatus
	case ErrPatternNotFound:
		return e.Type == ErrorTypePatternNotFound
	case ErrFileRead:
		return e.Type == ErrorTypeFileRead
	}
	return false
}
