package rules

import (
	"errors"
	"fmt"
)

// Error types for ruleset resolution
var (
	// ErrResourceNotFound indicates a ruleset reference names nothing loadable
	ErrResourceNotFound = errors.New("ruleset resource not found")

	// ErrNoRulesFound indicates the ruleset resolved but the named rule does not exist
	ErrNoRulesFound = errors.New("no rules found")
)

// ResourceNotFoundError reports a reference that resolved to neither a built-in
// ruleset nor a readable file.
type ResourceNotFoundError struct {
	// Resource is the file the reference was resolved to, empty when none
	Resource string
	// Ref is the reference as given on the command line
	Ref string
}

// Error implements the error interface
func (e *ResourceNotFoundError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "null"
	}
	return fmt.Sprintf("Can't find resource '%s' for rule '%s'.  Make sure the resource is a valid file or a built-in ruleset name.",
		resource, e.Ref)
}

// Is implements errors.Is support
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// NoRulesFoundError reports a ruleset/rule reference whose rule is missing.
type NoRulesFoundError struct {
	Ref string
}

// Error implements the error interface
func (e *NoRulesFoundError) Error() string {
	return fmt.Sprintf("No rules found. Maybe you mispelled a rule name? (%s)", e.Ref)
}

// Is implements errors.Is support
func (e *NoRulesFoundError) Is(target error) bool {
	return target == ErrNoRulesFound
}
