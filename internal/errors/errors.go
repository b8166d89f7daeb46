package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	// ErrInvalidInput indicates invalid user input or configuration
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingReference indicates a manifest referenced an id that does not exist
	ErrMissingReference = errors.New("missing reference")

	// ErrSchemaViolation indicates a manifest breaks a structural invariant
	ErrSchemaViolation = errors.New("schema violation")

	// ErrFatalConfig indicates a recipe or feature cannot be compiled at all
	ErrFatalConfig = errors.New("fatal configuration")

	// ErrUnknownTool indicates a tool name with no registered backend
	ErrUnknownTool = errors.New("unknown tool")
)

// ValidationError represents a manifest validation failure
type ValidationError struct {
	Path    string // Manifest file path (empty if not file-backed)
	Field   string // Field that failed validation
	Message string // Human-readable message
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: validation failed for %s: %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Is implements error comparison for errors.Is
func (e *ValidationError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// NewValidationError creates a new validation error
func NewValidationError(path, field, message string) *ValidationError {
	return &ValidationError{Path: path, Field: field, Message: message}
}

// ReferenceError represents a dangling id reference between manifests
type ReferenceError struct {
	Kind string // Referenced entity kind (agent, rulepack, recipe, prompt)
	ID   string // Referenced id
	From string // Manifest or step making the reference
}

func (e *ReferenceError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("%s %q referenced by %s not found", e.Kind, e.ID, e.From)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is implements error comparison for errors.Is
func (e *ReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}

// NewReferenceError creates a new reference error
func NewReferenceError(kind, id, from string) *ReferenceError {
	return &ReferenceError{Kind: kind, ID: id, From: from}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Append adds an error to the multi-error if it's non-nil
func (e *MultiError) Append(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// ErrorOrNil returns the MultiError if it has errors, otherwise nil
func (e *MultiError) ErrorOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NewMultiError creates a new multi-error from a slice of errors
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}
