package domain

import "fmt"

// ValidationError reports malformed or out-of-range input. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StateError reports an operation attempted in the wrong lifecycle state,
// e.g. scoring before ratings are attached or re-scoring a scored record.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return "state: " + e.Reason
}

func NewStateError(format string, args ...any) error {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup miss: an unknown assessment id or a task
// with no scored assessments. A "no data" result, not a system fault.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Reason
}

func NewNotFoundError(format string, args ...any) error {
	return &NotFoundError{Reason: fmt.Sprintf(format, args...)}
}
