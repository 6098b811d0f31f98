package runner

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of a run failure.
type ErrorClass string

const (
	// ErrorClassTransient indicates a failure that may succeed when retried,
	// such as a busy database.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassPermanent indicates a failure that will repeat, such as an
	// invalid problem file or a broken script.
	ErrorClassPermanent ErrorClass = "permanent"
)

// Error codes.
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeScript     = "SCRIPT_ERROR"
	ErrCodeStore      = "STORE_ERROR"
	ErrCodeCancelled  = "CANCELLED"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// RunError is a classified run failure.
type RunError struct {
	// Class is the error classification for retry logic.
	Class ErrorClass `json:"class"`

	// Code identifies the failure for programmatic handling.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// RunID is the run that failed, if one was created.
	RunID string `json:"run_id,omitempty"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *RunError) Error() string {
	prefix := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.RunID != "" {
		prefix = fmt.Sprintf("[%s] %s (run=%s)", e.Code, e.Message, e.RunID)
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix
}

// Unwrap returns the underlying error for error chain inspection.
func (e *RunError) Unwrap() error {
	return e.Err
}

// Is matches RunErrors with the same class and code.
func (e *RunError) Is(target error) bool {
	t, ok := target.(*RunError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// ErrorClass returns the class as a string for telemetry.
func (e *RunError) ErrorClass() string {
	return string(e.Class)
}

// ErrorCode returns the error code for telemetry.
func (e *RunError) ErrorCode() string {
	return e.Code
}

// WithRunID adds run context to an error.
func (e *RunError) WithRunID(runID string) *RunError {
	e.RunID = runID
	return e
}

// NewValidationError reports an invalid problem or option.
func NewValidationError(message string, err error) *RunError {
	return &RunError{Class: ErrorClassPermanent, Code: ErrCodeValidation, Message: message, Err: err}
}

// NewScriptError reports a failure inside a model script.
func NewScriptError(message string, err error) *RunError {
	return &RunError{Class: ErrorClassPermanent, Code: ErrCodeScript, Message: message, Err: err}
}

// NewStoreError reports a run history failure.
func NewStoreError(message string, err error) *RunError {
	return &RunError{Class: ErrorClassTransient, Code: ErrCodeStore, Message: message, Err: err}
}

// NewCancelledError reports a run stopped by its context.
func NewCancelledError(err error) *RunError {
	return &RunError{Class: ErrorClassTransient, Code: ErrCodeCancelled, Message: "run cancelled", Err: err}
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string, err error) *RunError {
	return &RunError{Class: ErrorClassPermanent, Code: ErrCodeInternal, Message: message, Err: err}
}

// IsTransient returns true if the error is classified as transient.
func IsTransient(err error) bool {
	var e *RunError
	if errors.As(err, &e) {
		return e.Class == ErrorClassTransient
	}
	return false
}

// IsPermanent returns true if the error is classified as permanent.
func IsPermanent(err error) bool {
	var e *RunError
	if errors.As(err, &e) {
		return e.Class == ErrorClassPermanent
	}
	return false
}

// IsRetryable returns true if the run can be retried.
func IsRetryable(err error) bool {
	return IsTransient(err)
}

// Code returns the error code of err, or "" if it is not a RunError.
func Code(err error) string {
	var e *RunError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
