package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the closed set of recoverable failure categories. Every error
// leaving the service layer is one of these three.
type Kind uint8

const (
	// KindNotFound signals that a requested entity id does not exist.
	KindNotFound Kind = iota + 1
	// KindValidation signals one or more input constraint violations.
	KindValidation
	// KindUnexpected covers everything else; the detail is logged, never
	// exposed to the caller.
	KindUnexpected
)

// Error is the application failure type shared across layers.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages; populated only for
	// KindValidation. A field may carry several messages.
	Fields map[string][]string
	// CorrelationID ties an Unexpected response to its log entry.
	CorrelationID string
	Err           error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound builds a not-found error for the given entity kind and id.
func NotFound(entity string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found. Id=%d", entity, id),
	}
}

// Validation builds a validation error carrying the complete per-field
// message map.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// Unexpected wraps an unclassified failure and assigns a correlation id.
func Unexpected(err error) *Error {
	return &Error{
		Kind:          KindUnexpected,
		Message:       "Unexpected error occurred.",
		CorrelationID: uuid.NewString(),
		Err:           err,
	}
}

// From classifies err: an *Error passes through unchanged, anything else
// becomes Unexpected. nil maps to nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

// IsNotFound reports whether err classifies as KindNotFound.
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindNotFound
}

// IsValidation reports whether err classifies as KindValidation.
func IsValidation(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindValidation
}
