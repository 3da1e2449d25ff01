// Package errors provides the error taxonomy of the client SDK.
// Every failure surfaced by the SDK is an *Error carrying one Kind; the Kind
// decides how callers react and the Category decides whether the async
// executor may retry it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may be retried with exponential backoff.
	// Examples: 500 Internal Server Error, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors should fail immediately without retry.
	// Examples: 400 Bad Request, 404 index does not exist.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Kind is the closed set of domain error kinds.
type Kind int

const (
	KindUnexpectedStatus Kind = iota
	KindConstraintViolation
	KindInvalidQuerySyntax
	KindMalformedRequest
	KindInvalidFunctionSyntax
	KindIndexAlreadyExists
	KindMaximumIndexesExceeded
	KindIndexDoesNotExist
	KindIO
	KindProtocol
)

var kindNames = map[Kind]string{
	KindUnexpectedStatus:       "unexpected status",
	KindConstraintViolation:    "constraint violation",
	KindInvalidQuerySyntax:     "invalid query syntax",
	KindMalformedRequest:       "malformed request",
	KindInvalidFunctionSyntax:  "invalid function syntax",
	KindIndexAlreadyExists:     "index already exists",
	KindMaximumIndexesExceeded: "maximum indexes exceeded",
	KindIndexDoesNotExist:      "index does not exist",
	KindIO:                     "i/o failure",
	KindProtocol:               "protocol error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// kindError is the sentinel type; errors.Is(err, ErrIndexDoesNotExist) matches
// any *Error of that kind.
type kindError struct{ kind Kind }

func (k *kindError) Error() string { return k.kind.String() }

// Sentinels, one per Kind.
var (
	ErrUnexpectedStatus       error = &kindError{KindUnexpectedStatus}
	ErrConstraintViolation    error = &kindError{KindConstraintViolation}
	ErrInvalidQuerySyntax     error = &kindError{KindInvalidQuerySyntax}
	ErrMalformedRequest       error = &kindError{KindMalformedRequest}
	ErrInvalidFunctionSyntax  error = &kindError{KindInvalidFunctionSyntax}
	ErrIndexAlreadyExists     error = &kindError{KindIndexAlreadyExists}
	ErrMaximumIndexesExceeded error = &kindError{KindMaximumIndexesExceeded}
	ErrIndexDoesNotExist      error = &kindError{KindIndexDoesNotExist}
	ErrIO                     error = &kindError{KindIO}
	ErrProtocol               error = &kindError{KindProtocol}
)

// Error wraps a failure with its operation, kind and categorisation metadata.
type Error struct {
	Op         Op
	Kind       Kind
	Category   ErrorCategory
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Body       string // Response body for diagnostics
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Op, e.Kind, e.StatusCode, e.Body)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	k, ok := target.(*kindError)
	return ok && k.kind == e.Kind
}

// KindOf returns the Kind of err, or KindUnexpectedStatus for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpectedStatus
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Category == Irrecoverable
	}
	return false
}
