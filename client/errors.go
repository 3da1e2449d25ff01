package client

import (
	"errors"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
	"github.com/indextank/indextank-go/client/internal/types"
)

// ErrBackPressure is returned when the client's internal shard queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// ErrClientClosed is returned by async operations after Close.
var ErrClientClosed = errors.New("client closed")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Error is the concrete type of every failure the SDK reports for a call.
type Error = sdkerrors.Error

// Kind identifies which domain failure an Error is.
type Kind = sdkerrors.Kind

// Error kinds.
const (
	KindUnexpectedStatus       = sdkerrors.KindUnexpectedStatus
	KindConstraintViolation    = sdkerrors.KindConstraintViolation
	KindInvalidQuerySyntax     = sdkerrors.KindInvalidQuerySyntax
	KindMalformedRequest       = sdkerrors.KindMalformedRequest
	KindInvalidFunctionSyntax  = sdkerrors.KindInvalidFunctionSyntax
	KindIndexAlreadyExists     = sdkerrors.KindIndexAlreadyExists
	KindMaximumIndexesExceeded = sdkerrors.KindMaximumIndexesExceeded
	KindIndexDoesNotExist      = sdkerrors.KindIndexDoesNotExist
	KindIO                     = sdkerrors.KindIO
	KindProtocol               = sdkerrors.KindProtocol
)

// Re-exported sentinels so callers can use errors.Is without importing internals.
var (
	ErrUnexpectedStatus       = sdkerrors.ErrUnexpectedStatus
	ErrConstraintViolation    = sdkerrors.ErrConstraintViolation
	ErrInvalidQuerySyntax     = sdkerrors.ErrInvalidQuerySyntax
	ErrMalformedRequest       = sdkerrors.ErrMalformedRequest
	ErrInvalidFunctionSyntax  = sdkerrors.ErrInvalidFunctionSyntax
	ErrIndexAlreadyExists     = sdkerrors.ErrIndexAlreadyExists
	ErrMaximumIndexesExceeded = sdkerrors.ErrMaximumIndexesExceeded
	ErrIndexDoesNotExist      = sdkerrors.ErrIndexDoesNotExist
	ErrIO                     = sdkerrors.ErrIO
	ErrProtocol               = sdkerrors.ErrProtocol

	ErrPositionOutOfBounds = types.ErrPositionOutOfBounds
)

// KindOf returns the Kind of err; errors not produced by the SDK report
// KindUnexpectedStatus.
func KindOf(err error) Kind { return sdkerrors.KindOf(err) }

// StatusCode returns the HTTP status behind err, or 0.
func StatusCode(err error) int { return sdkerrors.StatusCode(err) }

// IsRetryable reports whether retrying the same call may succeed (5xx, 408,
// 429 or a network failure).
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Category == sdkerrors.Recoverable
}
