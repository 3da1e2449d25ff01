package errors

import (
	"fmt"
	"net/http"
)

// Op names the SDK operation an error came from. The status-to-kind mapping
// depends on it.
type Op string

const (
	OpConfigure        Op = "configure client"
	OpListIndexes      Op = "list indexes"
	OpCreateIndex      Op = "create index"
	OpDeleteIndex      Op = "delete index"
	OpIndexMetadata    Op = "get index metadata"
	OpSearch           Op = "search"
	OpAddDocument      Op = "add document"
	OpAddDocuments     Op = "add documents"
	OpDeleteDocument   Op = "delete document"
	OpUpdateVariables  Op = "update variables"
	OpUpdateCategories Op = "update categories"
	OpPromote          Op = "promote"
	OpAddFunction      Op = "add function"
	OpDeleteFunction   Op = "delete function"
	OpListFunctions    Op = "list functions"
)

// perIndex reports whether op addresses an existing index, so a 404 means the
// index is gone. Creation is excluded: the index is expected not to exist yet.
func (op Op) perIndex() bool {
	switch op {
	case OpConfigure, OpListIndexes, OpCreateIndex:
		return false
	default:
		return true
	}
}

// Classify maps a non-success HTTP response of op to its domain error.
//
// A 400 on a single document add or on a variables/categories update stays an
// unexpected status: older clients surfaced it that way and callers depend on
// it, unlike the batch add which reports a malformed request.
func Classify(op Op, statusCode int, body string) *Error {
	kind := KindUnexpectedStatus
	switch statusCode {
	case http.StatusBadRequest:
		switch op {
		case OpSearch:
			kind = KindInvalidQuerySyntax
		case OpAddDocuments:
			kind = KindMalformedRequest
		case OpAddFunction:
			kind = KindInvalidFunctionSyntax
		}
	case http.StatusNoContent:
		if op == OpCreateIndex {
			kind = KindIndexAlreadyExists
		}
	case http.StatusConflict:
		if op == OpCreateIndex {
			kind = KindMaximumIndexesExceeded
		}
	case http.StatusNotFound:
		if op.perIndex() {
			kind = KindIndexDoesNotExist
		}
	}

	return &Error{
		Op:         op,
		Kind:       kind,
		Category:   httpCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
	}
}

// httpCategory maps HTTP status codes to retry categories.
func httpCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// 204/3xx on a write are answers, not transient failures.
		return Irrecoverable
	}
}

// NewNetworkError creates an error for transport-level failures.
// Network errors are recoverable as they may be transient.
func NewNetworkError(op Op, err error) *Error {
	return &Error{
		Op:         op,
		Kind:       KindIO,
		Category:   Recoverable,
		Underlying: err,
	}
}

// NewValidationError reports a local constraint violation; no request is sent.
func NewValidationError(op Op, format string, args ...any) *Error {
	return &Error{
		Op:         op,
		Kind:       KindConstraintViolation,
		Category:   Irrecoverable,
		Underlying: fmt.Errorf(format, args...),
	}
}

// NewProtocolError reports a response the SDK cannot decode.
func NewProtocolError(op Op, err error) *Error {
	return &Error{
		Op:         op,
		Kind:       KindProtocol,
		Category:   Irrecoverable,
		Underlying: err,
	}
}
