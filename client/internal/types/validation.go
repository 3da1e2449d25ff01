package types

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
)

// MaxDocIDBytes is the largest docid the service accepts, UTF-8 encoded.
const MaxDocIDBytes = 1024

// ValidateDocID checks presence and encoded length of a document id.
func ValidateDocID(op sdkerrors.Op, id string) error {
	if id == "" {
		return sdkerrors.NewValidationError(op, "docid cannot be empty")
	}
	if !utf8.ValidString(id) {
		return sdkerrors.NewValidationError(op, "docid %q is not valid UTF-8", id)
	}
	// Valid UTF-8, so len is the encoded length.
	if len(id) > MaxDocIDBytes {
		return sdkerrors.NewValidationError(op, "docid can not be longer than %d bytes when UTF-8 encoded (got %d)", MaxDocIDBytes, len(id))
	}
	return nil
}

// ValidateIndexName rejects empty names; any other string is a valid opaque
// path segment once escaped.
func ValidateIndexName(op sdkerrors.Op, name string) error {
	if name == "" {
		return sdkerrors.NewValidationError(op, "index name cannot be empty")
	}
	return nil
}

// FormatFloat renders v the way the service's reference client does:
// shortest plain-decimal representation, integral values keeping a trailing
// ".0" (5 -> "5.0", 10.25 -> "10.25").
func FormatFloat(v float64, bitSize int) string {
	s := strconv.FormatFloat(v, 'f', -1, bitSize)
	if !strings.Contains(s, ".") && !strings.ContainsAny(s, "NI") {
		s += ".0"
	}
	return s
}
