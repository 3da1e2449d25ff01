package errors

import (
	stderrors "errors"
	"fmt"
	"net"
	"testing"
)

func TestClassify_Table(t *testing.T) {
	t.Parallel()
	cases := []struct {
		op   Op
		code int
		want Kind
	}{
		{OpSearch, 400, KindInvalidQuerySyntax},
		{OpAddDocuments, 400, KindMalformedRequest},
		{OpAddFunction, 400, KindInvalidFunctionSyntax},
		{OpAddDocument, 400, KindUnexpectedStatus},
		{OpUpdateVariables, 400, KindUnexpectedStatus},
		{OpUpdateCategories, 400, KindUnexpectedStatus},
		{OpCreateIndex, 204, KindIndexAlreadyExists},
		{OpCreateIndex, 409, KindMaximumIndexesExceeded},
		{OpDeleteIndex, 409, KindUnexpectedStatus},
		{OpSearch, 204, KindUnexpectedStatus},
		{OpCreateIndex, 404, KindUnexpectedStatus},
		{OpListIndexes, 404, KindUnexpectedStatus},
		{OpSearch, 500, KindUnexpectedStatus},
		{OpSearch, 302, KindUnexpectedStatus},
	}
	for _, op := range []Op{OpDeleteIndex, OpIndexMetadata, OpSearch, OpAddDocument, OpAddDocuments,
		OpDeleteDocument, OpUpdateVariables, OpUpdateCategories, OpPromote, OpAddFunction,
		OpDeleteFunction, OpListFunctions} {
		cases = append(cases, struct {
			op   Op
			code int
			want Kind
		}{op, 404, KindIndexDoesNotExist})
	}

	for _, c := range cases {
		err := Classify(c.op, c.code, "body")
		if err.Kind != c.want {
			t.Fatalf("Classify(%q, %d) = %s, want %s", c.op, c.code, err.Kind, c.want)
		}
		if err.StatusCode != c.code || err.Body != "body" {
			t.Fatalf("Classify(%q, %d) lost diagnostics: %+v", c.op, c.code, err)
		}
	}
}

func TestError_IsMatchesKindSentinel(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("wrapped: %w", Classify(OpCreateIndex, 204, ""))
	if !stderrors.Is(err, ErrIndexAlreadyExists) {
		t.Fatal("expected errors.Is to match ErrIndexAlreadyExists")
	}
	if stderrors.Is(err, ErrMaximumIndexesExceeded) {
		t.Fatal("unexpected match with ErrMaximumIndexesExceeded")
	}
	if KindOf(err) != KindIndexAlreadyExists || StatusCode(err) != 204 {
		t.Fatalf("KindOf/StatusCode mismatch: %v %d", KindOf(err), StatusCode(err))
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()
	if IsIrrecoverable(Classify(OpSearch, 503, "")) {
		t.Fatal("5xx should be recoverable")
	}
	if !IsIrrecoverable(Classify(OpSearch, 400, "")) {
		t.Fatal("400 should be irrecoverable")
	}
	if IsIrrecoverable(Classify(OpSearch, 429, "")) {
		t.Fatal("429 should be recoverable")
	}
	if IsIrrecoverable(stderrors.New("plain")) {
		t.Fatal("foreign errors are not irrecoverable")
	}
}

func TestNetworkError_UnwrapsTransportFailure(t *testing.T) {
	t.Parallel()
	opErr := &net.OpError{Op: "dial", Err: stderrors.New("connection refused")}
	err := NewNetworkError(OpSearch, opErr)
	if !stderrors.Is(err, ErrIO) {
		t.Fatal("expected ErrIO")
	}
	var got *net.OpError
	if !stderrors.As(err, &got) {
		t.Fatal("expected to reach the net.OpError")
	}
	if IsIrrecoverable(err) {
		t.Fatal("network errors are recoverable")
	}
}

func TestValidationAndProtocolErrors(t *testing.T) {
	t.Parallel()
	v := NewValidationError(OpAddDocument, "docid too long: %d bytes", 2000)
	if !stderrors.Is(v, ErrConstraintViolation) || v.Error() == "" {
		t.Fatalf("unexpected validation error: %v", v)
	}
	p := NewProtocolError(OpSearch, stderrors.New("bad json"))
	if !stderrors.Is(p, ErrProtocol) || !IsIrrecoverable(p) {
		t.Fatalf("unexpected protocol error: %v", p)
	}
}

func TestCategoryAndKindStrings(t *testing.T) {
	t.Parallel()
	if Recoverable.String() != "Recoverable" || Irrecoverable.String() != "Irrecoverable" {
		t.Fatal("category names")
	}
	if ErrorCategory(9).String() != "Unknown(9)" {
		t.Fatal("unknown category name")
	}
	if KindIndexDoesNotExist.String() != "index does not exist" || Kind(99).String() != "Kind(99)" {
		t.Fatal("kind names")
	}
}
