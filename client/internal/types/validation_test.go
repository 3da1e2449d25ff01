package types

import (
	"errors"
	"strings"
	"testing"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
)

func TestValidateDocID(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in string
		ok bool
	}{
		{"a", true},
		{strings.Repeat("x", 1024), true},
		{strings.Repeat("x", 1025), false},
		// 512 two-byte runes encode to exactly 1024 bytes.
		{strings.Repeat("é", 512), true},
		{strings.Repeat("é", 513), false},
		{"", false},
		// invalid bytes would grow to U+FFFD on the wire
		{strings.Repeat("\xff", 400), false},
		{"ok\xc3", false},
	}
	for _, c := range cases {
		err := ValidateDocID(sdkerrors.OpAddDocument, c.in)
		if c.ok && err != nil {
			t.Fatalf("expected ok for %d-byte id, got %v", len(c.in), err)
		}
		if !c.ok && !errors.Is(err, sdkerrors.ErrConstraintViolation) {
			t.Fatalf("expected constraint violation for %d-byte id, got %v", len(c.in), err)
		}
	}
}

func TestValidateIndexName(t *testing.T) {
	t.Parallel()
	if err := ValidateIndexName(sdkerrors.OpCreateIndex, ""); !errors.Is(err, sdkerrors.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
	if err := ValidateIndexName(sdkerrors.OpCreateIndex, "my index/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()
	cases := map[float64]string{
		5:     "5.0",
		10:    "10.0",
		-3:    "-3.0",
		10.25: "10.25",
		0.5:   "0.5",
		0:     "0.0",
	}
	for in, want := range cases {
		if got := FormatFloat(in, 64); got != want {
			t.Fatalf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatFloat(float64(float32(0.1)), 32); got != "0.1" {
		t.Fatalf("float32 formatting = %q, want 0.1", got)
	}
}
