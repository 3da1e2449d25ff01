package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
)

func TestNewDocument_IDLength(t *testing.T) {
	t.Parallel()
	if _, err := NewDocument(strings.Repeat("a", 1024), map[string]string{"text": "t"}); err != nil {
		t.Fatalf("1024-byte id rejected: %v", err)
	}
	_, err := NewDocument(strings.Repeat("a", 1025), map[string]string{"text": "t"})
	if !errors.Is(err, sdkerrors.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestNewDocument_NilFields(t *testing.T) {
	t.Parallel()
	if _, err := NewDocument("d1", nil); !errors.Is(err, sdkerrors.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation for nil fields, got %v", err)
	}
}

func TestDocument_JSON(t *testing.T) {
	t.Parallel()
	plain, err := NewDocument("d1", map[string]string{"text": "hello"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(plain)
	if string(b) != `{"docid":"d1","fields":{"text":"hello"}}` {
		t.Fatalf("plain doc JSON = %s", b)
	}

	full, err := NewDocument("d2", map[string]string{"text": "x"},
		WithVariables(map[int]float32{0: 1.5}),
		WithCategories(map[string]string{"lang": "en"}))
	if err != nil {
		t.Fatal(err)
	}
	b, _ = json.Marshal(full)
	if string(b) != `{"docid":"d2","fields":{"text":"x"},"variables":{"0":1.5},"categories":{"lang":"en"}}` {
		t.Fatalf("full doc JSON = %s", b)
	}

	var back Document
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID() != "d2" || back.Variables()[0] != 1.5 || back.Categories()["lang"] != "en" {
		t.Fatalf("decoded doc = %+v", back)
	}
}

func TestDocument_UnmarshalValidates(t *testing.T) {
	t.Parallel()
	var d Document
	err := json.Unmarshal([]byte(`{"docid":"","fields":{}}`), &d)
	if !errors.Is(err, sdkerrors.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestDocument_Immutable(t *testing.T) {
	t.Parallel()
	fields := map[string]string{"text": "before"}
	d, err := NewDocument("d", fields)
	if err != nil {
		t.Fatal(err)
	}
	fields["text"] = "after"
	d.Fields()["text"] = "changed"
	if d.Fields()["text"] != "before" {
		t.Fatalf("document changed: %v", d.Fields())
	}
	if d.Variables() != nil || d.Categories() != nil {
		t.Fatal("unset optional maps should be nil")
	}
}
