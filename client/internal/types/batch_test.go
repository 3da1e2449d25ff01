package types

import (
	"errors"
	"fmt"
	"testing"
)

func batchDocs(t *testing.T, n int) []Document {
	t.Helper()
	docs := make([]Document, n)
	for i := range docs {
		d, err := NewDocument(fmt.Sprintf("doc-%d", i), map[string]string{"text": "t"})
		if err != nil {
			t.Fatal(err)
		}
		docs[i] = d
	}
	return docs
}

func TestBatchResults_Zip(t *testing.T) {
	t.Parallel()
	docs := batchDocs(t, 4)
	br, err := NewBatchResults(docs, []DocumentOutcome{
		{Added: true}, {Added: false, Error: "bad field"}, {Added: true}, {Added: false, Error: "too big"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !br.HasErrors() || br.Len() != 4 || br.FailedCount() != 2 {
		t.Fatalf("unexpected summary: errors=%v len=%d failed=%d", br.HasErrors(), br.Len(), br.FailedCount())
	}

	for i := 0; i < 4; i++ {
		ok, err := br.Result(i)
		if err != nil {
			t.Fatal(err)
		}
		msg, _ := br.ErrorMessage(i)
		doc, _ := br.Document(i)
		if doc.ID() != docs[i].ID() {
			t.Fatalf("position %d echoes %q", i, doc.ID())
		}
		if ok != (msg == "") {
			t.Fatalf("position %d: result=%v message=%q", i, ok, msg)
		}
	}
	if msg, _ := br.ErrorMessage(3); msg != "too big" {
		t.Fatalf("message at 3 = %q", msg)
	}
}

func TestBatchResults_OutOfBounds(t *testing.T) {
	t.Parallel()
	br, err := NewBatchResults(batchDocs(t, 2), []DocumentOutcome{{Added: true}, {Added: true}})
	if err != nil {
		t.Fatal(err)
	}
	for _, pos := range []int{-1, 2, 10} {
		if _, err := br.Result(pos); !errors.Is(err, ErrPositionOutOfBounds) {
			t.Fatalf("Result(%d): expected bounds error, got %v", pos, err)
		}
		if _, err := br.ErrorMessage(pos); !errors.Is(err, ErrPositionOutOfBounds) {
			t.Fatalf("ErrorMessage(%d): expected bounds error, got %v", pos, err)
		}
		if _, err := br.Document(pos); !errors.Is(err, ErrPositionOutOfBounds) {
			t.Fatalf("Document(%d): expected bounds error, got %v", pos, err)
		}
	}
	if br.HasErrors() {
		t.Fatal("all-added batch reports errors")
	}
}

func TestBatchResults_LengthMismatch(t *testing.T) {
	t.Parallel()
	if _, err := NewBatchResults(batchDocs(t, 3), []DocumentOutcome{{Added: true}}); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestFailedDocuments_SinglePassInOrder(t *testing.T) {
	t.Parallel()
	docs := batchDocs(t, 4)
	br, err := NewBatchResults(docs, []DocumentOutcome{{Added: true}, {Added: false}, {Added: true}, {Added: false}})
	if err != nil {
		t.Fatal(err)
	}

	it := br.FailedDocuments()
	var positions []int
	var ids []string
	for it.Next() {
		positions = append(positions, it.Position())
		ids = append(ids, it.Document().ID())
	}
	if len(positions) != 2 || positions[0] != 1 || positions[1] != 3 {
		t.Fatalf("failed positions = %v, want [1 3]", positions)
	}
	if ids[0] != "doc-1" || ids[1] != "doc-3" {
		t.Fatalf("failed ids = %v", ids)
	}
	if it.Next() {
		t.Fatal("exhausted iterator restarted")
	}
	if len(it.Collect()) != 0 {
		t.Fatal("exhausted iterator yielded documents")
	}

	// Consuming the iterator leaves the results untouched.
	if ok, _ := br.Result(1); ok {
		t.Fatal("batch results mutated")
	}
	if again := br.FailedDocuments().Collect(); len(again) != 2 {
		t.Fatalf("fresh iterator yielded %d docs", len(again))
	}
}
