package types

import (
	"errors"
	"fmt"
	"slices"
)

// ErrPositionOutOfBounds is returned when a BatchResults position lies outside
// the submitted batch.
var ErrPositionOutOfBounds = errors.New("position out of bounds")

// BatchResults is the per-document outcome of one batch add, in submission
// order. It owns the submitted batch so failed documents can be resubmitted.
type BatchResults struct {
	results   []bool
	errors    []string
	documents []Document
	hasErrors bool
}

// NewBatchResults zips the submitted documents with the service outcomes.
// The service answers one outcome per document, in order; any other shape is
// rejected.
func NewBatchResults(docs []Document, outcomes []DocumentOutcome) (*BatchResults, error) {
	if len(docs) != len(outcomes) {
		return nil, fmt.Errorf("batch of %d documents got %d outcomes", len(docs), len(outcomes))
	}
	br := &BatchResults{
		results:   make([]bool, len(docs)),
		errors:    make([]string, len(docs)),
		documents: slices.Clone(docs),
	}
	for i, o := range outcomes {
		br.results[i] = o.Added
		if !o.Added {
			br.hasErrors = true
			br.errors[i] = o.Error
		}
	}
	return br, nil
}

// Len returns the batch size.
func (b *BatchResults) Len() int { return len(b.documents) }

// HasErrors reports whether at least one document failed.
func (b *BatchResults) HasErrors() bool { return b.hasErrors }

func (b *BatchResults) check(position int) error {
	if position < 0 || position >= len(b.documents) {
		return fmt.Errorf("%w (%d of %d)", ErrPositionOutOfBounds, position, len(b.documents))
	}
	return nil
}

// Result reports whether the document at position was added.
func (b *BatchResults) Result(position int) (bool, error) {
	if err := b.check(position); err != nil {
		return false, err
	}
	return b.results[position], nil
}

// ErrorMessage returns the service message for a failed position, "" when
// the document was added.
func (b *BatchResults) ErrorMessage(position int) (string, error) {
	if err := b.check(position); err != nil {
		return "", err
	}
	return b.errors[position], nil
}

// Document returns the submitted document at position.
func (b *BatchResults) Document(position int) (Document, error) {
	if err := b.check(position); err != nil {
		return Document{}, err
	}
	return b.documents[position], nil
}

// FailedCount returns the number of documents that were not added.
func (b *BatchResults) FailedCount() int {
	n := 0
	for _, ok := range b.results {
		if !ok {
			n++
		}
	}
	return n
}

// FailedDocuments returns a fresh single-pass iterator over the documents that
// were not added, in submission order. The iterator computes each step on
// demand and never mutates b; once exhausted it stays exhausted.
func (b *BatchResults) FailedDocuments() *DocumentIterator {
	return &DocumentIterator{batch: b, pos: -1}
}

// DocumentIterator walks the failed positions of a BatchResults.
type DocumentIterator struct {
	batch *BatchResults
	pos   int
	done  bool
}

// Next advances to the next failed document and reports whether one exists.
func (it *DocumentIterator) Next() bool {
	if it.done {
		return false
	}
	for it.pos++; it.pos < len(it.batch.results); it.pos++ {
		if !it.batch.results[it.pos] {
			return true
		}
	}
	it.done = true
	return false
}

// Document returns the current failed document. Valid after Next returned true.
func (it *DocumentIterator) Document() Document {
	if it.done || it.pos < 0 {
		return Document{}
	}
	return it.batch.documents[it.pos]
}

// Position returns the batch position of the current failed document.
func (it *DocumentIterator) Position() int { return it.pos }

// Collect drains the remaining failed documents into a slice, ready to be
// passed back to AddDocuments.
func (it *DocumentIterator) Collect() []Document {
	var out []Document
	for it.Next() {
		out = append(out, it.Document())
	}
	return out
}
