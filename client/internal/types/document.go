package types

import (
	"encoding/json"
	"maps"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
)

// Document is one indexable unit. It is immutable once constructed: the
// constructor copies every map it is given and accessors return copies.
type Document struct {
	id         string
	fields     map[string]string
	variables  map[int]float32
	categories map[string]string
}

// DocumentOption sets optional parts of a Document.
type DocumentOption func(*Document)

// WithVariables attaches scoring variables keyed by variable index.
func WithVariables(vars map[int]float32) DocumentOption {
	return func(d *Document) {
		if vars != nil {
			d.variables = maps.Clone(vars)
		}
	}
}

// WithCategories attaches facet categories.
func WithCategories(cats map[string]string) DocumentOption {
	return func(d *Document) {
		if cats != nil {
			d.categories = maps.Clone(cats)
		}
	}
}

// NewDocument validates id and fields and builds a Document.
func NewDocument(id string, fields map[string]string, opts ...DocumentOption) (Document, error) {
	if err := ValidateDocID(sdkerrors.OpAddDocument, id); err != nil {
		return Document{}, err
	}
	if fields == nil {
		return Document{}, sdkerrors.NewValidationError(sdkerrors.OpAddDocument, "fields cannot be nil (docid %q)", id)
	}
	d := Document{id: id, fields: maps.Clone(fields)}
	for _, opt := range opts {
		opt(&d)
	}
	return d, nil
}

// ID returns the document id.
func (d Document) ID() string { return d.id }

// Fields returns a copy of the text fields.
func (d Document) Fields() map[string]string { return maps.Clone(d.fields) }

// Variables returns a copy of the scoring variables, nil when unset.
func (d Document) Variables() map[int]float32 { return maps.Clone(d.variables) }

// Categories returns a copy of the categories, nil when unset.
func (d Document) Categories() map[string]string { return maps.Clone(d.categories) }

type documentJSON struct {
	DocID      string            `json:"docid"`
	Fields     map[string]string `json:"fields"`
	Variables  map[int]float32   `json:"variables,omitempty"`
	Categories map[string]string `json:"categories,omitempty"`
}

// MarshalJSON renders the wire form: docid and fields always, variables and
// categories only when set.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{
		DocID:      d.id,
		Fields:     d.fields,
		Variables:  d.variables,
		Categories: d.categories,
	})
}

// UnmarshalJSON reads the wire form and applies the constructor's checks.
func (d *Document) UnmarshalJSON(b []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	doc, err := NewDocument(raw.DocID, raw.Fields, WithVariables(raw.Variables), WithCategories(raw.Categories))
	if err != nil {
		return err
	}
	*d = doc
	return nil
}
