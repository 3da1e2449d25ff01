package client

import (
	"github.com/indextank/indextank-go/client/internal/api"
	"github.com/indextank/indextank-go/client/internal/shardqueue"
	"github.com/indextank/indextank-go/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
type (
	// Inputs
	Document       = types.Document
	DocumentOption = types.DocumentOption
	Query          = types.Query
	Range          = types.Range

	// Results
	SearchResults    = types.SearchResults
	BatchResults     = types.BatchResults
	DocumentIterator = types.DocumentIterator
	IndexMetadata    = types.IndexMetadata
	EnqueueAck       = types.EnqueueAck

	// Async
	BatchHandler   = api.BatchHandler
	ExecutorConfig = shardqueue.Config
)

// MaxDocIDBytes is the largest document id the service accepts, UTF-8 encoded.
const MaxDocIDBytes = types.MaxDocIDBytes

// NewDocument validates id and fields and builds a Document.
func NewDocument(id string, fields map[string]string, opts ...DocumentOption) (Document, error) {
	return types.NewDocument(id, fields, opts...)
}

// WithVariables attaches scoring variables keyed by variable index.
func WithVariables(vars map[int]float32) DocumentOption { return types.WithVariables(vars) }

// WithCategories attaches facet categories.
func WithCategories(cats map[string]string) DocumentOption { return types.WithCategories(cats) }

// NewQuery starts a query for the given query string.
func NewQuery(text string) Query { return types.NewQuery(text) }
