package client

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/indextank/indextank-go/client/internal/api"
	"github.com/indextank/indextank-go/client/internal/job"
	"github.com/indextank/indextank-go/client/internal/types"
)

// Index is a handle on one named index. Metadata fetched by Refresh (or
// seeded by ListIndexes) is cached on the handle and never expires on its
// own. A handle is safe for concurrent use.
type Index struct {
	client *Client
	name   string

	mu       sync.Mutex
	metadata types.IndexMetadata
}

// Name returns the index name.
func (i *Index) Name() string { return i.name }

// ---- lifecycle ----

// Create creates the index. Metadata returned by the service, if any, is
// cached.
func (i *Index) Create(ctx context.Context) error {
	md, err := api.CreateIndex(ctx, i.client.http, i.client.baseURL, i.name)
	if err != nil {
		return err
	}
	if md != nil {
		i.setMetadata(md)
	}
	return nil
}

// Delete removes the index and drops the cached metadata.
func (i *Index) Delete(ctx context.Context) error {
	if err := api.DeleteIndex(ctx, i.client.http, i.client.baseURL, i.name); err != nil {
		return err
	}
	i.setMetadata(nil)
	return nil
}

// Refresh fetches the metadata and replaces the cached copy.
func (i *Index) Refresh(ctx context.Context) error {
	md, err := api.GetIndexMetadata(ctx, i.client.http, i.client.baseURL, i.name)
	if err != nil {
		return err
	}
	i.setMetadata(md)
	return nil
}

// Exists reports whether the service knows the index. Any failure other than
// "index does not exist" is returned as an error.
func (i *Index) Exists(ctx context.Context) (bool, error) {
	err := i.Refresh(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrIndexDoesNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Metadata returns a copy of the cached metadata, fetching it first when
// nothing is cached.
func (i *Index) Metadata(ctx context.Context) (IndexMetadata, error) {
	if md := i.cached(); md != nil {
		return md, nil
	}
	if err := i.Refresh(ctx); err != nil {
		return nil, err
	}
	return i.cached(), nil
}

// Code returns the index code from metadata.
func (i *Index) Code(ctx context.Context) (string, error) {
	md, err := i.Metadata(ctx)
	if err != nil {
		return "", err
	}
	return md.Code(), nil
}

// CreationTime returns the index creation time, or nil when the service did
// not report one in a known layout.
func (i *Index) CreationTime(ctx context.Context) (*time.Time, error) {
	md, err := i.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return md.CreationTime(), nil
}

// HasStarted reports whether the index is ready to serve. Cached metadata is
// used as is; call Refresh to observe a change.
func (i *Index) HasStarted(ctx context.Context) (bool, error) {
	md, err := i.Metadata(ctx)
	if err != nil {
		return false, err
	}
	return md.Started(), nil
}

// WaitUntilStarted polls the metadata with exponential backoff until the
// index reports started or ctx ends. A missing index stops the wait.
func (i *Index) WaitUntilStarted(ctx context.Context) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 5 * time.Second
	exp.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		if err := i.Refresh(ctx); err != nil {
			if errors.Is(err, ErrIndexDoesNotExist) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if !i.cached().Started() {
			return errNotStarted
		}
		return nil
	}, backoff.WithContext(exp, ctx))
}

var errNotStarted = errors.New("index not started")

func (i *Index) cached() types.IndexMetadata {
	i.mu.Lock()
	defer i.mu.Unlock()
	return maps.Clone(i.metadata)
}

func (i *Index) setMetadata(md types.IndexMetadata) {
	i.mu.Lock()
	i.metadata = md
	i.mu.Unlock()
}

// ---- search ----

// Search runs q against the index.
func (i *Index) Search(ctx context.Context, q Query) (*SearchResults, error) {
	return api.Search(ctx, i.client.http, i.client.baseURL, i.name, q)
}

// SearchString runs a plain query string with default parameters.
func (i *Index) SearchString(ctx context.Context, text string) (*SearchResults, error) {
	return i.Search(ctx, NewQuery(text))
}

// ---- documents ----

// AddDocument indexes one document synchronously.
func (i *Index) AddDocument(ctx context.Context, doc Document) error {
	return api.AddDocument(ctx, i.client.http, i.client.baseURL, i.name, doc)
}

// AddDocuments indexes a batch synchronously and returns the per-document
// outcome. A rejected document does not fail the call; inspect the results.
func (i *Index) AddDocuments(ctx context.Context, docs []Document) (*BatchResults, error) {
	br, err := api.AddDocuments(ctx, i.client.http, i.client.baseURL, i.name, docs)
	if err != nil {
		return nil, err
	}
	recordBatch(br)
	return br, nil
}

// EnqueueDocuments queues a batch add on the client's background executor
// and returns once it is accepted. Batches for one index are sent in the
// order they were enqueued. handler, when non-nil, receives the results or
// the final error. A full queue yields ErrBackPressure. ctx only gates the
// submission; once queued the batch is sent even if ctx ends.
func (i *Index) EnqueueDocuments(ctx context.Context, docs []Document, handler BatchHandler) (*EnqueueAck, error) {
	exec, err := i.client.executor()
	if err != nil {
		return nil, err
	}
	wrapped := func(br *BatchResults, err error) {
		recordBatch(br)
		if handler != nil {
			handler(br, err)
		}
	}
	ack, err := api.EnqueueDocuments(ctx, exec, i.client.http, i.client.baseURL, i.name, docs, wrapped)
	if err != nil {
		return nil, mapSubmitError(err)
	}
	batchesEnqueuedTotal.WithLabelValues(job.ShardLabel(i.name)).Inc()
	return ack, nil
}

// DeleteDocument removes a document by id.
func (i *Index) DeleteDocument(ctx context.Context, docID string) error {
	return api.DeleteDocument(ctx, i.client.http, i.client.baseURL, i.name, docID)
}

// UpdateVariables replaces scoring variables of an indexed document.
func (i *Index) UpdateVariables(ctx context.Context, docID string, vars map[int]float32) error {
	return api.UpdateVariables(ctx, i.client.http, i.client.baseURL, i.name, docID, vars)
}

// UpdateCategories replaces facet categories of an indexed document.
func (i *Index) UpdateCategories(ctx context.Context, docID string, cats map[string]string) error {
	return api.UpdateCategories(ctx, i.client.http, i.client.baseURL, i.name, docID, cats)
}

// Promote makes docID the top result for query.
func (i *Index) Promote(ctx context.Context, docID, query string) error {
	return api.Promote(ctx, i.client.http, i.client.baseURL, i.name, docID, query)
}

// ---- scoring functions ----

// AddFunction defines (or redefines) scoring function id.
func (i *Index) AddFunction(ctx context.Context, id int, definition string) error {
	return api.AddFunction(ctx, i.client.http, i.client.baseURL, i.name, id, definition)
}

// DeleteFunction removes scoring function id.
func (i *Index) DeleteFunction(ctx context.Context, id int) error {
	return api.DeleteFunction(ctx, i.client.http, i.client.baseURL, i.name, id)
}

// ListFunctions returns the defined scoring functions keyed by id.
func (i *Index) ListFunctions(ctx context.Context) (map[int]string, error) {
	return api.ListFunctions(ctx, i.client.http, i.client.baseURL, i.name)
}
