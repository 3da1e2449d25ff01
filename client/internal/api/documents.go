package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
	"github.com/indextank/indextank-go/client/internal/job"
	"github.com/indextank/indextank-go/client/internal/types"
)

type variablesBody struct {
	DocID     string          `json:"docid"`
	Variables map[int]float32 `json:"variables"`
}

type categoriesBody struct {
	DocID      string            `json:"docid"`
	Categories map[string]string `json:"categories"`
}

type promoteBody struct {
	DocID string `json:"docid"`
	Query string `json:"query"`
}

// AddDocument indexes a single document, replacing any document with the same id.
func AddDocument(ctx context.Context, httpClient types.HTTPClient, baseURL, name string, doc types.Document) error {
	if err := types.ValidateIndexName(sdkerrors.OpAddDocument, name); err != nil {
		return err
	}
	if err := types.ValidateDocID(sdkerrors.OpAddDocument, doc.ID()); err != nil {
		return err
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpAddDocument,
		method: http.MethodPut,
		url:    IndexURL(baseURL, name) + docsSuffix,
		body:   doc,
	})
	return err
}

// AddDocuments indexes docs in one request and reports the per-document outcome.
func AddDocuments(ctx context.Context, httpClient types.HTTPClient, baseURL, name string, docs []types.Document) (*types.BatchResults, error) {
	if err := types.ValidateIndexName(sdkerrors.OpAddDocuments, name); err != nil {
		return nil, err
	}
	for _, d := range docs {
		if err := types.ValidateDocID(sdkerrors.OpAddDocuments, d.ID()); err != nil {
			return nil, err
		}
	}
	if docs == nil {
		docs = []types.Document{}
	}
	body, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpAddDocuments,
		method: http.MethodPut,
		url:    IndexURL(baseURL, name) + docsSuffix,
		body:   docs,
	})
	if err != nil {
		return nil, err
	}
	var outcomes []types.DocumentOutcome
	if body != nil {
		if outcomes, err = decode(sdkerrors.OpAddDocuments, body, types.DecodeOutcomes); err != nil {
			return nil, err
		}
	}
	results, err := types.NewBatchResults(docs, outcomes)
	if err != nil {
		return nil, sdkerrors.NewProtocolError(sdkerrors.OpAddDocuments, err)
	}
	return results, nil
}

// DeleteDocument removes one document by id.
func DeleteDocument(ctx context.Context, httpClient types.HTTPClient, baseURL, name, docID string) error {
	if err := types.ValidateIndexName(sdkerrors.OpDeleteDocument, name); err != nil {
		return err
	}
	if err := types.ValidateDocID(sdkerrors.OpDeleteDocument, docID); err != nil {
		return err
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpDeleteDocument,
		method: http.MethodDelete,
		url:    IndexURL(baseURL, name) + docsSuffix,
		query:  url.Values{"docid": {docID}},
	})
	return err
}

// UpdateVariables replaces the scoring variables of an indexed document.
func UpdateVariables(ctx context.Context, httpClient types.HTTPClient, baseURL, name, docID string, vars map[int]float32) error {
	if err := types.ValidateIndexName(sdkerrors.OpUpdateVariables, name); err != nil {
		return err
	}
	if err := types.ValidateDocID(sdkerrors.OpUpdateVariables, docID); err != nil {
		return err
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpUpdateVariables,
		method: http.MethodPut,
		url:    IndexURL(baseURL, name) + variablesSuffix,
		body:   variablesBody{DocID: docID, Variables: vars},
	})
	return err
}

// UpdateCategories replaces the categories of an indexed document.
func UpdateCategories(ctx context.Context, httpClient types.HTTPClient, baseURL, name, docID string, cats map[string]string) error {
	if err := types.ValidateIndexName(sdkerrors.OpUpdateCategories, name); err != nil {
		return err
	}
	if err := types.ValidateDocID(sdkerrors.OpUpdateCategories, docID); err != nil {
		return err
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpUpdateCategories,
		method: http.MethodPut,
		url:    IndexURL(baseURL, name) + categoriesSuffix,
		body:   categoriesBody{DocID: docID, Categories: cats},
	})
	return err
}

// Promote pins a document to the top of the results for an exact query.
func Promote(ctx context.Context, httpClient types.HTTPClient, baseURL, name, docID, query string) error {
	if err := types.ValidateIndexName(sdkerrors.OpPromote, name); err != nil {
		return err
	}
	if err := types.ValidateDocID(sdkerrors.OpPromote, docID); err != nil {
		return err
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpPromote,
		method: http.MethodPut,
		url:    IndexURL(baseURL, name) + promoteSuffix,
		body:   promoteBody{DocID: docID, Query: query},
	})
	return err
}

// BatchHandler receives the final outcome of an enqueued batch.
type BatchHandler func(*types.BatchResults, error)

// EnqueueError is what an enqueued batch job returns on failure. It carries
// the batch handler so the executor's error hook can report the final error.
type EnqueueError struct {
	Index   string
	Handler BatchHandler
	Err     error
}

func (e *EnqueueError) Error() string {
	return fmt.Sprintf("enqueued batch for index %q: %v", e.Index, e.Err)
}

func (e *EnqueueError) Unwrap() error { return e.Err }

// EnqueueDocuments submits a batch add to the executor, keyed by index name so
// batches for one index are sent in submission order. handler, when non-nil,
// is called with the results or the final error.
//
// ctx is checked before submission and bounds nothing after it: a queued
// batch is sent even if ctx ends while it waits, so handler always runs.
func EnqueueDocuments(ctx context.Context, exec types.Executor, httpClient types.HTTPClient, baseURL, name string, docs []types.Document, handler BatchHandler) (*types.EnqueueAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIndexName(sdkerrors.OpAddDocuments, name); err != nil {
		return nil, err
	}
	for _, d := range docs {
		if err := types.ValidateDocID(sdkerrors.OpAddDocuments, d.ID()); err != nil {
			return nil, err
		}
	}

	batch := append([]types.Document(nil), docs...)
	addJob := job.New(func(jobCtx context.Context) error {
		results, err := AddDocuments(jobCtx, httpClient, baseURL, name, batch)
		if err != nil {
			return &EnqueueError{Index: name, Handler: handler, Err: err}
		}
		if handler != nil {
			handler(results, nil)
		}
		return nil
	})

	if err := exec.Submit(context.WithoutCancel(ctx), name, addJob); err != nil {
		return nil, err
	}
	return &types.EnqueueAck{Index: name, Documents: len(batch), Status: "enqueued"}, nil
}
