package api

import (
	"context"
	"net/http"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
	"github.com/indextank/indextank-go/client/internal/types"
)

// ListIndexes returns every index of the account keyed by name.
func ListIndexes(ctx context.Context, httpClient types.HTTPClient, baseURL string) (map[string]types.IndexMetadata, error) {
	body, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpListIndexes,
		method: http.MethodGet,
		url:    IndexesURL(baseURL),
	})
	if err != nil {
		return nil, err
	}
	if body == nil {
		return map[string]types.IndexMetadata{}, nil
	}
	return decode(sdkerrors.OpListIndexes, body, types.DecodeIndexList)
}

// CreateIndex creates the named index. The service answers 204 when the index
// already exists and 409 when the account is at its index limit.
func CreateIndex(ctx context.Context, httpClient types.HTTPClient, baseURL, name string) (types.IndexMetadata, error) {
	if err := types.ValidateIndexName(sdkerrors.OpCreateIndex, name); err != nil {
		return nil, err
	}
	body, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpCreateIndex,
		method: http.MethodPut,
		url:    IndexURL(baseURL, name),
	})
	if err != nil || body == nil {
		return nil, err
	}
	return decode(sdkerrors.OpCreateIndex, body, types.DecodeIndexMetadata)
}

// DeleteIndex removes the named index and all of its documents.
func DeleteIndex(ctx context.Context, httpClient types.HTTPClient, baseURL, name string) error {
	if err := types.ValidateIndexName(sdkerrors.OpDeleteIndex, name); err != nil {
		return err
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpDeleteIndex,
		method: http.MethodDelete,
		url:    IndexURL(baseURL, name),
	})
	return err
}

// GetIndexMetadata fetches the current description of the named index.
func GetIndexMetadata(ctx context.Context, httpClient types.HTTPClient, baseURL, name string) (types.IndexMetadata, error) {
	if err := types.ValidateIndexName(sdkerrors.OpIndexMetadata, name); err != nil {
		return nil, err
	}
	body, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpIndexMetadata,
		method: http.MethodGet,
		url:    IndexURL(baseURL, name),
	})
	if err != nil {
		return nil, err
	}
	if body == nil {
		return types.IndexMetadata{}, nil
	}
	return decode(sdkerrors.OpIndexMetadata, body, types.DecodeIndexMetadata)
}
