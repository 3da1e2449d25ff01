package api

import (
	"context"
	"net/http"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
	"github.com/indextank/indextank-go/client/internal/types"
)

type functionBody struct {
	Definition string `json:"definition"`
}

// AddFunction defines (or redefines) scoring function id.
func AddFunction(ctx context.Context, httpClient types.HTTPClient, baseURL, name string, id int, definition string) error {
	if err := types.ValidateIndexName(sdkerrors.OpAddFunction, name); err != nil {
		return err
	}
	if id < 0 {
		return sdkerrors.NewValidationError(sdkerrors.OpAddFunction, "function id must be >= 0 (got %d)", id)
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpAddFunction,
		method: http.MethodPut,
		url:    functionURL(baseURL, name, id),
		body:   functionBody{Definition: definition},
	})
	return err
}

// DeleteFunction removes scoring function id.
func DeleteFunction(ctx context.Context, httpClient types.HTTPClient, baseURL, name string, id int) error {
	if err := types.ValidateIndexName(sdkerrors.OpDeleteFunction, name); err != nil {
		return err
	}
	if id < 0 {
		return sdkerrors.NewValidationError(sdkerrors.OpDeleteFunction, "function id must be >= 0 (got %d)", id)
	}
	_, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpDeleteFunction,
		method: http.MethodDelete,
		url:    functionURL(baseURL, name, id),
	})
	return err
}

// ListFunctions returns the scoring functions of the index keyed by id.
func ListFunctions(ctx context.Context, httpClient types.HTTPClient, baseURL, name string) (map[int]string, error) {
	if err := types.ValidateIndexName(sdkerrors.OpListFunctions, name); err != nil {
		return nil, err
	}
	body, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpListFunctions,
		method: http.MethodGet,
		url:    IndexURL(baseURL, name) + functionsSuffix,
	})
	if err != nil {
		return nil, err
	}
	if body == nil {
		return map[int]string{}, nil
	}
	return decode(sdkerrors.OpListFunctions, body, types.DecodeFunctions)
}
