package api

import (
	"context"
	"fmt"
	"net/http"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
	"github.com/indextank/indextank-go/client/internal/types"
)

// Search runs q against the named index.
func Search(ctx context.Context, httpClient types.HTTPClient, baseURL, name string, q types.Query) (*types.SearchResults, error) {
	if err := types.ValidateIndexName(sdkerrors.OpSearch, name); err != nil {
		return nil, err
	}
	body, err := do(ctx, httpClient, call{
		op:     sdkerrors.OpSearch,
		method: http.MethodGet,
		url:    IndexURL(baseURL, name) + searchSuffix,
		query:  q.Params(),
	})
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, sdkerrors.NewProtocolError(sdkerrors.OpSearch, fmt.Errorf("empty search response"))
	}
	return decode(sdkerrors.OpSearch, body, types.DecodeSearchResults)
}
