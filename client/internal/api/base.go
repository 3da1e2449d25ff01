package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
	"github.com/indextank/indextank-go/client/internal/types"
)

// call is one fully built request: nothing in it touches the network.
type call struct {
	op     sdkerrors.Op
	method string
	url    string
	query  url.Values
	body   any // marshalled to JSON when non-nil
}

// do performs exactly one attempt of c and returns the response body on
// 200/201. An empty success body yields nil. Every other status is classified
// against c.op; the body is always read to the end and closed.
func do(ctx context.Context, httpClient types.HTTPClient, c call) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return nil, sdkerrors.NewValidationError(c.op, "encode body: %v", err)
		}
		payload = bytes.NewReader(b)
	}

	target := c.url
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, c.method, target, payload)
	if err != nil {
		return nil, sdkerrors.NewValidationError(c.op, "build request: %v", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	httpReq.Header.Set("Accept", "application/json")
	// Note: Authorization header will be added by transport layer

	start := time.Now()
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		observe(c.op, "error", start)
		return nil, sdkerrors.NewNetworkError(c.op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	observe(c.op, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		return nil, sdkerrors.NewNetworkError(c.op, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if len(body) == 0 {
			return nil, nil
		}
		return body, nil
	default:
		return nil, sdkerrors.Classify(c.op, resp.StatusCode, string(body))
	}
}

// decode runs a response decoder and turns its failure into a protocol error.
func decode[T any](op sdkerrors.Op, body []byte, fn func([]byte) (T, error)) (T, error) {
	v, err := fn(body)
	if err != nil {
		var zero T
		return zero, sdkerrors.NewProtocolError(op, err)
	}
	return v, nil
}

func observe(op sdkerrors.Op, code string, start time.Time) {
	requestsTotal.WithLabelValues(string(op), code).Inc()
	requestDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
}
