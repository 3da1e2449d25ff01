package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
)

func TestDo_SuccessCodes(t *testing.T) {
	t.Parallel()
	for _, code := range []int{http.StatusOK, http.StatusCreated} {
		srv, _ := stubServer(t, code, `{"ok":true}`)
		body, err := do(context.Background(), srv.Client(), call{op: sdkerrors.OpListIndexes, method: http.MethodGet, url: srv.URL})
		if err != nil || string(body) != `{"ok":true}` {
			t.Fatalf("code %d: body=%q err=%v", code, body, err)
		}
	}
}

func TestDo_EmptySuccessBodyIsNil(t *testing.T) {
	t.Parallel()
	srv, _ := stubServer(t, http.StatusOK, "")
	body, err := do(context.Background(), srv.Client(), call{op: sdkerrors.OpDeleteIndex, method: http.MethodDelete, url: srv.URL})
	if err != nil || body != nil {
		t.Fatalf("expected nil body, got %q err=%v", body, err)
	}
}

func TestDo_FailureCarriesStatusAndBody(t *testing.T) {
	t.Parallel()
	srv, _ := stubServer(t, http.StatusInternalServerError, "backend exploded")
	_, err := do(context.Background(), srv.Client(), call{op: sdkerrors.OpSearch, method: http.MethodGet, url: srv.URL})
	var e *sdkerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.StatusCode != 500 || e.Body != "backend exploded" || e.Kind != sdkerrors.KindUnexpectedStatus {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e.Category != sdkerrors.Recoverable {
		t.Fatalf("5xx should be recoverable")
	}
}

func TestDo_OtherTwoHundredsFail(t *testing.T) {
	t.Parallel()
	srv, _ := stubServer(t, http.StatusAccepted, "")
	_, err := do(context.Background(), srv.Client(), call{op: sdkerrors.OpAddDocument, method: http.MethodPut, url: srv.URL})
	if sdkerrors.StatusCode(err) != http.StatusAccepted || !errors.Is(err, sdkerrors.ErrUnexpectedStatus) {
		t.Fatalf("expected unexpected-status 202, got %v", err)
	}
}

func TestDo_RedirectSurfaces(t *testing.T) {
	t.Parallel()
	srv, _ := stubServer(t, http.StatusFound, "")
	hc := srv.Client()
	hc.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	_, err := do(context.Background(), hc, call{op: sdkerrors.OpSearch, method: http.MethodGet, url: srv.URL})
	if sdkerrors.StatusCode(err) != http.StatusFound || !errors.Is(err, sdkerrors.ErrUnexpectedStatus) {
		t.Fatalf("expected unexpected-status 302, got %v", err)
	}
}

func TestDo_NetworkErrorIsIO(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	_, err := do(context.Background(), hc, call{op: sdkerrors.OpSearch, method: http.MethodGet, url: "http://example.invalid"})
	if !errors.Is(err, sdkerrors.ErrIO) {
		t.Fatalf("expected i/o error, got %v", err)
	}
	if sdkerrors.IsIrrecoverable(err) {
		t.Fatal("network errors should be recoverable")
	}
}

func TestDo_CanceledContext(t *testing.T) {
	t.Parallel()
	srv, rec := stubServer(t, http.StatusOK, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := do(ctx, srv.Client(), call{op: sdkerrors.OpSearch, method: http.MethodGet, url: srv.URL})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if rec.Method != "" {
		t.Fatal("request sent despite canceled context")
	}
}

func TestDo_JSONBodyAndQuery(t *testing.T) {
	t.Parallel()
	srv, rec := stubServer(t, http.StatusOK, "")
	_, err := do(context.Background(), srv.Client(), call{
		op:     sdkerrors.OpPromote,
		method: http.MethodPut,
		url:    srv.URL + "/x",
		query:  map[string][]string{"a": {"b c"}},
		body:   map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Body != `{"k":"v"}` || rec.Query["a"][0] != "b c" || rec.Method != http.MethodPut {
		t.Fatalf("unexpected request: %+v", rec)
	}
}
