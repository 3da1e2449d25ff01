package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/indextank/indextank-go/client/internal/shardqueue"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// failingExec implements types.Executor and always fails Submit.
type failingExec struct{}

func (f *failingExec) Submit(ctx context.Context, shard string, job shardqueue.Job) error {
	return fmt.Errorf("submit failed")
}

// mockExec records submitted shards and runs jobs inline.
type mockExec struct {
	mu    sync.Mutex
	calls []string
	errs  []error
}

func (m *mockExec) Submit(ctx context.Context, shard string, job shardqueue.Job) error {
	err := job.Run(ctx)
	m.mu.Lock()
	m.calls = append(m.calls, shard)
	m.errs = append(m.errs, err)
	m.mu.Unlock()
	return nil
}

// recorded is what the fake server saw for one request.
type recorded struct {
	Method     string
	Path       string
	RequestURI string
	Query      map[string][]string
	Body       string
}

// stubServer answers every request with status/body and records the request.
func stubServer(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.RequestURI = r.RequestURI
		rec.Query = r.URL.Query()
		rec.Body = string(b)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}
