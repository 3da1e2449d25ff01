package client

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/indextank/indextank-go/internal/fakeservice"
)

const testPass = ":s3cret"

// newFakeClient starts a fake service and a Client authenticated against it.
func newFakeClient(t *testing.T, opts ...Option) (*Client, *fakeservice.Service) {
	t.Helper()
	svc := fakeservice.New(testPass)
	srv := svc.NewServer()
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, append([]Option{WithPrivatePass(testPass)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, svc
}

func TestNew_CredentialFromUserInfo(t *testing.T) {
	t.Parallel()
	var (
		mu   sync.Mutex
		auth string
		uri  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth, uri = r.Header.Get("Authorization"), r.RequestURI
		mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	u := strings.Replace(srv.URL, "http://", "http://:abc@", 1) + "/"
	c, err := New(u)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != srv.URL {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL(), srv.URL)
	}
	if _, err := c.ListIndexes(context.Background()); err != nil {
		t.Fatalf("ListIndexes: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if want := "Basic " + base64.StdEncoding.EncodeToString([]byte(":abc")); auth != want {
		t.Fatalf("Authorization = %q, want %q", auth, want)
	}
	if uri != "/v1/indexes/" {
		t.Fatalf("request uri = %q", uri)
	}
}

func TestNew_UserInfoWithoutPassword(t *testing.T) {
	t.Parallel()
	svc := fakeservice.New("secret")
	srv := svc.NewServer()
	defer srv.Close()

	c, err := New(strings.Replace(srv.URL, "http://", "http://secret@", 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()
	if _, err := c.ListIndexes(context.Background()); err != nil {
		t.Fatalf("ListIndexes with user-only credential: %v", err)
	}
	if c.credential != "secret" {
		t.Fatalf("credential = %q, want %q", c.credential, "secret")
	}
}

func TestNew_TimeoutSurvivesHTTPClientOption(t *testing.T) {
	t.Parallel()
	c, err := New("http://example.com",
		WithPrivatePass(testPass),
		WithHTTPTimeout(3*time.Second),
		WithHTTPClient(&http.Client{}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.http.Timeout != 3*time.Second {
		t.Fatalf("Timeout = %v, want 3s", c.http.Timeout)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"no credential": "http://example.com",
		"no scheme":     "example.com",
		"bad url":       "http://[::1",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(in)
			if !errors.Is(err, ErrConstraintViolation) {
				t.Fatalf("expected constraint violation, got %v", err)
			}
		})
	}
	if _, err := New("http://example.com", WithPrivatePass("")); !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("empty private pass accepted: %v", err)
	}
	if _, err := New("http://:p@example.com", WithHTTPTimeout(0)); err == nil {
		t.Fatal("zero timeout accepted")
	}
	if _, err := New("http://:p@example.com", WithHTTPClient(nil)); err == nil {
		t.Fatal("nil http client accepted")
	}
}

func TestNew_WithPrivatePassOverridesUserInfo(t *testing.T) {
	t.Parallel()
	svc := fakeservice.New("right")
	srv := svc.NewServer()
	defer srv.Close()

	u := strings.Replace(srv.URL, "http://", "http://wrong:pass@", 1)
	c, err := New(u, WithPrivatePass("right"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if _, err := c.ListIndexes(context.Background()); err != nil {
		t.Fatalf("ListIndexes: %v", err)
	}
}

func TestNewWithDevMode(t *testing.T) {
	t.Parallel()
	c, err := NewWithDevMode("http://localhost:11545/")
	if err != nil {
		t.Fatalf("NewWithDevMode: %v", err)
	}
	if c.BaseURL() != "http://localhost:11545" {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
}

func TestWithHTTPClient_CopiesAndKeepsTimeout(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Timeout: 3 * time.Second}
	c, err := New("http://:p@example.com", WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.http == hc {
		t.Fatal("client shares the caller's http.Client")
	}
	if c.http.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v", c.http.Timeout)
	}
	if hc.Transport != nil || hc.CheckRedirect != nil {
		t.Fatal("caller's http.Client was modified")
	}
}

func TestRedirectsAreNotFollowed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()
	c, err := New(srv.URL, WithPrivatePass("p"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.ListIndexes(context.Background())
	if !errors.Is(err, ErrUnexpectedStatus) || StatusCode(err) != http.StatusFound {
		t.Fatalf("expected unexpected 302, got %v", err)
	}
}

func TestRequestIDStamped(t *testing.T) {
	t.Parallel()
	ids := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c, _ := New(srv.URL, WithPrivatePass("p"))
	for range 2 {
		if _, err := c.ListIndexes(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	a, b := <-ids, <-ids
	if a == "" || a == b {
		t.Fatalf("request ids %q, %q", a, b)
	}
}

func TestClientIndexLifecycle(t *testing.T) {
	t.Parallel()
	c, _ := newFakeClient(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "my index/a"} {
		if _, err := c.CreateIndex(ctx, name); err != nil {
			t.Fatalf("CreateIndex(%q): %v", name, err)
		}
	}
	if _, err := c.CreateIndex(ctx, "alpha"); !errors.Is(err, ErrIndexAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	list, err := c.ListIndexes(ctx)
	if err != nil {
		t.Fatalf("ListIndexes: %v", err)
	}
	var names []string
	for _, idx := range list {
		names = append(names, idx.Name())
		if idx.cached() == nil {
			t.Fatalf("handle %q not pre-seeded", idx.Name())
		}
	}
	if strings.Join(names, ",") != "alpha,my index/a,zeta" {
		t.Fatalf("names = %v", names)
	}

	if err := c.DeleteIndex(ctx, "my index/a"); err != nil {
		t.Fatalf("DeleteIndex: %v", err)
	}
	if err := c.DeleteIndex(ctx, "my index/a"); !errors.Is(err, ErrIndexDoesNotExist) {
		t.Fatalf("expected does-not-exist, got %v", err)
	}
}

func TestCreateIndex_QuotaExceeded(t *testing.T) {
	t.Parallel()
	svc := fakeservice.New(testPass, fakeservice.WithMaxIndexes(1))
	srv := svc.NewServer()
	defer srv.Close()
	c, _ := New(srv.URL, WithPrivatePass(testPass))

	if _, err := c.CreateIndex(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	_, err := c.CreateIndex(context.Background(), "two")
	if KindOf(err) != KindMaximumIndexesExceeded {
		t.Fatalf("kind = %v (%v)", KindOf(err), err)
	}
}

func TestServerErrorsAreRetryable(t *testing.T) {
	t.Parallel()
	c, svc := newFakeClient(t)
	svc.FailNext(http.StatusServiceUnavailable, "maintenance")
	_, err := c.ListIndexes(context.Background())
	var e *Error
	if !errors.As(err, &e) || e.Body != "maintenance" || !IsRetryable(err) {
		t.Fatalf("expected retryable 503 with body, got %v", err)
	}
	if _, err := c.ListIndexes(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
}

func TestNetworkFailureIsIO(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := New(url, WithPrivatePass("p"))
	_, err := c.ListIndexes(context.Background())
	if !errors.Is(err, ErrIO) || !IsRetryable(err) {
		t.Fatalf("expected retryable io error, got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatal("io error hides the transport error")
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()
	c, _ := newFakeClient(t)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDebugLoggingRequested(t *testing.T) {
	t.Setenv("INDEXTANK_DEBUG", "true")
	if !debugLoggingRequested() {
		t.Fatal("INDEXTANK_DEBUG=true not honoured")
	}
	c, err := New("http://:p@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !c.debug {
		t.Fatal("debug transport not installed")
	}
}
