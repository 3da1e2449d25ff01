package client

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indextank/indextank-go/client/internal/api"
	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
	"github.com/indextank/indextank-go/client/internal/shardqueue"
	"github.com/indextank/indextank-go/devmode"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to one index service account. It is safe for concurrent use;
// Index handles it returns are not shared between callers.
type Client struct {
	baseURL    string
	credential string // private pass, sent as Basic auth
	http       *http.Client
	debug      bool

	timeout time.Duration // applied after all options
	execCfg shardqueue.Config
	execMu sync.Mutex
	exec   executor // created on first EnqueueDocuments
	closed uint32   // ensures Close is idempotent
}

// New constructs a Client for apiURL, e.g. "http://:secret@example.api.indextank.com".
// The private pass is taken from the URL user-info unless WithPrivatePass
// supplies it; the user-info itself is never part of request URLs.
func New(apiURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, sdkerrors.NewValidationError(sdkerrors.OpConfigure, "parse api url: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, sdkerrors.NewValidationError(sdkerrors.OpConfigure, "api url %q needs a scheme and a host", apiURL)
	}

	c := &Client{
		http:    &http.Client{},
		execCfg: defaultExecutorConfig(),
	}
	if u.User != nil {
		// sent as written: "secret" stays "secret", ":pass" stays ":pass"
		c.credential = u.User.String()
		u.User = nil
	}
	c.baseURL = strings.TrimRight(u.String(), "/")

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, sdkerrors.NewValidationError(sdkerrors.OpConfigure, "%v", err)
		}
	}
	if c.credential == "" {
		return nil, sdkerrors.NewValidationError(sdkerrors.OpConfigure, "no private pass: put it in the api url user-info or use WithPrivatePass")
	}

	c.installTransport()
	return c, nil
}

// NewWithDevMode constructs a Client for a local fake service using the
// shared development credential.
func NewWithDevMode(baseURL string, opts ...Option) (*Client, error) {
	return New(baseURL, append([]Option{WithPrivatePass(devmode.PrivatePass)}, opts...)...)
}

// installTransport layers base -> debug -> auth and turns redirects into
// plain responses so the caller sees them.
func (c *Client) installTransport() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if c.debug {
		base = &debugTransport{base: base}
	}
	if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	c.http.Transport = newBasicAuthTransport(base, c.credential)
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
}

// BaseURL returns the service URL without credentials.
func (c *Client) BaseURL() string { return c.baseURL }

// Index returns a handle for the named index. No request is made.
func (c *Client) Index(name string) *Index {
	return &Index{client: c, name: name}
}

// CreateIndex creates the named index and returns its handle.
func (c *Client) CreateIndex(ctx context.Context, name string) (*Index, error) {
	idx := c.Index(name)
	if err := idx.Create(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

// DeleteIndex removes the named index.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	return c.Index(name).Delete(ctx)
}

// ListIndexes returns a handle per index of the account, sorted by name. Each
// handle already carries the metadata from the listing.
func (c *Client) ListIndexes(ctx context.Context) ([]*Index, error) {
	list, err := api.ListIndexes(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, err
	}
	out := make([]*Index, 0, len(list))
	for name, md := range list {
		out = append(out, &Index{client: c, name: name, metadata: md})
	}
	slices.SortFunc(out, func(a, b *Index) int { return strings.Compare(a.name, b.name) })
	return out, nil
}

// Close drains and stops the background executor (if one was started).
// Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closed, 0, 1) {
		return nil
	}
	c.execMu.Lock()
	exec := c.exec
	c.execMu.Unlock()
	if exec != nil {
		exec.Stop()
	}
	c.http.CloseIdleConnections()
	return nil
}

// AwaitConsistency blocks until every batch enqueued for index before the
// call has been sent. It returns at once if nothing was ever enqueued.
func (c *Client) AwaitConsistency(ctx context.Context, index string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.execMu.Lock()
	exec := c.exec
	c.execMu.Unlock()
	if exec == nil {
		return nil
	}
	return mapSubmitError(exec.Barrier(ctx, index))
}
