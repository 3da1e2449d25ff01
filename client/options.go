package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/indextank/indextank-go/client/internal/shardqueue"
)

// Option configures a Client during construction in New.
//
// Options run before the transport chain is assembled, so WithDebugLogging,
// WithHTTPTimeout and WithHTTPClient can be given in any order.
type Option func(*Client) error

// WithPrivatePass sets the account credential explicitly, overriding any
// user-info in the api url.
func WithPrivatePass(pass string) Option {
	return func(c *Client) error {
		if pass == "" {
			return fmt.Errorf("private pass cannot be empty")
		}
		c.credential = pass
		return nil
	}
}

// WithHTTPClient makes the Client use a copy of hc. Its transport ends up
// beneath the auth wrapper and its redirect policy is replaced, since
// redirects must reach the caller.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		clone := *hc
		c.http = &clone
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout.
//
// The library imposes no timeout of its own; prefer per-call context
// deadlines. This is a coarse bound on a single HTTP request including
// reading the response. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithDebugLogging logs each request/response at debug level when enabled.
// Dumps include document bodies; do not enable it in production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = c.debug || enabled
		return nil
	}
}

// WithExecutorConfig tunes the background executor behind EnqueueDocuments.
// Setting MaxAttempts above 1 retries recoverable failures (5xx, 408, 429,
// network errors) with exponential backoff.
func WithExecutorConfig(cfg shardqueue.Config) Option {
	return func(c *Client) error {
		if cfg.MaxAttempts < 0 {
			return fmt.Errorf("max attempts must be >= 0")
		}
		if cfg.MaxAttempts == 0 {
			cfg.MaxAttempts = 1
		}
		c.execCfg = cfg
		return nil
	}
}
