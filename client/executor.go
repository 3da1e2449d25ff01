package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/indextank/indextank-go/client/internal/api"
	"github.com/indextank/indextank-go/client/internal/job"
	"github.com/indextank/indextank-go/client/internal/shardqueue"
)

// executor abstracts the internal async job runner used by EnqueueDocuments.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Barrier(context.Context, string) error
	Stop()
}

// defaultExecutorConfig reads the SQ_ tunables. Each enqueued batch is sent
// once unless SQ_MAX_ATTEMPTS or WithExecutorConfig asks for retries.
func defaultExecutorConfig() shardqueue.Config {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("invalid SQ_ executor settings, using defaults")
		cfg = shardqueue.Config{Shards: 4, QueueSize: 128}
	}
	if _, ok := os.LookupEnv("SQ_MAX_ATTEMPTS"); !ok || err != nil {
		cfg.MaxAttempts = 1
	}
	return cfg
}

// executor returns the shard executor, starting it on first use.
func (c *Client) executor() (executor, error) {
	c.execMu.Lock()
	defer c.execMu.Unlock()
	if atomic.LoadUint32(&c.closed) == 1 {
		return nil, ErrClientClosed
	}
	if c.exec == nil {
		cfg := c.execCfg
		userHandler := cfg.ErrorHandler
		cfg.ErrorHandler = func(err error) {
			c.handleAsyncError(err)
			if userHandler != nil {
				userHandler(err)
			}
		}
		c.exec = shardqueue.NewShardExecutor(cfg)
	}
	return c.exec, nil
}

// handleAsyncError receives the final failure of a background job and hands
// it to the batch's own handler.
func (c *Client) handleAsyncError(err error) {
	var ee *api.EnqueueError
	if !errors.As(err, &ee) {
		log.Warn().Err(err).Msg("async job failed")
		return
	}
	batchEnqueueFailuresTotal.WithLabelValues(job.ShardLabel(ee.Index)).Inc()
	log.Warn().Err(ee.Err).Str("index", ee.Index).Msg("enqueued batch failed")
	if ee.Handler != nil {
		ee.Handler(nil, ee.Err)
	}
}

func mapSubmitError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shardqueue.ErrQueueFull):
		return fmt.Errorf("%w: %v", ErrBackPressure, err)
	case errors.Is(err, shardqueue.ErrExecutorClosed):
		return ErrClientClosed
	default:
		return err
	}
}
