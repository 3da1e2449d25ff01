// Package shardqueue provides a sharded work queue that keeps FIFO order per
// key while letting different keys run in parallel. The client uses it to feed
// batches to an index in the background: the key is the index name.
//
// Callers must not invoke Submit concurrently for the same key; FIFO order
// relies on that external serialisation.
package shardqueue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	sdkerrors "github.com/indextank/indextank-go/client/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// ShardExecutor runs Jobs on one worker goroutine per shard. The shard of a
// job is a stable hash of its key.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob

	done   chan struct{} // closed by Stop
	closed uint32

	wg sync.WaitGroup
}

// NewShardExecutor applies defaults to cfg and starts the shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := range p.queues {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job on the shard for key.
//
//   - ErrExecutorClosed once Stop has been called.
//   - *QueueFullError (errors.Is ErrQueueFull) if the shard stays full for
//     EnqueueTimeout.
//   - ctx.Err() if ctx ends first.
//
// ctx also travels with the job: a job whose ctx has ended by the time a
// worker reaches it is skipped and reported to the ErrorHandler.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-p.done:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier waits until every job submitted for key before the call has run.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	reached := make(chan struct{})
	if err := p.Submit(ctx, key, JobFunc(func(context.Context) error {
		close(reached)
		return nil
	})); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-reached:
		return nil
	}
}

// Stop rejects new work, lets every worker drain what is already queued and
// waits for them. It is idempotent.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}
	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping, draining shards")
	close(p.done)
	p.wg.Wait()
	log.Debug().Msg("shardqueue: stopped")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.execute(qj, label)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			drained := 0
			for {
				select {
				case qj := <-ch:
					p.runOnce(qj, label)
					drained++
				default:
					if drained > 0 {
						log.Debug().Int("shard", idx).Int("jobs", drained).Msg("shardqueue: drained")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs qj, retrying recoverable failures with exponential backoff up
// to MaxAttempts. Waiting between attempts ends early on Stop or when the
// job's ctx ends.
func (p *ShardExecutor) execute(qj queuedJob, label string) {
	if qj.job == nil {
		return
	}
	if err := qj.ctx.Err(); err != nil {
		p.safeHandleError(err)
		return
	}

	waitCtx, cancel := context.WithCancel(qj.ctx)
	defer cancel()
	go func() {
		select {
		case <-p.done:
			cancel()
		case <-waitCtx.Done():
		}
	}()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.cfg.MaxAttempts-1)), waitCtx)

	attempt := func() error {
		err := p.runGuarded(qj, label)
		if err != nil && (sdkerrors.IsIrrecoverable(err) || errors.Is(err, ErrJobPanicked)) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(label).Inc()
		log.Debug().Err(err).Dur("wait", wait).Str("shard", label).Msg("shardqueue: retrying job")
	}
	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		p.safeHandleError(err)
	}
}

// runOnce is the drain path: one attempt, no retry.
func (p *ShardExecutor) runOnce(qj queuedJob, label string) {
	if qj.job == nil {
		return
	}
	if err := p.runGuarded(qj, label); err != nil {
		p.safeHandleError(err)
	}
}

// runGuarded runs the job once, turning a panic into an error so the worker
// keeps serving its shard.
func (p *ShardExecutor) runGuarded(qj queuedJob, label string) (err error) {
	start := time.Now()
	defer func() {
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			panicsTotal.WithLabelValues(label).Inc()
			log.Error().Str("shard", label).Interface("panic", r).Msg("shardqueue: job panicked")
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (p *ShardExecutor) safeHandleError(err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: error handler panicked")
		}
	}()
	p.cfg.ErrorHandler(err)
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
