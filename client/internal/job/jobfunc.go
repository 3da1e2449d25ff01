// Package job adapts closures to the shard executor's Job interface and
// derives metrics labels for index-keyed work.
package job

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilJobFunc is returned when a nil closure is run.
var ErrNilJobFunc = errors.New("nil job func")

type jobFunc func(context.Context) error

func (f jobFunc) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("job: %w", ErrNilJobFunc)
	}
	return f(ctx)
}

// New wraps fn so it can be submitted to a shard executor.
func New(fn func(context.Context) error) jobFunc {
	return jobFunc(fn)
}
