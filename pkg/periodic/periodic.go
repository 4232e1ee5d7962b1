// Package periodic runs a function on a fixed interval until stopped.
package periodic

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrAlreadyStarted = errors.New("runner already started")

type Option func(*Runner)

// WithEagerStart makes the runner invoke the function right away
// instead of waiting for the first tick.
func WithEagerStart() Option {
	return func(r *Runner) {
		r.eager = true
	}
}

type Runner struct {
	clock    clockwork.Clock
	interval time.Duration
	fn       func(context.Context)
	eager    bool

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	stopped chan struct{}
}

func New(clock clockwork.Clock, interval time.Duration, fn func(context.Context), opts ...Option) *Runner {
	r := &Runner{
		clock:    clock,
		interval: interval,
		fn:       fn,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true
	go r.loop()
	return nil
}

// Stop signals the loop to exit and cancels the context of an invocation in progress.
// It returns once the loop has exited or ctx is done, whichever comes first.
// Stopping a runner that was never started is a no-op.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	r.mu.Unlock()

	select {
	case <-r.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) loop() {
	defer close(r.stopped)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-r.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	if r.eager {
		r.fn(ctx)
	}

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.Chan():
			r.fn(ctx)
		}
	}
}
