// Package search drives backward state recovery over whole observation sequences
// and reconciles the candidate sets of independent passes.
package search

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sergeii/crypto1recover/pkg/crypto1/extend"
	"github.com/sergeii/crypto1recover/pkg/crypto1/table"
)

// DefaultChunkSize is the population size above which a round is split into chunks.
const DefaultChunkSize = 1 << 16

// RoundStats describes a single completed round of a pass.
type RoundStats struct {
	Round   int
	Bit     uint8
	Before  int
	After   int
	Elapsed time.Duration
}

type Option func(*Driver)

// WithChunkSize sets the population size above which rounds are split
// into chunks processed concurrently. Zero disables chunking.
func WithChunkSize(size int) Option {
	return func(d *Driver) {
		d.chunkSize = size
	}
}

// WithWorkers limits the number of chunks of a single round processed at the same time.
func WithWorkers(workers int) Option {
	return func(d *Driver) {
		d.workers = workers
	}
}

// WithRoundHook registers a callback invoked after every round.
// The hook may be called from several goroutines when passes run concurrently.
func WithRoundHook(hook func(RoundStats)) Option {
	return func(d *Driver) {
		d.hooks = append(d.hooks, hook)
	}
}

type Driver struct {
	chunkSize int
	workers   int
	hooks     []func(RoundStats)
}

func New(opts ...Option) *Driver {
	d := &Driver{
		chunkSize: DefaultChunkSize,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunPass extends seeds once per bit of obs, in order, and returns the distinct survivors.
// The context is checked between rounds; a round that has started always completes.
func (d *Driver) RunPass(ctx context.Context, seeds []uint64, obs Observation) (StateSet, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	tbl := table.New(seeds)
	for round, bit := range obs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		before := tbl.Len()
		started := time.Now()

		if d.chunkSize > 0 && before > d.chunkSize {
			survivors, err := extend.Parallel(ctx, tbl.Window(), bit, d.chunkSize, d.workers)
			if err != nil {
				return nil, fmt.Errorf("round %d: %w", round, err)
			}
			tbl = table.New(survivors)
		} else if err := extend.Round(tbl, bit); err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		d.notify(RoundStats{
			Round:   round,
			Bit:     bit,
			Before:  before,
			After:   tbl.Len(),
			Elapsed: time.Since(started),
		})
	}

	return NewStateSet(tbl.Window()...), nil
}

// Pass pairs the initial candidates of a pass with the observation it consumes.
type Pass struct {
	Seeds       []uint64    `json:"seeds"`
	Observation Observation `json:"observation"`
}

// RunPasses runs the passes concurrently.
// The returned sets are in the same order as passes.
func (d *Driver) RunPasses(ctx context.Context, passes []Pass) ([]StateSet, error) {
	sets := make([]StateSet, len(passes))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, pass := range passes {
		group.Go(func() error {
			set, err := d.RunPass(groupCtx, pass.Seeds, pass.Observation)
			if err != nil {
				return fmt.Errorf("pass %d: %w", i, err)
			}
			sets[i] = set
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

func (d *Driver) notify(stats RoundStats) {
	for _, hook := range d.hooks {
		hook(stats)
	}
}

// RunPass is a shorthand for running a pass with the default driver settings.
func RunPass(ctx context.Context, seeds []uint64, obs Observation) (StateSet, error) {
	return New().RunPass(ctx, seeds, obs)
}
