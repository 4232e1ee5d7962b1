package recoverstate

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/internal/metrics"
	"github.com/sergeii/crypto1recover/pkg/crypto1/filter"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

var (
	ErrNoPasses         = errors.New("no passes provided")
	ErrEmptyObservation = errors.New("observation has no bits")
	ErrNoSeeds          = errors.New("no seeds provided")
	ErrTooManySeeds     = errors.New("too many seeds")
	ErrTooManyPasses    = errors.New("too many passes")
	ErrTooManyRounds    = errors.New("too many rounds")
	ErrStateOverflow    = errors.New("extended states would not fit in 64 bits")
)

// Opts limits the size of a single recovery. Zero means no limit.
type Opts struct {
	MaxSeeds  int
	MaxPasses int
	MaxRounds int
}

type Request struct {
	Passes []search.Pass
	// Exhaustive makes every pass start from the full filter window
	// matching the first bit of its observation instead of its own seeds.
	Exhaustive bool
}

func NewRequest(passes []search.Pass, exhaustive bool) Request {
	return Request{
		Passes:     passes,
		Exhaustive: exhaustive,
	}
}

type Response struct {
	Outcome   search.Outcome
	Survivors []int
	Elapsed   time.Duration
}

var NoResponse = Response{}

type UseCase struct {
	driver  *search.Driver
	opts    Opts
	metrics *metrics.Collector
	clock   clockwork.Clock
	logger  *zerolog.Logger
}

func New(
	driver *search.Driver,
	opts Opts,
	metrics *metrics.Collector,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) UseCase {
	return UseCase{
		driver:  driver,
		opts:    opts,
		metrics: metrics,
		clock:   clock,
		logger:  logger,
	}
}

func (uc UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if err := uc.Validate(req); err != nil {
		return NoResponse, err
	}

	passes, err := preparePasses(req)
	if err != nil {
		return NoResponse, err
	}

	uc.logger.Debug().
		Int("passes", len(passes)).Bool("exhaustive", req.Exhaustive).
		Msg("Starting state recovery")

	started := uc.clock.Now()
	sets, err := uc.driver.RunPasses(ctx, passes)
	if err != nil {
		uc.metrics.RecoveryErrors.Inc()
		uc.logger.Error().
			Err(err).Int("passes", len(passes)).
			Msg("State recovery aborted")
		return NoResponse, err
	}

	outcome := search.Resolve(search.Reconcile(sets...))
	elapsed := uc.clock.Since(started)

	survivors := make([]int, 0, len(sets))
	for _, set := range sets {
		survivors = append(survivors, set.Len())
	}

	uc.metrics.RecoveryPasses.Add(float64(len(passes)))
	uc.metrics.RecoveryDurations.Observe(elapsed.Seconds())
	uc.metrics.RecoverySurvivors.Observe(float64(len(outcome.Candidates)))
	uc.metrics.RecoveryOutcomes.WithLabelValues(outcome.Kind.String()).Inc()

	uc.logger.Info().
		Stringer("outcome", outcome).Ints("survivors", survivors).Dur("elapsed", elapsed).
		Msg("Finished state recovery")

	return Response{
		Outcome:   outcome,
		Survivors: survivors,
		Elapsed:   elapsed,
	}, nil
}

// Validate checks the request against the configured limits without running the search.
func (uc UseCase) Validate(req Request) error {
	if len(req.Passes) == 0 {
		return ErrNoPasses
	}
	if uc.opts.MaxPasses > 0 && len(req.Passes) > uc.opts.MaxPasses {
		return fmt.Errorf("%w: %d > %d", ErrTooManyPasses, len(req.Passes), uc.opts.MaxPasses)
	}
	for i, pass := range req.Passes {
		if err := uc.validatePass(pass, req.Exhaustive); err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
	}
	return nil
}

func (uc UseCase) validatePass(pass search.Pass, exhaustive bool) error {
	if err := pass.Observation.Validate(); err != nil {
		return err
	}

	width := filter.Width
	rounds := len(pass.Observation)
	if exhaustive {
		// the first bit selects the initial window
		if rounds == 0 {
			return ErrEmptyObservation
		}
		rounds--
	} else {
		if len(pass.Seeds) == 0 {
			return ErrNoSeeds
		}
		if uc.opts.MaxSeeds > 0 && len(pass.Seeds) > uc.opts.MaxSeeds {
			return fmt.Errorf("%w: %d > %d", ErrTooManySeeds, len(pass.Seeds), uc.opts.MaxSeeds)
		}
		width = seedWidth(pass.Seeds)
	}

	if uc.opts.MaxRounds > 0 && rounds > uc.opts.MaxRounds {
		return fmt.Errorf("%w: %d > %d", ErrTooManyRounds, rounds, uc.opts.MaxRounds)
	}
	if width+rounds > 64 {
		return ErrStateOverflow
	}

	return nil
}

func preparePasses(req Request) ([]search.Pass, error) {
	if !req.Exhaustive {
		return req.Passes, nil
	}

	passes := make([]search.Pass, 0, len(req.Passes))
	// passes starting with the same bit share the initial window
	windows := make(map[uint8][]uint64, 2)
	for _, pass := range req.Passes {
		first := pass.Observation[0]
		seeds, ok := windows[first]
		if !ok {
			var err error
			if seeds, err = search.FilterSeeds(first); err != nil {
				return nil, err
			}
			windows[first] = seeds
		}
		passes = append(passes, search.Pass{Seeds: seeds, Observation: pass.Observation[1:]})
	}
	return passes, nil
}

func seedWidth(seeds []uint64) int {
	var highest uint64
	for _, seed := range seeds {
		highest = max(highest, seed)
	}
	return bits.Len64(highest)
}
