package solverunner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/internal/core/repositories"
	"github.com/sergeii/crypto1recover/internal/core/usecases/solvejob"
	"github.com/sergeii/crypto1recover/internal/metrics"
)

type RunnerOpts struct {
	PollInterval time.Duration
	Concurrency  int
}

type Runner struct {
	opts    RunnerOpts
	uc      solvejob.UseCase
	jobRepo repositories.JobRepository
	metrics *metrics.Collector
	clock   clockwork.Clock
	logger  *zerolog.Logger
	queue   chan job.Job
	// workers either solving a job or about to receive one from the queue
	busy atomic.Int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(
	opts RunnerOpts,
	jobRepo repositories.JobRepository,
	uc solvejob.UseCase,
	metrics *metrics.Collector,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) *Runner {
	return &Runner{
		opts:    opts,
		jobRepo: jobRepo,
		uc:      uc,
		metrics: metrics,
		clock:   clock,
		logger:  logger,
		queue:   make(chan job.Job, opts.Concurrency),
	}
}

// Start launches the workers and the scheduler. They run until ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.logger.Info().
		Dur("interval", r.opts.PollInterval).
		Int("concurrency", r.opts.Concurrency).
		Msg("Starting solver")

	r.wg.Add(r.opts.Concurrency + 1)
	for range r.opts.Concurrency {
		go func() {
			defer r.wg.Done()
			r.worker(ctx)
		}()
	}
	r.metrics.SolverWorkersAvailable.Add(float64(r.opts.Concurrency))

	go func() {
		defer r.wg.Done()
		r.scheduler(ctx)
	}()
}

// Stop cancels the jobs in progress and waits for the workers to exit.
// A cancelled job is stored as failed by the solving use case.
// Jobs that were taken off the queue but never started are put back.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()

	exited := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(exited)
	}()
	select {
	case <-exited:
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		select {
		case j := <-r.queue:
			r.busy.Add(-1)
			r.requeue(ctx, j)
		default:
			return nil
		}
	}
}

func (r *Runner) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug().Msg("Stopping worker")
			return
		case j := <-r.queue:
			if ctx.Err() != nil {
				r.busy.Add(-1)
				r.requeue(context.WithoutCancel(ctx), j)
				return
			}
			r.solve(ctx, j)
		}
	}
}

func (r *Runner) scheduler(ctx context.Context) {
	ticker := r.clock.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug().Msg("Stopping scheduler")
			return
		case <-ticker.Chan():
			r.schedule(ctx)
		}
	}
}

func (r *Runner) requeue(ctx context.Context, j job.Job) {
	if err := r.jobRepo.Requeue(ctx, j); err != nil {
		r.metrics.JobQueueErrors.Inc()
		r.logger.Error().
			Err(err).Stringer("job", j).
			Msg("Unable to return job to the queue")
		return
	}
	r.metrics.JobQueueRequeued.Inc()
	r.logger.Info().Stringer("job", j).Msg("Returned unstarted job to the queue")
}

func (r *Runner) solve(ctx context.Context, j job.Job) {
	r.metrics.SolverWorkersBusy.Inc()
	r.metrics.SolverWorkersAvailable.Dec()
	defer func() {
		r.busy.Add(-1)
		r.metrics.SolverWorkersBusy.Dec()
		r.metrics.SolverWorkersAvailable.Inc()
	}()

	before := r.clock.Now()

	r.logger.Debug().
		Stringer("job", j).Int64("busyness", r.busy.Load()).
		Msg("About to start solving")

	if _, err := r.uc.Execute(ctx, j); err != nil {
		// the job could not even be marked as running
		if ctx.Err() != nil {
			r.requeue(context.WithoutCancel(ctx), j)
			return
		}
		r.metrics.SolverErrors.Inc()
		r.logger.Error().
			Err(err).Stringer("job", j).
			Msg("Unable to solve job due to error")
		return
	}

	r.logger.Debug().
		Stringer("job", j).Int64("busyness", r.busy.Load()).
		Dur("elapsed", r.clock.Since(before)).
		Msg("Finished solving")
}

func (r *Runner) schedule(ctx context.Context) {
	availability := r.Available()
	if availability <= 0 {
		r.logger.Debug().Int("availability", availability).Msg("Workers are busy")
		return
	}

	jobs, err := r.jobRepo.PopMany(ctx, availability)
	if err != nil {
		r.metrics.JobQueueErrors.Inc()
		r.logger.Warn().
			Err(err).
			Int("availability", availability).
			Msg("Unable to fetch new jobs")
		return
	}
	r.metrics.JobQueueConsumed.Add(float64(len(jobs)))

	if len(jobs) == 0 {
		return
	}

	// the runner is shutting down, the jobs would never be picked up by a worker
	if ctx.Err() != nil {
		for _, j := range jobs {
			r.requeue(context.WithoutCancel(ctx), j)
		}
		return
	}

	r.logger.Debug().Int("availability", availability).Int("jobs", len(jobs)).Msg("Obtained jobs")

	// the queue never holds more jobs than there are idle workers
	r.busy.Add(int64(len(jobs)))
	for _, j := range jobs {
		r.queue <- j
	}
}

func (r *Runner) Busy() int {
	return int(r.busy.Load())
}

func (r *Runner) Available() int {
	return r.opts.Concurrency - r.Busy()
}
