package solvejob

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/internal/core/repositories"
	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/internal/metrics"
)

type UseCase struct {
	jobRepo      repositories.JobRepository
	recoverState recoverstate.UseCase
	metrics      *metrics.Collector
	clock        clockwork.Clock
	logger       *zerolog.Logger
}

func New(
	jobRepo repositories.JobRepository,
	recoverState recoverstate.UseCase,
	metrics *metrics.Collector,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) UseCase {
	return UseCase{
		jobRepo:      jobRepo,
		recoverState: recoverState,
		metrics:      metrics,
		clock:        clock,
		logger:       logger,
	}
}

// Execute runs the recovery for the job and stores the outcome.
// A failed recovery is recorded on the job and is not returned as an error,
// the returned error only reports failures to persist the job.
func (uc UseCase) Execute(ctx context.Context, j job.Job) (job.Job, error) {
	j.Start(uc.clock.Now())
	if err := uc.jobRepo.Update(ctx, j); err != nil {
		uc.logger.Error().
			Err(err).Stringer("job", j).
			Msg("Failed to mark job as running")
		return job.Blank, err
	}

	uc.logger.Debug().
		Stringer("job", j).Int("passes", len(j.Passes)).Int("rounds", j.Rounds()).
		Msg("Solving job")

	resp, err := uc.recoverState.Execute(ctx, recoverstate.NewRequest(j.Passes, j.Exhaustive))
	if err != nil {
		uc.logger.Warn().
			Err(err).Stringer("job", j).
			Msg("Job failed")
		j.Fail(err, uc.clock.Now())
	} else {
		j.Finish(resp.Outcome, uc.clock.Now())
	}

	// the outcome is stored even if the solver is shutting down
	if err = uc.jobRepo.Update(context.WithoutCancel(ctx), j); err != nil {
		uc.logger.Error().
			Err(err).Stringer("job", j).Stringer("status", j.Status).
			Msg("Failed to store job outcome")
		return job.Blank, err
	}

	uc.metrics.SolverJobs.WithLabelValues(j.Status.String()).Inc()
	uc.logger.Info().
		Stringer("job", j).Stringer("status", j.Status).Int("candidates", len(j.Candidates)).
		Dur("elapsed", j.FinishedAt.Sub(j.StartedAt)).
		Msg("Finished job")

	return j, nil
}
