package submitjob

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/internal/core/repositories"
	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/internal/metrics"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

var ErrUnableToSubmitJob = errors.New("unable to submit job")

type Request struct {
	Label      string
	Passes     []search.Pass
	Exhaustive bool
}

func NewRequest(label string, passes []search.Pass, exhaustive bool) Request {
	return Request{
		Label:      label,
		Passes:     passes,
		Exhaustive: exhaustive,
	}
}

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

// Execute validates the request against the recovery limits and queues a new job.
// Validation errors are returned as is, so the caller can tell them from storage failures.
func (uc UseCase) Execute(ctx context.Context, req Request) (job.Job, error) {
	if err := uc.recoverState.Validate(recoverstate.NewRequest(req.Passes, req.Exhaustive)); err != nil {
		return job.Blank, err
	}

	j := job.New(req.Label, req.Passes, req.Exhaustive, uc.clock.Now())
	if err := uc.jobRepo.Add(ctx, j); err != nil {
		uc.logger.Error().
			Err(err).Stringer("job", j).
			Msg("Failed to add job to queue")
		return job.Blank, ErrUnableToSubmitJob
	}

	uc.metrics.JobQueueProduced.Inc()
	uc.logger.Info().
		Stringer("job", j).Int("passes", len(j.Passes)).Int("rounds", j.Rounds()).
		Msg("Submitted job")

	return j, nil
}
