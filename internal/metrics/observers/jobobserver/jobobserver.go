package jobobserver

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/internal/core/repositories"
	"github.com/sergeii/crypto1recover/internal/metrics"
)

type JobObserver struct {
	jobRepo repositories.JobRepository
	logger  *zerolog.Logger
}

func New(
	collector *metrics.Collector,
	jobRepo repositories.JobRepository,
	logger *zerolog.Logger,
) JobObserver {
	observer := JobObserver{
		jobRepo: jobRepo,
		logger:  logger,
	}
	collector.AddObserver(&observer)
	return observer
}

func (o JobObserver) Observe(ctx context.Context, m *metrics.Collector) {
	o.observeJobRepoSize(ctx, m)
	o.observeJobQueueSize(ctx, m)
}

func (o JobObserver) observeJobRepoSize(ctx context.Context, m *metrics.Collector) {
	count, err := o.jobRepo.Count(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("Unable to observe job count")
		return
	}
	m.JobRepositorySize.Set(float64(count))
}

func (o JobObserver) observeJobQueueSize(ctx context.Context, m *metrics.Collector) {
	count, err := o.jobRepo.CountPending(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("Unable to observe pending job count")
		return
	}
	m.JobQueueSize.Set(float64(count))
}
