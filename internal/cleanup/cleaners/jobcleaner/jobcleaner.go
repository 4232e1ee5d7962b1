package jobcleaner

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/internal/cleanup"
	"github.com/sergeii/crypto1recover/internal/core/usecases/cleanjobs"
	"github.com/sergeii/crypto1recover/internal/metrics"
)

type Opts struct {
	Retention time.Duration
}

type JobCleaner struct {
	opts      Opts
	cleanJobs cleanjobs.UseCase
	clock     clockwork.Clock
	metrics   *metrics.Collector
	logger    *zerolog.Logger
}

func New(
	manager *cleanup.Manager,
	opts Opts,
	cleanJobs cleanjobs.UseCase,
	clock clockwork.Clock,
	metrics *metrics.Collector,
	logger *zerolog.Logger,
) JobCleaner {
	cleaner := JobCleaner{
		opts:      opts,
		cleanJobs: cleanJobs,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
	manager.AddCleaner(&cleaner)
	return cleaner
}

func (c JobCleaner) Clean(ctx context.Context) {
	cleanUntil := c.clock.Now().Add(-c.opts.Retention)

	resp, err := c.cleanJobs.Execute(ctx, cleanUntil)

	c.metrics.CleanerRemovals.WithLabelValues("jobs").Add(float64(resp.Count))
	c.metrics.CleanerErrors.WithLabelValues("jobs").Add(float64(resp.Errors))

	if err != nil {
		c.logger.Error().Err(err).Stringer("until", cleanUntil).Msg("Failed to clean jobs")
	}
}
