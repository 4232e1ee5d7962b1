package cleaner_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/cleaner"
	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/internal/core/repositories"
	"github.com/sergeii/crypto1recover/internal/metrics"
	"github.com/sergeii/crypto1recover/internal/testutils/factories/jobfactory"
	"github.com/sergeii/crypto1recover/internal/testutils/testapp"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

func TestCleaner_Run(t *testing.T) {
	var jobRepo repositories.JobRepository
	var collector *metrics.Collector

	app := fxtest.New(
		t,
		fx.Provide(testapp.NoLogging),
		fx.Provide(testapp.ProvideSettings),
		fx.Provide(testapp.ProvidePersistence),
		application.Module,
		fx.Supply(cleaner.Config{
			CleanInterval:  time.Millisecond * 10,
			CleanRetention: time.Hour,
		}),
		cleaner.Module,
		fx.NopLogger,
		fx.Invoke(func(*cleaner.Component) {}),
		fx.Populate(&jobRepo, &collector),
	)

	ctx := t.Context()
	now := time.Now()

	finish := func(j job.Job, at time.Time) job.Job {
		j.Start(at)
		j.Finish(search.Outcome{Kind: search.Empty}, at)
		require.NoError(t, jobRepo.Add(ctx, j))
		require.NoError(t, jobRepo.Update(ctx, j))
		return j
	}

	outdated := finish(jobfactory.Build(jobfactory.WithLabel("outdated")), now.Add(-time.Hour*2))
	recent := finish(jobfactory.Build(jobfactory.WithLabel("recent")), now.Add(-time.Minute*30))
	pending := jobfactory.Build(jobfactory.WithLabel("pending"), jobfactory.WithCreatedAt(now.Add(-time.Hour*3)))
	require.NoError(t, jobRepo.Add(ctx, pending))

	app.RequireStart()
	defer app.RequireStop()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(collector.CleanerRemovals.WithLabelValues("jobs")) == 1
	}, time.Second, time.Millisecond*10)

	_, err := jobRepo.Get(ctx, outdated.ID)
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)

	for _, j := range []job.Job{recent, pending} {
		_, err = jobRepo.Get(ctx, j.ID)
		assert.NoError(t, err)
	}

	count, err := jobRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.CleanerErrors.WithLabelValues("jobs")))
}
