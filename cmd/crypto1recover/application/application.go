package application

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/exporter"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/container"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/logging"
	"github.com/sergeii/crypto1recover/internal/core/repositories"
	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/internal/metrics"
	"github.com/sergeii/crypto1recover/internal/persistence/redis/redislock"
	"github.com/sergeii/crypto1recover/internal/persistence/redis/repositories/jobs"
	"github.com/sergeii/crypto1recover/internal/settings"
	"github.com/sergeii/crypto1recover/internal/validation"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

const cleanupLockTTL = time.Minute

type Repositories struct {
	fx.Out

	Jobs repositories.JobRepository
}

func provideJobRepository(
	client *redis.Client,
	locks *redislock.Manager,
	clock clockwork.Clock,
) *jobs.Repository {
	return jobs.New(client, clock, jobs.WithCleanupLock(locks, cleanupLockTTL))
}

func provideRepositories(jobRepo *jobs.Repository) Repositories {
	return Repositories{
		Jobs: jobRepo,
	}
}

func provideSearchDriver(settings settings.Settings, collector *metrics.Collector) *search.Driver {
	opts := []search.Option{
		search.WithChunkSize(settings.SearchChunkSize),
		search.WithRoundHook(func(stats search.RoundStats) {
			collector.RecoveryRounds.Inc()
			collector.RecoveryRoundDurations.Observe(stats.Elapsed.Seconds())
			collector.RecoveryRoundCandidates.Observe(float64(stats.After))
		}),
	}
	if settings.SearchWorkers > 0 {
		opts = append(opts, search.WithWorkers(settings.SearchWorkers))
	}
	return search.New(opts...)
}

func provideRecoveryOpts(settings settings.Settings) recoverstate.Opts {
	return recoverstate.Opts{
		MaxSeeds:  settings.MaxSeeds,
		MaxPasses: settings.MaxPasses,
		MaxRounds: settings.MaxRounds,
	}
}

type Builder struct {
	opts []fx.Option
}

func NewBuilder(opts ...fx.Option) *Builder {
	return &Builder{
		opts: opts,
	}
}

func (b *Builder) Add(opts ...fx.Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

func (b *Builder) WithExporter() *Builder {
	return b.Add(
		fx.Invoke(func(*exporter.Component) {}),
	)
}

func (b *Builder) Build() *fx.App {
	return fx.New(b.opts...)
}

var Module = fx.Module("application",
	fx.Invoke(logging.NoGlobal),
	fx.Provide(clockwork.NewRealClock),
	fx.Provide(validation.New),
	fx.Provide(redislock.NewManager),
	fx.Provide(provideJobRepository),
	fx.Provide(provideRepositories),
	fx.Provide(metrics.New),
	fx.Provide(provideSearchDriver),
	fx.Provide(provideRecoveryOpts),
	container.Module,
)
