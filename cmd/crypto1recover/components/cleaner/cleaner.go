package cleaner

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/commander"
	"github.com/sergeii/crypto1recover/internal/cleanup"
	"github.com/sergeii/crypto1recover/internal/cleanup/cleaners/jobcleaner"
	"github.com/sergeii/crypto1recover/pkg/periodic"
)

type Config struct {
	CleanRetention time.Duration
	CleanInterval  time.Duration
}

type Component struct{}

// New runs the registered cleaners on an interval, starting with a pass right away.
func New(
	lc fx.Lifecycle,
	cfg Config,
	clock clockwork.Clock,
	manager *cleanup.Manager,
	logger *zerolog.Logger,
) *Component {
	runner := periodic.New(clock, cfg.CleanInterval, manager.Clean, periodic.WithEagerStart())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info().
				Dur("interval", cfg.CleanInterval).Dur("retention", cfg.CleanRetention).
				Msg("Starting cleaner")
			return runner.Start()
		},
		OnStop: func(stopCtx context.Context) error {
			if err := runner.Stop(stopCtx); err != nil {
				logger.Error().Err(err).Msg("Failed to stop cleaner")
				return err
			}
			logger.Info().Msg("Cleaner stopped")
			return nil
		},
	})

	return &Component{}
}

func provideJobCleanerOpts(cfg Config) jobcleaner.Opts {
	return jobcleaner.Opts{
		Retention: cfg.CleanRetention,
	}
}

type command struct {
	CleanRetention time.Duration `default:"24h" help:"Sets how long a finished recovery job is kept"`
	CleanInterval  time.Duration `default:"10m" help:"Sets how often finished jobs are cleaned up"`
}

func (c *command) Run(_ *commander.Globals, builder *application.Builder) error {
	app := builder.
		Add(
			fx.Supply(Config{
				CleanRetention: c.CleanRetention,
				CleanInterval:  c.CleanInterval,
			}),
			Module,
			fx.Invoke(func(_ *Component) {}),
		).
		WithExporter().
		Build()
	app.Run()
	return nil
}

type CLI struct {
	Cleaner command `cmd:"" help:"Start cleaner"`
}

var Module = fx.Module("cleaner",
	fx.Provide(cleanup.NewManager),
	fx.Provide(fx.Private, provideJobCleanerOpts),
	fx.Invoke(jobcleaner.New),
	fx.Provide(New),
)
