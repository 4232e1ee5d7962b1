package observer

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/commander"
	"github.com/sergeii/crypto1recover/internal/metrics"
	"github.com/sergeii/crypto1recover/internal/metrics/observers/jobobserver"
	"github.com/sergeii/crypto1recover/pkg/periodic"
)

type Config struct {
	ObserveInterval time.Duration
}

type Component struct{}

// New refreshes the collector's observed gauges on an interval.
// The first refresh happens on start so the gauges are populated before the first scrape.
func New(
	lc fx.Lifecycle,
	cfg Config,
	clock clockwork.Clock,
	collector *metrics.Collector,
	logger *zerolog.Logger,
) *Component {
	runner := periodic.New(clock, cfg.ObserveInterval, collector.Observe, periodic.WithEagerStart())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info().Dur("interval", cfg.ObserveInterval).Msg("Starting observer")
			return runner.Start()
		},
		OnStop: func(stopCtx context.Context) error {
			if err := runner.Stop(stopCtx); err != nil {
				logger.Error().Err(err).Msg("Failed to stop observer")
				return err
			}
			logger.Info().Msg("Observer stopped")
			return nil
		},
	})

	return &Component{}
}

type command struct {
	MetricObserveInterval time.Duration `default:"5s" help:"Sets how often job queue metrics are collected"`
}

func (c *command) Run(_ *commander.Globals, builder *application.Builder) error {
	app := builder.
		Add(
			fx.Supply(Config{
				ObserveInterval: c.MetricObserveInterval,
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
	Observer command `cmd:"" help:"Start observer"`
}

var Module = fx.Module("observer",
	fx.Invoke(jobobserver.New),
	fx.Provide(New),
)
