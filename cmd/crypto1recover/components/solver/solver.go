package solver

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/commander"
	"github.com/sergeii/crypto1recover/internal/solver/solverunner"
)

type Config struct {
	PollInterval time.Duration
	Concurrency  int
}

type Component struct{}

// New ties the runner to the application lifecycle.
// Stopping waits for the jobs in progress to be stored as failed
// and for the unstarted ones to be returned to the queue.
func New(
	lc fx.Lifecycle,
	runner *solverunner.Runner,
	logger *zerolog.Logger,
) *Component {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runner.Start(context.Background()) // nolint: contextcheck
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			if err := runner.Stop(stopCtx); err != nil {
				logger.Error().Err(err).Int("busy", runner.Busy()).Msg("Failed to stop solver gracefully")
				return err
			}
			logger.Info().Msg("Solver stopped")
			return nil
		},
	})

	return &Component{}
}

type command struct {
	SolverPollInterval time.Duration `default:"250ms" help:"Determines how often the queue is checked for pending recovery jobs"`  // nolint:lll
	SolverConcurrency  int           `default:"2"     help:"Specifies the maximum number of recovery jobs that can run simultaneously"` // nolint:lll
}

func (c *command) Run(_ *commander.Globals, builder *application.Builder) error {
	app := builder.
		Add(
			fx.Supply(Config{
				PollInterval: c.SolverPollInterval,
				Concurrency:  c.SolverConcurrency,
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
	Solver command `cmd:"" help:"Start solver"`
}

func provideRunnerOpts(cfg Config) solverunner.RunnerOpts {
	return solverunner.RunnerOpts{
		PollInterval: cfg.PollInterval,
		Concurrency:  cfg.Concurrency,
	}
}

var Module = fx.Module("solver",
	fx.Provide(fx.Private, provideRunnerOpts),
	fx.Provide(
		fx.Private,
		solverunner.New,
	),
	fx.Provide(New),
)
