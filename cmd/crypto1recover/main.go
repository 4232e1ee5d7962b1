package main

import (
	"github.com/alecthomas/kong"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/commander"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/api"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/cleaner"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/exporter"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/observer"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/solve"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/solver"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/logging"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/persistence"
	"github.com/sergeii/crypto1recover/internal/settings"
)

func main() {
	cli := commander.CLI{}
	cli.Run.Plugins = kong.Plugins{
		&api.CLI{},
		&solver.CLI{},
		&observer.CLI{},
		&cleaner.CLI{},
		&solve.CLI{},
	}
	ctx := kong.Parse(
		&cli,
		kong.Name("crypto1recover"),
		kong.Description("Crypto1 cipher state recovery from observed keystream"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Summary:   true,
			Tree:      true,
			FlagsLast: true,
		}),
	)

	builder := application.NewBuilder(
		fx.Supply(persistence.Config{
			RedisURL: cli.Globals.RedisURL,
		}),
		fx.Provide(persistence.Provide),
		application.Module,
		fx.Supply(logging.Config{
			LogLevel:  cli.Globals.LogLevel,
			LogOutput: cli.Globals.LogOutput,
		}),
		fx.Supply(settings.Settings{
			SearchChunkSize: cli.Globals.SearchChunkSize,
			SearchWorkers:   cli.Globals.SearchWorkers,
			MaxSeeds:        cli.Globals.MaxSeeds,
			MaxPasses:       cli.Globals.MaxPasses,
			MaxRounds:       cli.Globals.MaxRounds,
		}),
		fx.Provide(logging.Provide),
		fx.WithLogger(logging.FxLogger),
		fx.Supply(exporter.Config{
			HTTPListenAddress:   cli.Globals.ExporterHTTPListenAddress,
			HTTPReadTimeout:     cli.Globals.ExporterHTTPReadTimeout,
			HTTPWriteTimeout:    cli.Globals.ExporterHTTPWriteTimeout,
			HTTPShutdownTimeout: cli.Globals.ExporterHTTPShutdownTimeout,
		}),
		exporter.Module,
	)

	if err := ctx.Run(&cli.Globals, builder); err != nil {
		ctx.FatalIfErrorf(err)
	}
}
