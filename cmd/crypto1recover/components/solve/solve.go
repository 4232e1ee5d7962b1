package solve

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/commander"
	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/pkg/slice"
)

const maxListedCandidates = 32

type command struct {
	Passes     []string      `arg:"" name:"pass" help:"Pass given as SEEDS:BITS, e.g. 0x5a3c1,0x5a399..0x5a3c9:0010. Only BITS with --exhaustive"` // nolint:lll
	Exhaustive bool          `help:"Start every pass from the whole filter window selected by its first bit"`
	Timeout    time.Duration `default:"0s" help:"Aborts the recovery after the given duration (0 - no limit)"`

	out io.Writer
}

func (c *command) Run(globals *commander.Globals, builder *application.Builder) error {
	passes, err := ParsePasses(c.Passes, c.Exhaustive, globals.MaxSeeds)
	if err != nil {
		return err
	}

	var uc recoverstate.UseCase
	var logger *zerolog.Logger
	app := builder.Add(fx.Populate(&uc, &logger)).Build()
	if err = app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancelStart()
	if err = app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancelStop()
		if stopErr := app.Stop(stopCtx); stopErr != nil {
			logger.Error().Err(stopErr).Msg("Failed to stop gracefully")
		}
	}()

	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	resp, err := uc.Execute(ctx, recoverstate.NewRequest(passes, c.Exhaustive))
	if err != nil {
		logger.Error().Err(err).Msg("Unable to recover state")
		return err
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	return Report(out, resp)
}

// Report writes a human readable summary of the recovery to w.
func Report(w io.Writer, resp recoverstate.Response) error {
	if _, err := fmt.Fprintf(w, "%s (survivors per pass: %v, elapsed: %s)\n",
		resp.Outcome, resp.Survivors, resp.Elapsed.Round(time.Millisecond)); err != nil {
		return err
	}
	listed := slice.TruncateSafe(resp.Outcome.Candidates, maxListedCandidates)
	for _, state := range listed {
		if _, err := fmt.Fprintf(w, "%#x\n", state); err != nil {
			return err
		}
	}
	if rest := len(resp.Outcome.Candidates) - len(listed); rest > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more\n", rest); err != nil {
			return err
		}
	}
	return nil
}

type CLI struct {
	Solve command `cmd:"" help:"Recover the state for the given passes and exit"`
}
