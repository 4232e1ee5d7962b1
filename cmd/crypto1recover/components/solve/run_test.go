package solve

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/commander"
	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/internal/testutils/testapp"
)

func newTestBuilder() *application.Builder {
	// no redis client is provided, the command must not need one
	return application.NewBuilder(
		fx.Provide(testapp.NoLogging),
		fx.Provide(testapp.ProvideSettings),
		application.Module,
		fx.NopLogger,
	)
}

func TestCommand_Run_Ambiguous(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := &command{
		Passes: []string{
			"0x5a399..0x5a3c9:0010000111111010",
			"0x5a3b9..0x5a3e9:0010000111111010",
		},
		out: out,
	}

	err := cmd.Run(&commander.Globals{MaxSeeds: 1 << 20}, newTestBuilder())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "ambiguous, 241 candidates remain")
	assert.Contains(t, out.String(), "survivors per pass: [293 338]")
	assert.Contains(t, out.String(), "... and 209 more")
}

func TestCommand_Run_Inconsistent(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := &command{
		Passes: []string{"0x5a3c1:0010", "0x5a3c1:1010"},
		out:    out,
	}

	err := cmd.Run(&commander.Globals{}, newTestBuilder())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "no candidates remain")
}

func TestCommand_Run_InvalidPass(t *testing.T) {
	cmd := &command{
		Passes: []string{"0010"},
		out:    &bytes.Buffer{},
	}
	err := cmd.Run(&commander.Globals{}, newTestBuilder())
	assert.ErrorIs(t, err, ErrMissingSeeds)
}

func TestCommand_Run_Overflow(t *testing.T) {
	cmd := &command{
		Passes: []string{"0xffffffffffff:0000000000000000000"},
		out:    &bytes.Buffer{},
	}
	err := cmd.Run(&commander.Globals{}, newTestBuilder())
	assert.ErrorIs(t, err, recoverstate.ErrStateOverflow)
}
