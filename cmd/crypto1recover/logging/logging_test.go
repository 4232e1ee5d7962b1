package logging_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/logging"
)

func TestProvide(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logging.Config
		wantLvl zerolog.Level
		wantErr error
	}{
		{
			"positive case - console/info",
			logging.Config{LogOutput: "console", LogLevel: "info"},
			zerolog.InfoLevel,
			nil,
		},
		{
			"positive case - json/error",
			logging.Config{LogOutput: "json", LogLevel: "error"},
			zerolog.ErrorLevel,
			nil,
		},
		{
			"positive case - stderr/warn",
			logging.Config{LogOutput: "stderr", LogLevel: "warn"},
			zerolog.WarnLevel,
			nil,
		},
		{
			"positive case - default output",
			logging.Config{LogLevel: "debug"},
			zerolog.DebugLevel,
			nil,
		},
		{
			"positive case - case insensitive",
			logging.Config{LogOutput: "stdout", LogLevel: "INFO"},
			zerolog.InfoLevel,
			nil,
		},
		{
			"empty logging level",
			logging.Config{LogOutput: "stdout", LogLevel: ""},
			zerolog.NoLevel,
			logging.ErrInvalidLogLevel,
		},
		{
			"invalid logging level",
			logging.Config{LogOutput: "stdout", LogLevel: "critical"},
			zerolog.NoLevel,
			logging.ErrInvalidLogLevel,
		},
		{
			"invalid logging output",
			logging.Config{LogOutput: "text", LogLevel: "warn"},
			zerolog.NoLevel,
			logging.ErrInvalidLogOutput,
		},
		{
			"invalid logging output and level",
			logging.Config{LogOutput: "out", LogLevel: "debug2"},
			zerolog.NoLevel,
			logging.ErrInvalidLogLevel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := logging.Provide(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, result.Logger)
			assert.Equal(t, tt.wantLvl, result.LogLevel)
		})
	}
}

func TestFxLogger(t *testing.T) {
	logger := zerolog.Nop()

	assert.IsType(t, &fxevent.ConsoleLogger{}, logging.FxLogger(&logger, zerolog.DebugLevel))
	assert.IsType(t, &fxevent.ConsoleLogger{}, logging.FxLogger(&logger, zerolog.TraceLevel))
	assert.Equal(t, fxevent.NopLogger, logging.FxLogger(&logger, zerolog.InfoLevel))
}
