package logging

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/sergeii/crypto1recover/pkg/logutils"
)

var (
	ErrInvalidLogOutput = errors.New("logging: unknown output format")
	ErrInvalidLogLevel  = errors.New("logging: unknown level")
)

type Config struct {
	LogOutput string
	LogLevel  string
}

type Result struct {
	fx.Out

	Logger   *zerolog.Logger
	LogLevel zerolog.Level
}

func Provide(cfg Config) (Result, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.CallerMarshalFunc = logutils.ShortCallerFormatter

	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return Result{}, ErrInvalidLogLevel
	}
	zerolog.SetGlobalLevel(lvl)

	output, err := selectOutput(cfg.LogOutput)
	if err != nil {
		return Result{}, err
	}

	logger := log.With().Caller().Logger()
	if output != nil {
		logger = logger.Output(output)
	}

	return Result{
		Logger:   &logger,
		LogLevel: lvl,
	}, nil
}

func selectOutput(format string) (io.Writer, error) {
	switch format {
	case "console", "":
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, nil
	case "stdout":
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339, NoColor: true}, nil
	case "stderr":
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: true}, nil
	case "json":
		// zerolog writes json to stderr by default
		return nil, nil
	default:
		return nil, ErrInvalidLogOutput
	}
}

func NoGlobal() {
	log.Logger = zerolog.Nop()
}

func FxLogger(logger *zerolog.Logger, lvl zerolog.Level) fxevent.Logger {
	if lvl > zerolog.DebugLevel {
		return fxevent.NopLogger
	}
	return &fxevent.ConsoleLogger{
		W: logger,
	}
}
