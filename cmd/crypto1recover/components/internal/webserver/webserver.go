// Package webserver binds an httpserver.HTTPServer to the fx application lifecycle.
package webserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/pkg/http/httpserver"
)

type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Mount creates a server for the handler that starts and stops along with the application.
// The listener is bound synchronously on start, so a busy address fails the start hook.
// A server that exits on its own shuts the whole application down.
func Mount(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	logger *zerolog.Logger,
	name string,
	cfg Config,
	handler http.Handler,
) (*httpserver.HTTPServer, error) {
	svrLogger := logger.With().Str("server", name).Logger()

	svr, err := httpserver.New(
		cfg.ListenAddr,
		httpserver.WithShutdownTimeout(cfg.ShutdownTimeout),
		httpserver.WithReadTimeout(cfg.ReadTimeout),
		httpserver.WithWriteTimeout(cfg.WriteTimeout),
		httpserver.WithHandler(handler),
		httpserver.WithErrorLog(svrLogger),
		httpserver.WithReadySignal(func(addr net.Addr) {
			svrLogger.Info().Stringer("addr", addr).Msg("Server is ready to accept connections")
		}),
	)
	if err != nil {
		svrLogger.Error().Err(err).Msg("Failed to set up server")
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return svr.Start(func(serveErr error) {
				svrLogger.Warn().Err(serveErr).Msg("Server exited prematurely")
				if shutErr := shutdowner.Shutdown(); shutErr != nil {
					svrLogger.Error().Err(shutErr).Msg("Failed to handle premature server shutdown")
				}
			})
		},
		OnStop: func(stopCtx context.Context) error {
			if stopErr := svr.Stop(stopCtx); stopErr != nil {
				svrLogger.Error().Err(stopErr).Msg("Failed to stop server gracefully")
				return stopErr
			}
			svrLogger.Info().Msg("Server stopped")
			return nil
		},
	})

	return svr, nil
}
