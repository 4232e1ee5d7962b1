package api

import (
	"net"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/build"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/commander"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/internal/webserver"
	"github.com/sergeii/crypto1recover/internal/rest"
	"github.com/sergeii/crypto1recover/internal/rest/api"
	"github.com/sergeii/crypto1recover/pkg/http/httpserver"
)

type Config struct {
	HTTPListenAddr      string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPShutdownTimeout time.Duration
}

type Component struct {
	svr *httpserver.HTTPServer
}

func (c *Component) ListenAddr() net.Addr {
	return c.svr.ListenAddr()
}

func New(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	router *gin.Engine,
	cfg Config,
	logger *zerolog.Logger,
) (*Component, error) {
	svr, err := webserver.Mount(lc, shutdowner, logger, "api", webserver.Config{
		ListenAddr:      cfg.HTTPListenAddr,
		ReadTimeout:     cfg.HTTPReadTimeout,
		WriteTimeout:    cfg.HTTPWriteTimeout,
		ShutdownTimeout: cfg.HTTPShutdownTimeout,
	}, router)
	if err != nil {
		return nil, err
	}
	return &Component{svr: svr}, nil
}

type command struct {
	HTTPListenAddress   string        `default:":3000" help:"Sets the address where the API server listens for incoming http requests"`         // nolint:lll
	HTTPReadTimeout     time.Duration `default:"5s"    help:"Sets the maximum duration to read the request body before timing out"`              // nolint:lll
	HTTPWriteTimeout    time.Duration `default:"60s"   help:"Sets the maximum duration to write a response, synchronous recoveries included"`   // nolint:lll
	HTTPShutdownTimeout time.Duration `default:"10s"   help:"Defines how long the server waits to gracefully close connections before exiting"` // nolint:lll
}

func (c *command) Run(_ *commander.Globals, builder *application.Builder) error {
	app := builder.
		Add(
			fx.Supply(
				Config{
					HTTPListenAddr:      c.HTTPListenAddress,
					HTTPReadTimeout:     c.HTTPReadTimeout,
					HTTPWriteTimeout:    c.HTTPWriteTimeout,
					HTTPShutdownTimeout: c.HTTPShutdownTimeout,
				},
			),
			Module,
			fx.Invoke(func(logger *zerolog.Logger, _ *Component) {
				logger.Info().
					Str("version", build.Version).
					Str("commit", build.Commit).
					Str("built", build.Time).
					Str("address", c.HTTPListenAddress).
					Msg("Starting API server")
			}),
		).
		WithExporter().
		Build()
	app.Run()
	return nil
}

type CLI struct {
	API command `cmd:"" help:"Start API server"`
}

var Module = fx.Module("api",
	fx.Provide(fx.Private, api.New),
	fx.Provide(rest.NewRouter),
	fx.Provide(New),
)
