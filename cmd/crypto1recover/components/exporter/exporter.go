package exporter

import (
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/internal/webserver"
	"github.com/sergeii/crypto1recover/internal/metrics"
	"github.com/sergeii/crypto1recover/pkg/http/httpserver"
)

type Config struct {
	HTTPListenAddress   string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPShutdownTimeout time.Duration
}

// Component serves the collector's registry in the prometheus text format.
// It is attached to every long running command through application.Builder.WithExporter.
type Component struct {
	svr *httpserver.HTTPServer
}

func (c *Component) ListenAddr() net.Addr {
	return c.svr.ListenAddr()
}

func New(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg Config,
	logger *zerolog.Logger,
	collector *metrics.Collector,
) (*Component, error) {
	registry := collector.GetRegistry()
	handler := promhttp.InstrumentMetricHandler(
		registry,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	svr, err := webserver.Mount(lc, shutdowner, logger, "exporter", webserver.Config{
		ListenAddr:      cfg.HTTPListenAddress,
		ReadTimeout:     cfg.HTTPReadTimeout,
		WriteTimeout:    cfg.HTTPWriteTimeout,
		ShutdownTimeout: cfg.HTTPShutdownTimeout,
	}, handler)
	if err != nil {
		return nil, err
	}
	return &Component{svr: svr}, nil
}

var Module = fx.Module("exporter",
	fx.Provide(New),
)
