package testutils

import (
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/application"
	"github.com/sergeii/crypto1recover/cmd/crypto1recover/components/api"
	"github.com/sergeii/crypto1recover/internal/testutils/testapp"
)

func PrepareTestServer(tb fxtest.TB, extra ...fx.Option) (*httptest.Server, func()) {
	gin.SetMode(gin.ReleaseMode) // prevent gin from overwriting middlewares

	var router *gin.Engine
	fxopts := []fx.Option{
		fx.Provide(testapp.ProvidePersistence),
		fx.Provide(testapp.NoLogging),
		fx.Provide(testapp.ProvideSettings),
		application.Module,
		api.Module,
		fx.NopLogger,
		fx.Populate(&router),
	}
	fxopts = append(fxopts, extra...)

	app := fxtest.New(tb, fxopts...)
	app.RequireStart()

	ts := httptest.NewServer(router)

	return ts, func() {
		defer app.RequireStop() // nolint: errcheck
		defer ts.Close()
	}
}
