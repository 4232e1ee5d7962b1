package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sergeii/crypto1recover/api/docs" // nolint: revive
	"github.com/sergeii/crypto1recover/internal/rest/api"
)

func NewRouter(a *api.API, logger *zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), accessLog(logger))

	router.GET("/status", a.Status)

	jobs := router.Group("/api")
	jobs.POST("/jobs", a.SubmitJob)
	jobs.GET("/jobs/:id", a.ViewJob)
	jobs.POST("/recover", a.Recover)

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

func accessLog(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Debug()
		if status >= 500 {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("elapsed", time.Since(started)).
			Str("client", c.ClientIP()).
			Msg("Handled request")
	}
}
