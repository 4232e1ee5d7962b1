package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/build"
	"github.com/sergeii/crypto1recover/internal/rest/model"
)

// Status godoc
// @Summary      Service status
// @Description  Return build information and the search limits of the service
// @Tags         status
// @Produce      json
// @Success      200 {object} model.Status
// @Router       /status [get]
func (a *API) Status(c *gin.Context) {
	c.JSON(http.StatusOK, model.Status{
		BuildTime:    build.Time,
		BuildCommit:  build.Commit,
		BuildVersion: build.Version,
		Limits:       model.NewLimits(a.settings),
	})
}
