package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sergeii/crypto1recover/internal/core/usecases/getjob"
	"github.com/sergeii/crypto1recover/internal/rest/model"
)

// ViewJob godoc
// @Summary      View recovery job
// @Description  Return the status and the candidates of a submitted job
// @Tags         jobs
// @Produce      json
// @Param        id path string true "Job ID"
// @Success      200 {object} model.Job
// @Failure      404
// @Failure      500 {object} api.Error
// @Router       /api/jobs/{id} [get]
func (a *API) ViewJob(c *gin.Context) {
	id := c.Param("id")

	j, err := a.container.GetJob.Execute(c, id)
	if err != nil {
		switch {
		case errors.Is(err, getjob.ErrJobNotFound):
			a.logger.Debug().Str("job", id).Msg("Requested job not found")
			c.Status(http.StatusNotFound)
		default:
			a.logger.Error().Err(err).Str("job", id).Msg("Failed to obtain job")
			c.JSON(http.StatusInternalServerError, Error{Error: "Unable to obtain job"})
		}
		return
	}

	c.JSON(http.StatusOK, model.NewJobFromDomain(j))
}
