package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sergeii/crypto1recover/internal/core/usecases/submitjob"
	"github.com/sergeii/crypto1recover/internal/rest/model"
)

// SubmitJob godoc
// @Summary      Submit recovery job
// @Description  Queue a recovery search to be run in the background
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job body model.NewJob true "Recovery job"
// @Success      202 {object} model.Job
// @Failure      400 {object} api.Error
// @Failure      500 {object} api.Error
// @Router       /api/jobs [post]
func (a *API) SubmitJob(c *gin.Context) {
	req, passes, err := a.bindNewJob(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}

	j, err := a.container.SubmitJob.Execute(c, submitjob.NewRequest(req.Label, passes, req.Exhaustive))
	if err != nil {
		if isBadRequest(err) {
			c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
			return
		}
		a.logger.Error().Err(err).Msg("Failed to submit job")
		c.JSON(http.StatusInternalServerError, Error{Error: "Unable to submit job"})
		return
	}

	c.JSON(http.StatusAccepted, model.NewJobFromDomain(j))
}
