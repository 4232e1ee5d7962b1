package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/internal/rest/model"
)

// Recover godoc
// @Summary      Recover state
// @Description  Run the recovery within the request.
// @Description  Large searches should be submitted as jobs instead.
// @Tags         recovery
// @Accept       json
// @Produce      json
// @Param        job body model.NewJob true "Recovery passes"
// @Success      200 {object} model.Recovery
// @Failure      400 {object} api.Error
// @Failure      500 {object} api.Error
// @Router       /api/recover [post]
func (a *API) Recover(c *gin.Context) {
	req, passes, err := a.bindNewJob(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}

	resp, err := a.container.RecoverState.Execute(c, recoverstate.NewRequest(passes, req.Exhaustive))
	if err != nil {
		if isBadRequest(err) {
			c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
			return
		}
		a.logger.Error().Err(err).Msg("Failed to recover state")
		c.JSON(http.StatusInternalServerError, Error{Error: "Unable to recover state"})
		return
	}

	c.JSON(http.StatusOK, model.NewRecovery(resp.Outcome, resp.Survivors, resp.Elapsed))
}
