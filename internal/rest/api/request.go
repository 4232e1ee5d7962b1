package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/internal/rest/model"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

var errInvalidPayload = errors.New("invalid payload")

func (a *API) bindNewJob(c *gin.Context) (model.NewJob, []search.Pass, error) {
	var req model.NewJob
	if err := c.ShouldBindJSON(&req); err != nil {
		a.logger.Debug().Err(err).Msg("Unable to decode payload")
		return req, nil, errInvalidPayload
	}
	if err := a.validate.Struct(req); err != nil {
		a.logger.Debug().Err(err).Msg("Payload did not pass validation")
		return req, nil, err
	}
	passes, err := req.ToDomain(a.settings.MaxSeeds)
	if err != nil {
		return req, nil, err
	}
	return req, passes, nil
}

// isBadRequest tells whether err is caused by the client's input
func isBadRequest(err error) bool {
	badRequestErrors := []error{
		errInvalidPayload,
		model.ErrTooManySeeds,
		search.ErrInvalidObservation,
		search.ErrInvalidSeedRange,
		recoverstate.ErrNoPasses,
		recoverstate.ErrEmptyObservation,
		recoverstate.ErrNoSeeds,
		recoverstate.ErrTooManySeeds,
		recoverstate.ErrTooManyPasses,
		recoverstate.ErrTooManyRounds,
		recoverstate.ErrStateOverflow,
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
