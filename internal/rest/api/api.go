package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/container"
	"github.com/sergeii/crypto1recover/internal/settings"
)

type API struct {
	settings  settings.Settings
	container container.Container
	validate  *validator.Validate
	logger    *zerolog.Logger
}

type Error struct {
	Error string `json:"error"`
}

func New(
	settings settings.Settings,
	logger *zerolog.Logger,
	validate *validator.Validate,
	container container.Container,
) *API {
	return &API{
		container: container,
		settings:  settings,
		validate:  validate,
		logger:    logger,
	}
}
