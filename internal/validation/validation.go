package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/sergeii/crypto1recover/internal/validation/validators"
)

func New() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("bits", validators.ValidateBits); err != nil {
		return nil, err
	}
	return validate, nil
}
