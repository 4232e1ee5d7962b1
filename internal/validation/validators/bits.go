package validators

import (
	"github.com/go-playground/validator/v10"
)

// ValidateBits accepts strings of zeroes and ones.
// Spaces and underscores may be used to group the bits.
func ValidateBits(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	// don't validate empty value
	if value == "" {
		return true
	}

	digits := 0
	for _, ch := range value {
		switch ch {
		case '0', '1':
			digits++
		case ' ', '_', '\t':
		default:
			return false
		}
	}

	return digits > 0
}
