package validation_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergeii/crypto1recover/internal/validation"
)

type observation struct {
	Bits string `validate:"required,bits"`
}

type optionalObservation struct {
	Bits string `validate:"bits"`
}

func TestValidateBits(t *testing.T) {
	validate, err := validation.New()
	require.NoError(t, err)

	tests := []struct {
		value string
		want  bool
	}{
		{"0", true},
		{"1", true},
		{"0010000111111010", true},
		{"0010 0001 1111 1010", true},
		{"0010_0001_1111_1010", true},
		{"", false},
		{" ", false},
		{"__", false},
		{"012", false},
		{"0x10", false},
		{"1O1", false},
		{"١", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validate.Struct(observation{Bits: tt.value})
			if tt.want {
				assert.NoError(t, err)
			} else {
				var verrs validator.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
			}
		})
	}
}

func TestValidateBits_EmptyIsNotValidated(t *testing.T) {
	validate, err := validation.New()
	require.NoError(t, err)

	assert.NoError(t, validate.Struct(optionalObservation{}))
	assert.Error(t, validate.Struct(optionalObservation{Bits: "2"}))
}
