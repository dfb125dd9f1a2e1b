package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorsMapsFields(t *testing.T) {
	type payload struct {
		CompanyID uint   `validate:"required"`
		Rating    int    `validate:"required,min=1,max=5"`
		Message   string `validate:"max=10"`
	}

	v := validator.New()
	err := v.Struct(payload{Rating: 9, Message: "way too long for this"})
	require.Error(t, err)

	out := ValidationErrors(err)
	assert.Contains(t, out, "company_id")
	assert.Contains(t, out, "rating")
	assert.Contains(t, out, "message")
	assert.Contains(t, out["rating"], "may not be greater than 5")
}

func TestValidationErrorsNonValidatorError(t *testing.T) {
	out := ValidationErrors(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"body": "Invalid request data"}, out)
}

func TestFieldError(t *testing.T) {
	out := FieldError("name", "The name has already been taken.")
	assert.Equal(t, "The name has already been taken.", out["name"])
}
