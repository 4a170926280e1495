package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	BakerID  string `validate:"required"`
	Email    string `validate:"omitempty,email"`
	Rating   int    `validate:"min=1,max=5"`
	Username string `validate:"omitempty,min=3"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(sample{Email: "nope", Rating: 9, Username: "ab"})
	msg := FormatValidationError(err)

	assert.Contains(t, msg, "baker_id is required")
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "rating must be at most 5")
	assert.Contains(t, msg, "username must be at least 3 characters")
}

func TestFormatValidationError_PlainError(t *testing.T) {
	assert.Equal(t, "boom", FormatValidationError(errors.New("boom")))
}
