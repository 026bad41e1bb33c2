package validation_test

import (
	"testing"

	"go-jobmatch-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type contact struct {
	Name        string `validate:"omitempty,valid_name"`
	CountryCode string `validate:"omitempty,country_code"`
	Mobile      string `validate:"omitempty,valid_phone"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidate(t)

	t.Run("accepts common name and phone shapes", func(t *testing.T) {
		assert.NoError(t, v.Struct(contact{Name: "Anne-Marie O'Neill", CountryCode: "+31", Mobile: "+31612345678"}))
		assert.NoError(t, v.Struct(contact{}))
	})

	t.Run("rejects digits in names", func(t *testing.T) {
		assert.Error(t, v.Struct(contact{Name: "R2D2"}))
	})

	t.Run("rejects short and alphabetic phone numbers", func(t *testing.T) {
		assert.Error(t, v.Struct(contact{Mobile: "12345"}))
		assert.Error(t, v.Struct(contact{Mobile: "call-me"}))
	})

	t.Run("rejects overlong dialing codes", func(t *testing.T) {
		assert.Error(t, v.Struct(contact{CountryCode: "+12345"}))
	})
}

func TestFormatBindingError(t *testing.T) {
	v := newValidate(t)

	type registerBody struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	t.Run("readable field messages", func(t *testing.T) {
		err := v.Struct(registerBody{Email: "not-an-email", Password: "short"})
		msg := validation.FormatBindingError(err)
		assert.Contains(t, msg, "Email must be a valid email address")
		assert.Contains(t, msg, "Password must be at least 8 characters")
	})

	t.Run("non-validator errors stay generic", func(t *testing.T) {
		assert.Equal(t, "Invalid request body", validation.FormatBindingError(assert.AnError))
	})
}
