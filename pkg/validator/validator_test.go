package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Name     string `validate:"required,min=1,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidateOK(t *testing.T) {
	err := Validate(registerPayload{
		Name:     "Maya",
		Email:    "maya@example.com",
		Password: "s3cret-password",
	})
	assert.NoError(t, err)
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	err := Validate(registerPayload{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.Contains(t, valErr.Error(), "field 'Email'")
}
