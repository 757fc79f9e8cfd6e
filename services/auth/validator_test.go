// services/auth/validator_test.go
package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/models"
)

func TestValidateLoginMessages(t *testing.T) {
	v := NewValidator(newFakeStore())

	tests := []struct {
		name    string
		req     models.LoginRequest
		message string
	}{
		{
			name:    "missing phone",
			req:     models.LoginRequest{Password: "strongpassword"},
			message: "phoneNumber is required",
		},
		{
			name:    "short password",
			req:     models.LoginRequest{PhoneNumber: "254712345678", Password: "short"},
			message: "password must be at least 8 characters",
		},
		{
			name:    "phone too long",
			req:     models.LoginRequest{PhoneNumber: "2547123456789012345", Password: "strongpassword"},
			message: "phoneNumber must be at most 15 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateLogin(&tt.req)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
			assert.Equal(t, tt.message, apperrors.MessageOf(err))
		})
	}
}

func TestValidateLoginTrimsPhone(t *testing.T) {
	v := NewValidator(newFakeStore())

	req := models.LoginRequest{PhoneNumber: "  254712345678  ", Password: "strongpassword"}
	require.NoError(t, v.ValidateLogin(&req))
	assert.Equal(t, "254712345678", req.PhoneNumber)
}

func TestValidateRegistrationNormalizesEmail(t *testing.T) {
	v := NewValidator(newFakeStore())

	req := models.RegisterRequest{
		FirstName:            " Asha ",
		LastName:             "Mwangi",
		PhoneNumber:          "254712345678",
		Email:                "  Asha@Example.COM ",
		Password:             "strongpassword",
		PasswordConfirmation: "strongpassword",
	}
	require.NoError(t, v.ValidateRegistration(context.Background(), &req))
	assert.Equal(t, "Asha", req.FirstName)
	assert.Equal(t, "asha@example.com", req.Email)
}

func TestValidateRegistrationConflictBeforeFieldChecks(t *testing.T) {
	store := newFakeStore()
	seedAccount(t, store, "254712345678", "strongpassword")
	v := NewValidator(store)

	// The password is too short as well, but the uniqueness check runs first.
	err := v.ValidateRegistration(context.Background(), &models.RegisterRequest{
		FirstName:            "Brian",
		LastName:             "Otieno",
		PhoneNumber:          "254712345678",
		Password:             "short",
		PasswordConfirmation: "short",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestValidateRegistrationDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	existing := seedAccount(t, store, "254712345678", "strongpassword")
	existing.Email = "asha@example.com"
	require.NoError(t, store.Save(context.Background(), existing))
	v := NewValidator(store)

	err := v.ValidateRegistration(context.Background(), &models.RegisterRequest{
		FirstName:            "Brian",
		LastName:             "Otieno",
		PhoneNumber:          "254798765432",
		Email:                "asha@example.com",
		Password:             "strongpassword",
		PasswordConfirmation: "strongpassword",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "Account with the email already exists", apperrors.MessageOf(err))
}

func TestValidateRecoverPasswordCodeRange(t *testing.T) {
	v := NewValidator(newFakeStore())

	err := v.ValidateRecoverPassword(&models.RecoverPasswordRequest{
		VerificationCode:  1000000,
		VerificationToken: "sometoken",
		NewPassword:       "strongpassword",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestValidateRefreshTokenRequired(t *testing.T) {
	v := NewValidator(newFakeStore())

	err := v.ValidateRefreshToken(&models.RefreshTokenRequest{RefreshToken: "   "})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	assert.Equal(t, "refreshToken is required", apperrors.MessageOf(err))
}
