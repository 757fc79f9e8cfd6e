// services/auth/validator.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/models"
)

// Validator shape-checks the auth request payloads. Registration additionally
// checks phone/email uniqueness through the store before the structural
// checks run, so duplicates surface as a conflict rather than a field error.
type Validator struct {
	validate *validator.Validate
	store    AccountStore
}

func NewValidator(store AccountStore) *Validator {
	return &Validator{
		validate: validator.New(),
		store:    store,
	}
}

// ValidateLogin normalizes and checks login credentials.
func (v *Validator) ValidateLogin(req *models.LoginRequest) error {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := v.validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindInvalidInput, validationMessage(err))
	}
	return nil
}

// ValidateRegistration checks uniqueness first, then the field constraints.
func (v *Validator) ValidateRegistration(ctx context.Context, req *models.RegisterRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.PhoneNumber != "" {
		existing, err := v.store.FindByPhoneOrEmail(ctx, req.PhoneNumber)
		if err != nil {
			return apperrors.New(apperrors.KindStore, "Failed to check existing accounts")
		}
		if existing != nil {
			return apperrors.New(apperrors.KindConflict, "Account with the phone number already exists")
		}
	}

	if req.Email != "" {
		existing, err := v.store.FindByPhoneOrEmail(ctx, req.Email)
		if err != nil {
			return apperrors.New(apperrors.KindStore, "Failed to check existing accounts")
		}
		if existing != nil {
			return apperrors.New(apperrors.KindConflict, "Account with the email already exists")
		}
	}

	if err := v.validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindInvalidInput, validationMessage(err))
	}
	return nil
}

// ValidateRefreshToken checks the refresh request shape.
func (v *Validator) ValidateRefreshToken(req *models.RefreshTokenRequest) error {
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if err := v.validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindInvalidInput, validationMessage(err))
	}
	return nil
}

// ValidateSendPhoneCode checks the phone-code request shape.
func (v *Validator) ValidateSendPhoneCode(req *models.SendPhoneCodeRequest) error {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := v.validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindInvalidInput, validationMessage(err))
	}
	return nil
}

// ValidateRecoverPassword checks the password-recovery request shape.
func (v *Validator) ValidateRecoverPassword(req *models.RecoverPasswordRequest) error {
	req.VerificationToken = strings.TrimSpace(req.VerificationToken)
	if err := v.validate.Struct(req); err != nil {
		return apperrors.New(apperrors.KindInvalidInput, validationMessage(err))
	}
	return nil
}

// validationMessage turns the first field error into a human-readable
// message, mirroring the per-field messages clients already expect.
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "Invalid request"
	}

	fe := fieldErrors[0]
	field := lowerFirst(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "eqfield":
		return "passwordConfirmation must match password"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
