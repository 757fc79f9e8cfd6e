// controllers/user_controller.go
package controllers

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/middleware"
	"github.com/tukprojects/projects_backend/models"
	"github.com/tukprojects/projects_backend/services/auth"
)

// UserController serves the authenticated account's own profile.
type UserController struct {
	store  auth.AccountStore
	logger *log.Logger
}

func NewUserController(store auth.AccountStore, logger *log.Logger) *UserController {
	return &UserController{store: store, logger: logger}
}

// GetProfile returns the caller's account with sensitive fields removed.
func (uc *UserController) GetProfile(c echo.Context) error {
	account := middleware.CurrentAccount(c)

	profile := *account
	profile.StripSensitive()

	return respondOK(c, "Profile fetched successfully", &profile)
}

// GetPublicProfile returns another account's public identity: name,
// biography and picture only.
func (uc *UserController) GetPublicProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accountID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return respondBadRequest(c, "Invalid user id")
	}

	account, err := uc.store.FindByID(ctx, accountID)
	if err != nil {
		return respondError(c, apperrors.New(apperrors.KindStore, "Failed to look up account"))
	}
	if account == nil {
		return respondError(c, apperrors.New(apperrors.KindNotFound, "User account not found"))
	}

	return respondOK(c, "Profile fetched successfully", map[string]interface{}{
		"_id":             account.ID,
		"firstName":       account.FirstName,
		"lastName":        account.LastName,
		"biography":       account.Biography,
		"profileImageURL": account.ProfileImageURL,
	})
}

// UpdateProfile replaces the caller's editable profile fields.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	account.FirstName = req.FirstName
	account.LastName = req.LastName
	account.Biography = req.Biography
	account.ProfileImageURL = req.ProfileImageURL
	account.UpdatedAt = time.Now()

	if err := uc.store.Save(ctx, account); err != nil {
		uc.logger.Printf("update profile: save account %s: %v", account.ID.Hex(), err)
		return respondError(c, apperrors.New(apperrors.KindStore, "Failed to update profile"))
	}

	profile := *account
	profile.StripSensitive()

	return respondOK(c, "Profile updated successfully", &profile)
}

// ChangePassword rotates the caller's password after re-checking the
// current one.
func (uc *UserController) ChangePassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.CurrentPassword)); err != nil {
		return respondError(c, apperrors.New(apperrors.KindInvalidCredentials, "Wrong credentials"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Printf("change password: hash: %v", err)
		return respondError(c, apperrors.New(apperrors.KindStore, "Failed to change password"))
	}

	account.Password = string(hash)
	account.ForcePasswordChange = false
	account.UpdatedAt = time.Now()

	if err := uc.store.Save(ctx, account); err != nil {
		uc.logger.Printf("change password: save account %s: %v", account.ID.Hex(), err)
		return respondError(c, apperrors.New(apperrors.KindStore, "Failed to change password"))
	}

	return respondOK(c, "Password changed successfully", nil)
}
