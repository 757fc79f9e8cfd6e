// controllers/auth_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/tukprojects/projects_backend/models"
	"github.com/tukprojects/projects_backend/services/auth"
	"github.com/tukprojects/projects_backend/utils"
)

// AuthController is the HTTP boundary of the session core. All behavior
// lives in the injected services; handlers only bind, delegate and convert
// errors into the response envelope.
type AuthController struct {
	sessions     *auth.SessionManager
	verification *auth.VerificationFlow
	redisClient  *redis.Client
	logger       *log.Logger
}

func NewAuthController(sessions *auth.SessionManager, verification *auth.VerificationFlow, redisClient *redis.Client) *AuthController {
	return &AuthController{
		sessions:     sessions,
		verification: verification,
		redisClient:  redisClient,
		logger:       log.New(log.Writer(), "auth: ", log.LstdFlags),
	}
}

// Register creates a new account from the registration details.
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	result, err := ac.sessions.Register(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Account created successfully", result)
}

// Login verifies credentials and returns an access/refresh token pair.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	result, err := ac.sessions.Login(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Login successful", result)
}

// RefreshToken exchanges a refresh token for a new access token, rotating
// the refresh token once past half its lifetime.
func (ac *AuthController) RefreshToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	result, err := ac.sessions.RefreshToken(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Token refreshed", result)
}

// SendPhoneCode starts the password-recovery flow by texting a one-time
// code to a registered phone number.
func (ac *AuthController) SendPhoneCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SendPhoneCodeRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	if phone, err := utils.SanitizePhone(req.PhoneNumber); err == nil {
		req.PhoneNumber = phone
	}

	result, err := ac.verification.SendPhoneCode(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Verification code sent", result)
}

// RecoverPassword completes the recovery flow with the code, the
// verification token and the new password.
func (ac *AuthController) RecoverPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RecoverPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	if ac.redisClient != nil {
		if err := utils.ValidateRecoveryAttempts(ctx, ac.redisClient, c.RealIP()); err != nil {
			if errors.Is(err, utils.ErrTooManyAttempts) {
				return c.JSON(http.StatusTooManyRequests, models.Response{
					Status:  http.StatusTooManyRequests,
					Message: "Too many recovery attempts. Please try again later.",
				})
			}
			// Counting failures must not block recovery
			ac.logger.Printf("recovery attempt check failed: %v", err)
		}
	}

	if err := ac.verification.RecoverPassword(ctx, &req); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Password changed successfully", nil)
}
