// middleware/auth_middleware.go
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/models"
	"github.com/tukprojects/projects_backend/services/auth"
)

const accountContextKey = "account"

// AuthMiddleware guards routes with the stateless access token: it verifies
// the bearer token's signature and expiry, then confirms the account still
// exists before admitting the request.
type AuthMiddleware struct {
	tokens *auth.TokenService
	store  auth.AccountStore
}

func NewAuthMiddleware(tokens *auth.TokenService, store auth.AccountStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, store: store}
}

// RequireAuth rejects requests without a valid access token.
func (am *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := am.authenticate(c)
			if err != nil {
				status := apperrors.StatusOf(err)
				return c.JSON(status, models.Response{
					Status:  status,
					Message: apperrors.MessageOf(err),
				})
			}
			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// OptionalAuth authenticates when a token is present but lets anonymous
// requests through. Used on public reads that adapt output for the owner.
func (am *AuthMiddleware) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) != "" {
				account, err := am.authenticate(c)
				if err != nil {
					c.Logger().Warnf("optional authentication failed: %v", err)
				} else {
					c.Set(accountContextKey, account)
				}
			}
			return next(c)
		}
	}
}

func (am *AuthMiddleware) authenticate(c echo.Context) (*models.Account, error) {
	bearerToken := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if bearerToken == "" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "You must provide an access token")
	}

	if !strings.HasPrefix(bearerToken, "Bearer ") {
		return nil, apperrors.New(apperrors.KindInvalidInput, "Wrong configuration of the access token")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(bearerToken, "Bearer "))

	claims, err := am.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid access token")
	}

	accountID, err := primitive.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid access token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account, err := am.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to look up account")
	}
	if account == nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid access token")
	}

	return account, nil
}

// CurrentAccount returns the authenticated account set by RequireAuth, or
// nil for anonymous requests under OptionalAuth.
func CurrentAccount(c echo.Context) *models.Account {
	account, _ := c.Get(accountContextKey).(*models.Account)
	return account
}
