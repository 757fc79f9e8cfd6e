// services/auth/session.go
package auth

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/config"
	"github.com/tukprojects/projects_backend/models"
)

// SessionManager orchestrates credential verification and the dual-token
// session lifecycle. All collaborators are injected so tests can substitute
// a fake store and control time.
type SessionManager struct {
	store           AccountStore
	tokens          *TokenService
	validator       *Validator
	mustVerifyPhone bool
	now             func() time.Time
	logger          *log.Logger
}

// NewSessionManager builds a session manager. Pass a nil clock for time.Now
// and a nil logger for the default logger.
func NewSessionManager(store AccountStore, tokens *TokenService, validator *Validator, mustVerifyPhone bool, clock func() time.Time, logger *log.Logger) *SessionManager {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SessionManager{
		store:           store,
		tokens:          tokens,
		validator:       validator,
		mustVerifyPhone: mustVerifyPhone,
		now:             clock,
		logger:          logger,
	}
}

// Login verifies phone/password credentials and issues a fresh access/refresh
// token pair. The stored refresh-token list is pruned before the new refresh
// token is appended, and lastLogin is updated. The returned account has its
// password hash, refresh tokens and authorization metadata stripped.
//
// Missing accounts and wrong passwords produce the same "Wrong credentials"
// message so the response does not reveal which factor failed.
func (sm *SessionManager) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	if err := sm.validator.ValidateLogin(req); err != nil {
		return nil, err
	}

	account, err := sm.store.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to look up account")
	}
	if account == nil {
		return nil, apperrors.New(apperrors.KindInvalidCredentials, "Wrong credentials")
	}

	if sm.mustVerifyPhone && !account.IsPhoneVerified {
		return nil, apperrors.New(apperrors.KindForbidden, "Please verify your phone number to login")
	}

	if account.Status == models.StatusDisabled {
		return nil, apperrors.New(apperrors.KindForbidden, "Your account has been disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.New(apperrors.KindInvalidCredentials, "Wrong credentials")
	}

	accessToken, err := sm.tokens.IssueAccessToken(account.ID.Hex())
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to generate tokens")
	}
	refreshToken, err := sm.tokens.IssueRefreshToken(account.ID.Hex())
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to generate tokens")
	}

	account.RefreshTokens = sm.tokens.PruneRefreshTokens(account.RefreshTokens)
	account.RefreshTokens = append(account.RefreshTokens, refreshToken)

	now := sm.now()
	account.LastLogin = now
	account.UpdatedAt = now

	if err := sm.store.Save(ctx, account); err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to update account")
	}

	sm.logger.Printf("account %s logged in", account.ID.Hex())

	account.StripSensitive()

	return &models.LoginResult{
		Tokens: models.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		Account: account,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// submitted token must verify against the refresh secret AND be literally
// present in the account's stored list: a pruned token is rejected even when
// its signature still checks out. Once more than half the refresh token's
// life has elapsed it is replaced, the stored list rewritten and persisted;
// otherwise the original token is echoed back with no write.
func (sm *SessionManager) RefreshToken(ctx context.Context, req *models.RefreshTokenRequest) (*models.TokenPair, error) {
	if err := sm.validator.ValidateRefreshToken(req); err != nil {
		return nil, err
	}

	claims, err := sm.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid or expired refresh token")
	}

	accountID, err := primitive.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid or expired refresh token")
	}

	account, err := sm.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to look up account")
	}
	if account == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "User account not found")
	}

	stored := false
	for _, token := range account.RefreshTokens {
		if token == req.RefreshToken {
			stored = true
			break
		}
	}
	if !stored {
		return nil, apperrors.New(apperrors.KindInvalidCredentials, "Invalid refresh token, please login")
	}

	accessToken, err := sm.tokens.IssueAccessToken(claims.AccountID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to generate tokens")
	}

	remaining := float64(claims.ExpiresAt - sm.now().Unix())
	total := float64(claims.ExpiresAt - claims.IssuedAt)
	if remaining < 0.5*total {
		rotated, err := sm.tokens.IssueRefreshToken(claims.AccountID)
		if err != nil {
			return nil, apperrors.New(apperrors.KindStore, "Failed to generate tokens")
		}

		kept := make([]string, 0, len(account.RefreshTokens))
		for _, token := range account.RefreshTokens {
			if token != req.RefreshToken {
				kept = append(kept, token)
			}
		}
		account.RefreshTokens = sm.tokens.PruneRefreshTokens(kept)
		account.RefreshTokens = append(account.RefreshTokens, rotated)
		account.UpdatedAt = sm.now()

		if err := sm.store.Save(ctx, account); err != nil {
			return nil, apperrors.New(apperrors.KindStore, "Failed to update account")
		}

		sm.logger.Printf("rotated refresh token for account %s", account.ID.Hex())

		return &models.TokenPair{AccessToken: accessToken, RefreshToken: rotated}, nil
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: req.RefreshToken}, nil
}

// Register validates the registration details (including phone/email
// uniqueness), hashes the password and creates the account with the normal
// permission tier. The result carries only the public identity fields.
func (sm *SessionManager) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error) {
	if err := sm.validator.ValidateRegistration(ctx, req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to hash password")
	}

	now := sm.now()
	account := &models.Account{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		Password:      string(hashedPassword),
		Biography:     req.Biography,
		Role:          models.RoleNormal,
		AccessLevel:   config.NormalPermissions.AccessLevel,
		Permissions:   config.NormalPermissions.Permissions,
		RefreshTokens: []string{},
		Status:        models.StatusActive,
		LastLogin:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := sm.store.Save(ctx, account); err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to create account")
	}

	sm.logger.Printf("registered account %s", account.ID.Hex())

	return &models.RegisterResult{
		ID:          account.ID,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		PhoneNumber: account.PhoneNumber,
		Email:       account.Email,
		Biography:   account.Biography,
		Role:        account.Role,
	}, nil
}
