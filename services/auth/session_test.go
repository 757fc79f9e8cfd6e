// services/auth/session_test.go
package auth

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/models"
)

func newTestSessionManager(t *testing.T, mustVerifyPhone bool) (*SessionManager, *fakeStore, *fakeClock, *TokenService) {
	t.Helper()
	clock := newFakeClock()
	store := newFakeStore()
	ts := newTestTokenService(clock)
	validator := NewValidator(store)
	logger := log.New(io.Discard, "", 0)
	sm := NewSessionManager(store, ts, validator, mustVerifyPhone, clock.Now, logger)
	return sm, store, clock, ts
}

func seedAccount(t *testing.T, store *fakeStore, phone, password string) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	account := &models.Account{
		FirstName:       "Asha",
		LastName:        "Mwangi",
		PhoneNumber:     phone,
		Password:        string(hash),
		Role:            models.RoleNormal,
		Status:          models.StatusActive,
		IsPhoneVerified: true,
		RefreshTokens:   []string{},
	}
	require.NoError(t, store.Save(context.Background(), account))
	return account
}

func TestLoginSuccess(t *testing.T) {
	sm, store, clock, ts := newTestSessionManager(t, false)
	seeded := seedAccount(t, store, "254712345678", "strongpassword")

	result, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.NoError(t, err)

	accessClaims, err := ts.VerifyAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID.Hex(), accessClaims.AccountID)

	refreshClaims, err := ts.VerifyRefreshToken(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefresh)

	// The returned account has its sensitive fields stripped.
	assert.Empty(t, result.Account.Password)
	assert.Empty(t, result.Account.RefreshTokens)
	assert.Zero(t, result.Account.AccessLevel)
	assert.Empty(t, result.Account.Permissions)

	// The stored account tracks the new refresh token and the login time.
	stored := store.mustGet(seeded.ID)
	assert.Equal(t, []string{result.Tokens.RefreshToken}, stored.RefreshTokens)
	assert.Equal(t, clock.Now(), stored.LastLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	sm, store, _, _ := newTestSessionManager(t, false)
	seedAccount(t, store, "254712345678", "strongpassword")

	_, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "wrongpassword",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
	assert.Equal(t, "Wrong credentials", apperrors.MessageOf(err))
}

func TestLoginUnknownPhone(t *testing.T) {
	sm, _, _, _ := newTestSessionManager(t, false)

	_, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254700000000",
		Password:    "whateverpass",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
	// Same message as a wrong password: the caller cannot tell which failed.
	assert.Equal(t, "Wrong credentials", apperrors.MessageOf(err))
}

func TestLoginDisabledAccount(t *testing.T) {
	sm, store, _, _ := newTestSessionManager(t, false)
	account := seedAccount(t, store, "254712345678", "strongpassword")
	account.Status = models.StatusDisabled
	require.NoError(t, store.Save(context.Background(), account))

	_, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, "Your account has been disabled", apperrors.MessageOf(err))
}

func TestLoginRequiresVerifiedPhone(t *testing.T) {
	sm, store, _, _ := newTestSessionManager(t, true)
	account := seedAccount(t, store, "254712345678", "strongpassword")
	account.IsPhoneVerified = false
	require.NoError(t, store.Save(context.Background(), account))

	_, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	account.IsPhoneVerified = true
	require.NoError(t, store.Save(context.Background(), account))

	_, err = sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	assert.NoError(t, err)
}

func TestLoginPrunesExpiredRefreshTokens(t *testing.T) {
	sm, store, clock, ts := newTestSessionManager(t, false)
	account := seedAccount(t, store, "254712345678", "strongpassword")

	expired, err := ts.IssueRefreshToken(account.ID.Hex())
	require.NoError(t, err)
	account.RefreshTokens = []string{expired}
	require.NoError(t, store.Save(context.Background(), account))

	clock.Advance(101 * time.Second)

	result, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.NoError(t, err)

	stored := store.mustGet(account.ID)
	assert.Equal(t, []string{result.Tokens.RefreshToken}, stored.RefreshTokens)
}

func TestRefreshEarlyEchoesOriginalToken(t *testing.T) {
	sm, store, clock, _ := newTestSessionManager(t, false)
	account := seedAccount(t, store, "254712345678", "strongpassword")

	result, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.NoError(t, err)

	savesBefore := store.saveCount()

	// Refresh lifetime is 100s; at 49s elapsed more than half remains.
	clock.Advance(49 * time.Second)

	pair, err := sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: result.Tokens.RefreshToken,
	})
	require.NoError(t, err)

	assert.Equal(t, result.Tokens.RefreshToken, pair.RefreshToken)
	assert.NotEqual(t, result.Tokens.AccessToken, pair.AccessToken)

	// No rotation means no write.
	assert.Equal(t, savesBefore, store.saveCount())
	stored := store.mustGet(account.ID)
	assert.Equal(t, []string{result.Tokens.RefreshToken}, stored.RefreshTokens)
}

func TestRefreshAtExactHalfLifeDoesNotRotate(t *testing.T) {
	sm, store, clock, _ := newTestSessionManager(t, false)
	seedAccount(t, store, "254712345678", "strongpassword")

	result, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.NoError(t, err)

	clock.Advance(50 * time.Second)

	pair, err := sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: result.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, result.Tokens.RefreshToken, pair.RefreshToken)
}

func TestRefreshLateRotatesToken(t *testing.T) {
	sm, store, clock, ts := newTestSessionManager(t, false)
	account := seedAccount(t, store, "254712345678", "strongpassword")

	result, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.NoError(t, err)

	clock.Advance(60 * time.Second)

	pair, err := sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: result.Tokens.RefreshToken,
	})
	require.NoError(t, err)

	assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)

	claims, err := ts.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID.Hex(), claims.AccountID)

	// The submitted token is gone from the store; the replacement is tracked.
	stored := store.mustGet(account.ID)
	assert.NotContains(t, stored.RefreshTokens, result.Tokens.RefreshToken)
	assert.Contains(t, stored.RefreshTokens, pair.RefreshToken)

	// The rotated-out token is now rejected.
	_, err = sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: result.Tokens.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
}

func TestRefreshRejectsUntrackedToken(t *testing.T) {
	sm, store, _, ts := newTestSessionManager(t, false)
	account := seedAccount(t, store, "254712345678", "strongpassword")

	// Validly signed but never stored on the account.
	stray, err := ts.IssueRefreshToken(account.ID.Hex())
	require.NoError(t, err)

	_, err = sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: stray,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
	assert.Equal(t, "Invalid refresh token, please login", apperrors.MessageOf(err))
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	sm, store, clock, _ := newTestSessionManager(t, false)
	seedAccount(t, store, "254712345678", "strongpassword")

	result, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254712345678",
		Password:    "strongpassword",
	})
	require.NoError(t, err)

	clock.Advance(101 * time.Second)

	_, err = sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: result.Tokens.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	assert.Equal(t, "Invalid or expired refresh token", apperrors.MessageOf(err))
}

func TestRefreshRejectsGarbage(t *testing.T) {
	sm, _, _, _ := newTestSessionManager(t, false)

	_, err := sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: "garbage",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestRefreshUnknownAccount(t *testing.T) {
	sm, _, _, ts := newTestSessionManager(t, false)

	token, err := ts.IssueRefreshToken(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	_, err = sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: token,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRegisterSuccess(t *testing.T) {
	sm, store, _, _ := newTestSessionManager(t, false)

	result, err := sm.Register(context.Background(), &models.RegisterRequest{
		FirstName:            "Brian",
		LastName:             "Otieno",
		PhoneNumber:          "254712345678",
		Email:                "brian@example.com",
		Password:             "strongpassword",
		PasswordConfirmation: "strongpassword",
	})
	require.NoError(t, err)

	assert.False(t, result.ID.IsZero())
	assert.Equal(t, "Brian", result.FirstName)
	assert.Equal(t, models.RoleNormal, result.Role)

	stored := store.mustGet(result.ID)
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.NotEqual(t, "strongpassword", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("strongpassword")))
	assert.Equal(t, 5, stored.AccessLevel)
	assert.Contains(t, stored.Permissions, "CREATE_PROJECT")
	assert.Empty(t, stored.RefreshTokens)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	sm, store, _, _ := newTestSessionManager(t, false)
	seedAccount(t, store, "254712345678", "strongpassword")

	_, err := sm.Register(context.Background(), &models.RegisterRequest{
		FirstName:            "Brian",
		LastName:             "Otieno",
		PhoneNumber:          "254712345678",
		Password:             "strongpassword",
		PasswordConfirmation: "strongpassword",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "Account with the phone number already exists", apperrors.MessageOf(err))
}

func TestRegisterPasswordMismatch(t *testing.T) {
	sm, _, _, _ := newTestSessionManager(t, false)

	_, err := sm.Register(context.Background(), &models.RegisterRequest{
		FirstName:            "Brian",
		LastName:             "Otieno",
		PhoneNumber:          "254712345678",
		Password:             "strongpassword",
		PasswordConfirmation: "differentpassword",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestRegisterLoginRefreshScenario(t *testing.T) {
	sm, _, clock, _ := newTestSessionManager(t, false)

	registered, err := sm.Register(context.Background(), &models.RegisterRequest{
		FirstName:            "Chiku",
		LastName:             "Abdalla",
		PhoneNumber:          "254798765432",
		Password:             "strongpassword",
		PasswordConfirmation: "strongpassword",
	})
	require.NoError(t, err)

	clock.Advance(1 * time.Second)

	login, err := sm.Login(context.Background(), &models.LoginRequest{
		PhoneNumber: "254798765432",
		Password:    "strongpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, login.Account.ID)

	clock.Advance(60 * time.Second)

	pair, err := sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: login.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)

	// The rotated token keeps working on the next refresh.
	clock.Advance(10 * time.Second)
	_, err = sm.RefreshToken(context.Background(), &models.RefreshTokenRequest{
		RefreshToken: pair.RefreshToken,
	})
	assert.NoError(t, err)
}
