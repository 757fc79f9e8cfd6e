// services/auth/tokens_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(clock *fakeClock) *TokenService {
	return NewTokenService(TokenConfig{
		AccessSecret:             "access-secret",
		RefreshSecret:            "refresh-secret",
		AccessTokenLifetime:      60 * time.Second,
		RefreshTokenLifetime:     100 * time.Second,
		VerificationCodeLifetime: 300 * time.Second,
	}, clock.Now)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	token, err := ts.IssueAccessToken("64f000000000000000000001")
	require.NoError(t, err)

	claims, err := ts.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.AccountID)
	assert.False(t, claims.IsRefresh)
	assert.Equal(t, clock.Now().Unix(), claims.IssuedAt)
	assert.Equal(t, clock.Now().Add(60*time.Second).Unix(), claims.ExpiresAt)
}

func TestRefreshTokenIsTagged(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	token, err := ts.IssueRefreshToken("64f000000000000000000001")
	require.NoError(t, err)

	claims, err := ts.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsRefresh)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	token, err := ts.IssueAccessToken("64f000000000000000000001")
	require.NoError(t, err)

	// An access token must not verify against the refresh secret.
	_, err = ts.VerifyRefreshToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	_, err := ts.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	token, err := ts.IssueAccessToken("64f000000000000000000001")
	require.NoError(t, err)

	// Exactly at expiry the token is still accepted.
	clock.Advance(60 * time.Second)
	_, err = ts.VerifyAccessToken(token)
	assert.NoError(t, err)

	// One second past expiry it is not.
	clock.Advance(1 * time.Second)
	_, err = ts.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerificationTokenRequiresCode(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	token, err := ts.IssueVerificationToken("64f000000000000000000001", "123456")
	require.NoError(t, err)

	claims, err := ts.VerifyVerificationToken(token, "123456")
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.AccountID)

	_, err = ts.VerifyVerificationToken(token, "654321")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPruneRefreshTokensDropsExpiredOnly(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	expired, err := ts.IssueRefreshToken("64f000000000000000000001")
	require.NoError(t, err)

	clock.Advance(101 * time.Second)

	fresh, err := ts.IssueRefreshToken("64f000000000000000000001")
	require.NoError(t, err)

	kept := ts.PruneRefreshTokens([]string{expired, fresh, "garbage"})

	// The expired token goes; the valid token and the undecodable entry stay.
	assert.Equal(t, []string{fresh, "garbage"}, kept)
}

func TestPruneRefreshTokensDeduplicates(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	token, err := ts.IssueRefreshToken("64f000000000000000000001")
	require.NoError(t, err)

	kept := ts.PruneRefreshTokens([]string{token, token, token})
	assert.Equal(t, []string{token}, kept)
}

func TestPruneRefreshTokensIdempotent(t *testing.T) {
	clock := newFakeClock()
	ts := newTestTokenService(clock)

	a, err := ts.IssueRefreshToken("64f000000000000000000001")
	require.NoError(t, err)
	clock.Advance(1 * time.Second)
	b, err := ts.IssueRefreshToken("64f000000000000000000001")
	require.NoError(t, err)

	once := ts.PruneRefreshTokens([]string{a, b})
	twice := ts.PruneRefreshTokens(once)
	assert.Equal(t, once, twice)
}

func TestGenerateVerificationCodeRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, code, 0)
		assert.Less(t, code, 1000000)
	}
}
