// services/auth/tokens.go
package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenInvalid covers everything else: bad signature, malformed
	// payload, wrong signing method.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the payload carried by access, refresh and phone-verification
// tokens. Access and verification tokens carry the account id only; refresh
// tokens are additionally tagged with isRefresh.
type Claims struct {
	AccountID string `json:"_id"`
	IsRefresh bool   `json:"isRefresh,omitempty"`
	jwt.StandardClaims
}

// Valid is intentionally a no-op. Expiry is checked in TokenService.Verify
// against the injected clock so tests can control time.
func (c Claims) Valid() error {
	return nil
}

// TokenConfig carries the signing secrets and lifetimes for the three token
// kinds. Verification tokens have no secret here: they are signed with the
// generated one-time code itself.
type TokenConfig struct {
	AccessSecret             string
	RefreshSecret            string
	AccessTokenLifetime      time.Duration
	RefreshTokenLifetime     time.Duration
	VerificationCodeLifetime time.Duration
}

// TokenService mints and verifies the signed HS256 bearer tokens. Access
// tokens are stateless; refresh tokens are the only server-tracked artifact,
// via the account's refreshTokens list.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenService builds a token service. Pass a nil clock to use time.Now.
func NewTokenService(cfg TokenConfig, clock func() time.Time) *TokenService {
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{cfg: cfg, now: clock}
}

// IssueAccessToken mints a short-lived access token for the account.
func (ts *TokenService) IssueAccessToken(accountID string) (string, error) {
	return ts.issue(accountID, false, ts.cfg.AccessSecret, ts.cfg.AccessTokenLifetime)
}

// IssueRefreshToken mints a refresh token tagged isRefresh:true.
func (ts *TokenService) IssueRefreshToken(accountID string) (string, error) {
	return ts.issue(accountID, true, ts.cfg.RefreshSecret, ts.cfg.RefreshTokenLifetime)
}

// IssueVerificationToken mints a phone-verification token signed with the
// one-time code itself. Possessing the code is therefore required both to
// construct and to verify the token.
func (ts *TokenService) IssueVerificationToken(accountID, code string) (string, error) {
	return ts.issue(accountID, false, code, ts.cfg.VerificationCodeLifetime)
}

func (ts *TokenService) issue(accountID string, isRefresh bool, secret string, lifetime time.Duration) (string, error) {
	now := ts.now()
	claims := &Claims{
		AccountID: accountID,
		IsRefresh: isRefresh,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(lifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks the signature and expiry of a token against the given secret.
// Expired tokens return ErrTokenExpired; any other failure returns
// ErrTokenInvalid. Callers must not forward the distinction to clients.
func (ts *TokenService) Verify(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	if claims.ExpiresAt > 0 && ts.now().Unix() > claims.ExpiresAt {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// VerifyAccessToken verifies a token against the access secret.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return ts.Verify(tokenString, ts.cfg.AccessSecret)
}

// VerifyRefreshToken verifies a token against the refresh secret.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return ts.Verify(tokenString, ts.cfg.RefreshSecret)
}

// VerifyVerificationToken verifies a phone-verification token using the
// submitted code as the signing secret.
func (ts *TokenService) VerifyVerificationToken(tokenString, code string) (*Claims, error) {
	return ts.Verify(tokenString, code)
}

// PruneRefreshTokens filters an account's stored refresh tokens down to the
// ones worth keeping. Expired tokens are dropped; tokens failing verification
// for any other reason are retained rather than silently discarded, since the
// membership check at refresh time already rejects them. Each surviving token
// appears exactly once.
func (ts *TokenService) PruneRefreshTokens(tokens []string) []string {
	valid := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		if _, err := ts.Verify(token, ts.cfg.RefreshSecret); errors.Is(err, ErrTokenExpired) {
			continue
		}
		valid = append(valid, token)
	}
	return valid
}

// GenerateVerificationCode returns a numeric one-time code uniformly random
// in [0, 1000000). Zero-padding is left to the SMS transport.
func GenerateVerificationCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
