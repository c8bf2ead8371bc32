package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrNoSigningSecret is returned when token issuance is attempted without a
// configured secret.
var ErrNoSigningSecret = errors.New("auth: signing secret not configured")

// ErrInvalidToken covers every verification failure: malformed encoding,
// signature mismatch and elapsed expiry. Callers must not branch on the
// sub-case (the distinction is log-only); errors.Is against this sentinel is
// the whole contract.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenManager issues and verifies the bearer tokens shared by customers and
// providers. Tokens are HS256 JWTs carrying only the subject id plus
// issued-at/expiry; there is no revocation list, so the configured TTL is the
// sole invalidation mechanism.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager with the given secret and TTL in minutes.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Issue signs a token for the subject with the configured TTL.
func (tm *TokenManager) Issue(subjectID string) (string, time.Time, error) {
	if len(tm.secret) == 0 {
		return "", time.Time{}, ErrNoSigningSecret
	}

	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry and returns the subject id. All failure
// modes collapse into ErrInvalidToken; the wrapped cause is for diagnostics
// only.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// TTL exposes the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
