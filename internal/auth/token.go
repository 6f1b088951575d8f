package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid indicates the presented credential token could not be verified.
	ErrTokenInvalid = errors.New("credential token invalid")
	// ErrTokenExpired indicates the presented credential token is past its expiry.
	ErrTokenExpired = errors.New("credential token expired")
)

// TokenService issues and verifies the signed credential tokens that prove a
// user's identity for a bounded window. Tokens are self-contained; logout is
// performed by clearing the cookie, there is no server-side revocation list.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

// NewTokenService constructs a TokenService signing with the provided secret.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a signed token carrying the user id as its subject claim.
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("auth: user id must be provided")
	}

	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		Issuer:    "clipshare",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the user id it was issued to.
func (s *TokenService) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrTokenInvalid
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// TTL reports the configured token lifetime. Handlers use it to bound the
// session cookie's max age.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
