package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tuannm151/sweetshop/internal/config"
)

// ErrInvalidToken covers every verification failure: malformed token, bad
// signature, expired, or missing claims. Callers must not distinguish them.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the fixed shape of an access token payload. Subject carries the
// username; UserID the numeric id. Expiry is the only invalidation
// mechanism, there is no server-side revocation.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies stateless bearer tokens.
type TokenService struct {
	secretKey []byte
	method    jwt.SigningMethod
	tokenTTL  time.Duration
}

// NewTokenService creates a token service from the auth configuration.
// A missing secret key is a startup error, never a per-request one.
func NewTokenService(cfg config.Auth) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("auth secret key is empty")
	}

	var method jwt.SigningMethod
	switch cfg.Algorithm {
	case config.SigningAlgHS256:
		method = jwt.SigningMethodHS256
	case config.SigningAlgHS384:
		method = jwt.SigningMethodHS384
	case config.SigningAlgHS512:
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm: %s", cfg.Algorithm)
	}

	return &TokenService{
		secretKey: []byte(cfg.SecretKey),
		method:    method,
		tokenTTL:  cfg.TokenTTL,
	}, nil
}

// Issue mints a signed token for the user with an absolute expiry of now
// plus the configured TTL.
func (s *TokenService) Issue(username string, userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// Verify validates the signature and expiry of a token and returns its
// claims. All failures collapse to ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (any, error) { return s.secretKey, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.Subject == "" || claims.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
