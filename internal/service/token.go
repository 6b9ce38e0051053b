package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/aurora-digital/identity/config"
	"github.com/aurora-digital/identity/internal/constants"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload of every signed token. The Kind claim keeps
// access, refresh and one-time tokens from being swapped for each other.
type TokenClaims struct {
	Kind model.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user id.
func (c *TokenClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return uint(id), nil
}

// TokenService issues and verifies HMAC-signed JWTs.
type TokenService struct {
	secret []byte
	issuer string
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// NewTokenID returns a fresh random token identifier (JTI), hex-encoded.
func NewTokenID() (string, error) {
	buf := make([]byte, constants.TokenIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue signs a token for the user. Access and refresh tokens of one
// session share the same tokenID so revoking the pair is a single check.
func (s *TokenService) Issue(userID uint, kind model.TokenKind, tokenID string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := TokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    s.issuer,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a token, enforcing signature, expiry,
// issuer and the expected kind. Any failure collapses to ErrInvalidToken
// so callers never leak why a token was rejected.
func (s *TokenService) Verify(tokenString string, expected model.TokenKind) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.Kind != expected {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken,
			fmt.Errorf("token kind %q, expected %q", claims.Kind, expected))
	}
	if claims.ID == "" {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, fmt.Errorf("missing token id"))
	}

	return claims, nil
}
