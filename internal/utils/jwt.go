package utils

import (
	"errors"
	"strconv"
	"time"

	"cascade/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "cascade-api"

var (
	ErrMissingSecret = errors.New("JWT secret not configured")
	ErrInvalidToken  = errors.New("invalid token claims")
)

// JWTManager signs and verifies HS256 session tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given claims. Registered claims are filled
// in here so callers only set the user fields.
func (m *JWTManager) Issue(claims *models.UserClaims) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	signed := *claims
	signed.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signed)
	return token.SignedString(m.secret)
}

// Parse parses and validates a JWT token string.
func (m *JWTManager) Parse(tokenStr string) (*models.UserClaims, error) {
	if len(m.secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
