// Package token signs and parses the JWTs used for API authentication.
// Shared by the user usecase (issuing) and the auth middleware (verifying).
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/qalamhq/qalam/domain"
)

// Claims is the payload carried by every issued token.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues an HS256 token for the user. The jti is returned through
// domain.AuthToken so logout can revoke exactly this token.
func Sign(secret []byte, u domain.User, ttl time.Duration) (domain.AuthToken, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return domain.AuthToken{}, err
	}
	return domain.AuthToken{
		Raw:       raw,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Parse verifies the signature and expiry of a raw token and returns its
// claims. Any failure maps to domain.ErrUnauthorized.
func Parse(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
