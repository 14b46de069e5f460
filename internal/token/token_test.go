package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/token"
)

var secret = []byte("test-secret")

func TestSignAndParse(t *testing.T) {
	u := domain.User{
		ID:       3,
		Username: "amin",
		Email:    "amin@example.com",
		Role:     domain.RoleUser,
	}

	tok, err := token.Sign(secret, u, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Raw)
	assert.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	claims, err := token.Parse(secret, tok.Raw)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "amin", claims.Username)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, tok.ID, claims.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := token.Sign(secret, domain.User{ID: 3}, time.Hour)
	require.NoError(t, err)

	_, err = token.Parse([]byte("other-secret"), tok.Raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tok, err := token.Sign(secret, domain.User{ID: 3}, -time.Minute)
	require.NoError(t, err)

	_, err = token.Parse(secret, tok.Raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := token.Parse(secret, "not.a.token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEachTokenGetsAFreshID(t *testing.T) {
	a, err := token.Sign(secret, domain.User{ID: 3}, time.Hour)
	require.NoError(t, err)
	b, err := token.Sign(secret, domain.User{ID: 3}, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
