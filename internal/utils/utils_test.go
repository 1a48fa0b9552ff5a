package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Minute)
	require.NoError(t, err)

	token, err := m.GenerateAccessToken(42, "a@example.com")
	require.NoError(t, err)

	identity, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), identity.UserID)
	assert.Equal(t, "a@example.com", identity.Email)
}

func TestTokenManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Minute)
	require.NoError(t, err)
	other, err := NewTokenManager("other-secret", time.Minute)
	require.NoError(t, err)

	token, err := other.GenerateAccessToken(1, "a@example.com")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.ParseAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, err = badSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.ParseAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRefreshToken(t *testing.T) {
	token, hash, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Len(t, hash, 64)
	assert.Equal(t, HashToken(token), hash)
	assert.NotEqual(t, token, hash)
}

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Test1234":     true,
		"short1A":      false,
		"alllower1":    false,
		"ALLUPPER1":    false,
		"NoDigitsHere": false,
	}
	for pw, want := range cases {
		assert.Equal(t, want, IsStrongPassword(pw), pw)
	}
}

func TestNewPageParams(t *testing.T) {
	p := NewPageParams(-1, 0, 9)
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 9, p.Size)

	p = NewPageParams(2, 10, 9)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 3, p.TotalPages(21))
	assert.Equal(t, 0, p.TotalPages(0))

	p = NewPageParams(0, 500, 20)
	assert.Equal(t, 20, p.Size)
}
