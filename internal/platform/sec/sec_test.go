// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("Str0ngPass")
	require.NoError(t, err)

	assert.NotEqual(t, "Str0ngPass", hash)
	assert.True(t, sec.CheckPasswordHash("Str0ngPass", hash))
	assert.False(t, sec.CheckPasswordHash("str0ngpass", hash))
	assert.False(t, sec.CheckPasswordHash("Str0ngPass", "not-a-bcrypt-hash"))
}

func TestTokenService_HMACRoundTrip(t *testing.T) {
	tokens, err := sec.NewHMACTokenService("test-secret", "bookshelf")
	require.NoError(t, err)

	signed, issued, err := tokens.GenerateAccessToken("42", "reader", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := tokens.VerifyToken(signed)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, "bookshelf", claims.Issuer)
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	tokens, err := sec.NewHMACTokenService("test-secret", "bookshelf")
	require.NoError(t, err)

	_, first, err := tokens.GenerateAccessToken("1", "a", time.Minute)
	require.NoError(t, err)
	_, second, err := tokens.GenerateAccessToken("1", "a", time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	tokens, err := sec.NewHMACTokenService("test-secret", "bookshelf")
	require.NoError(t, err)

	signed, _, err := tokens.GenerateAccessToken("42", "reader", -time.Minute)
	require.NoError(t, err)

	_, err = tokens.VerifyToken(signed)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	issuer, err := sec.NewHMACTokenService("secret-a", "bookshelf")
	require.NoError(t, err)
	verifier, err := sec.NewHMACTokenService("secret-b", "bookshelf")
	require.NoError(t, err)

	signed, _, err := issuer.GenerateAccessToken("42", "reader", time.Minute)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(signed)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	tokens, err := sec.NewHMACTokenService("test-secret", "bookshelf")
	require.NoError(t, err)

	_, err = tokens.VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestNewHMACTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewHMACTokenService("", "bookshelf")
	assert.Error(t, err)
}

func TestTokenService_RejectsMissingTokenID(t *testing.T) {
	tokens, err := sec.NewHMACTokenService("test-secret", "bookshelf")
	require.NoError(t, err)

	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tokens.VerifyToken(signed)
	assert.Error(t, err)
}

func TestBurnPasswordCheck(t *testing.T) {
	assert.NotPanics(t, func() {
		sec.BurnPasswordCheck("anything")
		sec.BurnPasswordCheck("anything")
	})
}
