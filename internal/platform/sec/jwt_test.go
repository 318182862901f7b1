// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/internal/platform/sec"
)

const testIssuer = "linkgrove.app"

var testSecret = []byte("unit-test-signing-secret")

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, testIssuer)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that a freshly issued access token
carries the exact identity claims it was minted with.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	tokenString, err := service.GenerateAccessToken("user-1", "a@b.com", "user", false, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := service.VerifyAccessToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.False(t, claims.IsPremium)
	assert.Equal(t, sec.TokenTypeAccess, claims.Type)
	assert.Equal(t, testIssuer, claims.Issuer)

	// 15 minute validity window
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 14*time.Minute)
	assert.LessOrEqual(t, remaining, 15*time.Minute)
}

/*
TestTokenService_TamperedSignature ensures that flipping any byte of the
signature invalidates the token.
*/
func TestTokenService_TamperedSignature(t *testing.T) {
	service := newTokenService(t)

	tokenString, err := service.GenerateAccessToken("user-1", "a@b.com", "user", false, 15*time.Minute)
	require.NoError(t, err)

	// Flip the final signature byte.
	tampered := []byte(tokenString)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = service.VerifyAccessToken(string(tampered))
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Expired verifies that an expired token is rejected.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTokenService(t)

	tokenString, err := service.GenerateAccessToken("user-1", "a@b.com", "user", false, -1*time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(tokenString)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_WrongType rejects a syntactically valid signed token whose
type claim is not "access".
*/
func TestTokenService_WrongType(t *testing.T) {
	service := newTokenService(t)

	// Hand-craft a signed token with type=refresh using the same secret.
	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
		UserID: "user-1",
		Type:   "refresh",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_WrongSecret rejects tokens signed under a different secret.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	service := newTokenService(t)

	other, err := sec.NewTokenService([]byte("a-completely-different-secret"), testIssuer)
	require.NoError(t, err)

	tokenString, err := other.GenerateAccessToken("user-1", "a@b.com", "user", false, 15*time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(tokenString)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestGenerateSecureToken checks opaque identifier generation.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 64) // 32 bytes, hex encoded

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestHashPassword_RoundTrip exercises bcrypt hashing and verification.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r$ecret", hash)

	assert.True(t, sec.CheckPasswordHash("Sup3r$ecret", hash))
	assert.False(t, sec.CheckPasswordHash("sup3r$ecret", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}
