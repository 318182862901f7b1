// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenProvider] interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeAccess is the mandatory "type" claim value for access tokens.
//
// Refresh tokens are opaque server-tracked identifiers, never JWTs, so a
// signed token with any other type claim must be rejected by verification.
const TokenTypeAccess = "access"

// ErrInvalidToken is returned when a token fails signature, expiry, or
// type-claim verification. Callers must not distinguish the failure modes
// to the client.
var ErrInvalidToken = errors.New("sec: invalid token")

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding identity and entitlement data directly inside the JWT, the
// authentication middleware can reconstruct the active user context WITHOUT
// querying the database on every single API request. Revocability is layered
// on top via the Redis session marker — the claims stay stateless, the
// liveness check stays centralized.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsPremium bool   `json:"isPremium"`
	Type      string `json:"type"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// # Signing Scheme
//
// Tokens are signed with a single process-wide secret injected at startup.
// The secret is immutable for the process lifetime; no runtime rotation.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from the shared signing secret.
func NewTokenService(secret []byte, issuer string) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret: secret,
		issuer: issuer,
	}, nil
}

// GenerateAccessToken creates a new signed JWT access token for a user.
//
// # Parameters
//   - userID: The ID of the account.
//   - email: The account email embedded for downstream handlers.
//   - role: The role of the account.
//   - isPremium: The premium entitlement flag.
//   - timeToLive: The duration before the token expires.
//
// # Returns
//   - A signed JWT string, or an error if signing fails.
func (service *TokenService) GenerateAccessToken(userID, email, role string, isPremium bool, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:    userID,
		Email:     email,
		Role:      role,
		IsPremium: isPremium,
		Type:      TokenTypeAccess,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of a JWT string.
//
// Verification fails with [ErrInvalidToken] when the signature is invalid,
// the token has expired, the signing method is not HMAC, or the embedded
// type claim is not "access".
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
