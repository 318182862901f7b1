// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// Package auth implements account identity: registration, credential login,
// token refresh, and the server-side session markers that make stateless
// access tokens revocable.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package auth

import (
	"time"

	"github.com/linkgrove/linkgrove/internal/feature"
	"github.com/linkgrove/linkgrove/internal/platform/sec"
)

// User represents a registered account on the Linkgrove platform.
//
// # Rules
//   - Email is unique and validated.
//   - Username is unique and URL-safe (it seeds the default profile slug).
//   - PasswordHash is generated via Bcrypt exclusively via the auth Service.
//   - IsActive = false blocks authentication regardless of valid credentials.
type User struct {
	ID                    string       `json:"id"`
	Email                 string       `json:"email"`
	Username              string       `json:"username"`
	PasswordHash          string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName           string       `json:"display_name"`
	AvatarURL             string       `json:"avatar_url,omitempty"`
	Bio                   string       `json:"bio,omitempty"`
	Role                  sec.UserRole `json:"role"`
	IsPremium             bool         `json:"is_premium"`
	SubscriptionTier      feature.Tier `json:"subscription_tier"`
	SubscriptionExpiresAt *time.Time   `json:"subscription_expires_at,omitempty"`
	EmailVerified         bool         `json:"email_verified"`
	IsActive              bool         `json:"is_active"`
	LastLoginAt           *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// SessionData is the JSON payload stored under the Redis session marker.
//
// # Security Concept
//
// Access tokens (JWT) are stateless and cannot be revoked before they expire.
// To mitigate this, Linkgrove pairs every login with a short-lived server-side
// marker keyed by user ID. The authentication gate requires BOTH a valid token
// AND a live marker, so deleting the marker logs the user out immediately.
// Authorization data is always read from the token; the marker is a pure
// liveness record.
type SessionData struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsPremium bool      `json:"isPremium"`
	ExpiresAt time.Time `json:"expiresAt"`
}
