// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package auth

import (
	"context"
	"time"

	"github.com/linkgrove/linkgrove/internal/profile"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Linkgrove is PostgreSQL (store_postgres.go).
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	//
	// Returns [apperr.NotFound] if the username is available.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// CreateWithProfile persists a brand-new user account together with its
	// default profile page in a single transaction. Either both rows exist
	// afterwards or neither does.
	CreateWithProfile(ctx context.Context, user *User, defaultProfile *profile.Profile) error

	// UpdateLastLogin records the timestamp of a successful authentication.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// List returns a page of accounts ordered by creation time, plus the
	// total count. Used by the admin listing endpoint.
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
}

// SessionStore defines the contract for the volatile session markers.
//
// A marker's absence means the session is dead: either it expired naturally
// or it was revoked by a security event.
type SessionStore interface {
	// Set writes the session marker for a user with the given lifetime,
	// replacing any existing marker.
	Set(ctx context.Context, userID string, data SessionData, ttl time.Duration) error

	// Get returns the session marker, or [apperr.NotFound] if absent.
	Get(ctx context.Context, userID string) (*SessionData, error)

	// Exists reports whether a live marker is present without decoding it.
	Exists(ctx context.Context, userID string) (bool, error)

	// Delete removes the marker, ending the session immediately.
	Delete(ctx context.Context, userID string) error
}

// RefreshTokenStore defines the contract for opaque refresh-token mappings.
type RefreshTokenStore interface {
	// Set stores token -> userID with the given lifetime.
	Set(ctx context.Context, token, userID string, ttl time.Duration) error

	// Take atomically consumes the mapping and returns the associated
	// userID. A second Take of the same token returns empty: under
	// concurrent refreshes exactly one caller wins.
	Take(ctx context.Context, token string) (string, error)

	// Revoke removes the mapping without returning the value.
	Revoke(ctx context.Context, token string) error
}

// RateLimiter defines the contract for fixed-window request counters.
type RateLimiter interface {
	// Allow increments the counter for name:key and reports whether the
	// post-increment value is within the limit. The first increment of a
	// window arms the expiry; increment and expiry are atomic, so a crash
	// between them cannot leave an immortal counter.
	Allow(ctx context.Context, name, key string, limit int, window time.Duration) (bool, error)
}
