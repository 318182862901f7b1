// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package auth

import "time"

// # Token Lifetimes

const (
	// AccessTokenTTL bounds the blast radius of a leaked access token.
	AccessTokenTTL = 15 * time.Minute

	// SessionTTL matches the access token lifetime so the Redis marker and
	// the JWT expire together.
	SessionTTL = 15 * time.Minute

	// RefreshTokenTTL is the maximum idle lifetime of a login before the
	// user must re-enter credentials.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// RefreshTokenLength is the number of random bytes in an opaque refresh
	// token (hex-encoded to twice this length).
	RefreshTokenLength = 32
)

// # Endpoint Rate Limits
//
// Fixed-window counters keyed per client IP. These are separate from the
// process-wide token bucket in the middleware chain.

const (
	// LoginRateLimit is the number of login attempts allowed per window.
	LoginRateLimit = 5

	// LoginRateWindow is the fixed window for login attempts.
	LoginRateWindow = 15 * time.Minute

	// RegisterRateLimit is the number of registrations allowed per window.
	RegisterRateLimit = 3

	// RegisterRateWindow is the fixed window for registration attempts.
	RegisterRateWindow = time.Hour

	// rateLimitLogin and rateLimitRegister name the counter buckets.
	rateLimitLogin    = "login"
	rateLimitRegister = "register"
)
