// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/linkgrove/linkgrove/internal/platform/constants"
	"github.com/linkgrove/linkgrove/internal/platform/ctxutil"
	"github.com/linkgrove/linkgrove/internal/platform/sec"
)

// # Authentication & Authorization

// TokenVerifier validates a signed access token and returns its claims.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AuthClaims, error)
}

// SessionChecker reports whether a server-side session marker is still alive.
// A valid token whose session marker has expired or been revoked must be
// rejected, so revocation takes effect before the token itself expires.
type SessionChecker interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Authenticate verifies the Bearer token (if present) and populates the
// request context with the caller's identity.
//
// Behavior:
//   - No Authorization header: the request proceeds anonymously. Protected
//     routes reject it later via [RequireAuth].
//   - Malformed header, invalid signature, expired token, or wrong token
//     type: 401 immediately.
//   - Valid token but no live session marker: 401 "Session expired".
func Authenticate(verifier TokenVerifier, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Anonymous requests pass through untouched
			authHeader := request.Header.Get(constants.HeaderAuthorization)
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Enforce the "Bearer <token>" format
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || scheme != constants.BearerScheme || token == "" {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
				return
			}

			// 3. Verify signature, expiry, and token type
			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
				return
			}

			// 4. Check session liveness. The marker outlives nothing: a
			// revoked or timed-out session invalidates otherwise-valid tokens.
			alive, err := sessions.Exists(request.Context(), claims.UserID)
			if err != nil {
				writeError(writer, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
				return
			}
			if !alive {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Session expired")
				return
			}

			// 5. Attach the verified identity to the context
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not authenticate.
// It must be mounted after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole restricts access to callers whose role is in the allowed set.
// Roles are a flat membership check, not a hierarchy: admin does not
// implicitly satisfy a moderator-only route unless listed.
func RequireRole(allowed ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !sec.UserRole(claims.Role).In(allowed...) {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePremium restricts access to premium subscribers.
func RequirePremium(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		if !claims.IsPremium {
			writeError(writer, http.StatusForbidden, "PREMIUM_REQUIRED", "Premium subscription required")
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// GetUser returns the authenticated caller's claims, or nil for anonymous
// requests. Convenience re-export for handlers.
func GetUser(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}
