// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// Redis implementation of the volatile auth storage contracts: session
// markers, refresh-token mappings, and fixed-window rate counters.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkgrove/linkgrove/internal/platform/apperr"
	"github.com/linkgrove/linkgrove/internal/platform/constants"
)

// ── Session Store ────────────────────────────────────────────────────────────

// RedisSessionStore implements [SessionStore] on a Redis client.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis implementation of [SessionStore].
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(userID string) string {
	return constants.RedisPrefixSession + userID
}

// Set writes the session marker for a user, replacing any existing marker.
// A re-login therefore extends the session rather than stacking markers.
func (store *RedisSessionStore) Set(ctx context.Context, userID string, data SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("redis_session_store_marshal_failed: %w", err)
	}

	if err := store.client.Set(ctx, sessionKey(userID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_store_set_failed: %w", err)
	}

	return nil
}

// Get returns the decoded session marker, or [apperr.NotFound] if absent.
func (store *RedisSessionStore) Get(ctx context.Context, userID string) (*SessionData, error) {
	payload, err := store.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_store_get_failed: %w", err)
	}

	data := &SessionData{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("redis_session_store_unmarshal_failed: %w", err)
	}

	return data, nil
}

// Exists reports whether a live marker is present without decoding it.
func (store *RedisSessionStore) Exists(ctx context.Context, userID string) (bool, error) {
	count, err := store.client.Exists(ctx, sessionKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_store_exists_failed: %w", err)
	}
	return count > 0, nil
}

// Delete removes the marker, ending the session immediately.
// Deleting an absent marker is not an error.
func (store *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	if err := store.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_session_store_delete_failed: %w", err)
	}
	return nil
}

// ── Refresh Token Store ──────────────────────────────────────────────────────

// RedisRefreshTokenStore implements [RefreshTokenStore] on a Redis client.
type RedisRefreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore creates a new Redis implementation of [RefreshTokenStore].
func NewRefreshTokenStore(client *redis.Client) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{client: client}
}

func refreshKey(token string) string {
	return constants.RedisPrefixRefresh + token
}

// Set stores token -> userID with the given lifetime.
func (store *RedisRefreshTokenStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := store.client.Set(ctx, refreshKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_refresh_store_set_failed: %w", err)
	}
	return nil
}

// Take atomically consumes the mapping via GETDEL and returns the userID.
//
// # Concurrency
//
// GETDEL is a single Redis command, so two concurrent refreshes with the same
// token cannot both succeed: one receives the userID, the other empty. An
// expired or unknown token also yields empty with no error.
func (store *RedisRefreshTokenStore) Take(ctx context.Context, token string) (string, error) {
	userID, err := store.client.GetDel(ctx, refreshKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_refresh_store_take_failed: %w", err)
	}
	return userID, nil
}

// Revoke removes the mapping without returning the value.
// Revoking an unknown token is not an error (idempotent logout).
func (store *RedisRefreshTokenStore) Revoke(ctx context.Context, token string) error {
	if err := store.client.Del(ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_refresh_store_revoke_failed: %w", err)
	}
	return nil
}

// ── Rate Limiter ─────────────────────────────────────────────────────────────

// rateLimitScript increments the window counter and arms its expiry in one
// atomic step. Without the script, a crash between INCR and EXPIRE leaves an
// immortal counter that rate-limits the key forever.
var rateLimitScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

// RedisRateLimiter implements [RateLimiter] with fixed windows in Redis.
type RedisRateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a new Redis implementation of [RateLimiter].
func NewRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

// Allow increments the counter for name:key and reports whether the request
// is within the limit.
//
// # Semantics
//
// The window is fixed, not sliding: the first request of a window starts the
// clock, and the counter vanishes when the window ends. The post-increment
// value is compared against the limit, so limit=5 admits exactly 5 requests
// per window.
func (limiter *RedisRateLimiter) Allow(ctx context.Context, name, key string, limit int, window time.Duration) (bool, error) {
	counterKey := constants.RedisPrefixRateLimit + name + ":" + key
	windowSeconds := int(window.Seconds())

	current, err := rateLimitScript.Run(ctx, limiter.client, []string{counterKey}, windowSeconds).Int64()
	if err != nil {
		return false, fmt.Errorf("redis_rate_limiter_incr_failed: %w", err)
	}

	return current <= int64(limit), nil
}
