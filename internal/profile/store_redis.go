// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

// Redis implementation of the profile view counters.

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkgrove/linkgrove/internal/platform/constants"
)

// dayFormat keys the per-day view counters.
const dayFormat = "2006-01-02"

// dailyViewTTL keeps per-day counters for a rolling analytics window; the
// longest tier retains 90 days, plus headroom.
const dailyViewTTL = 100 * 24 * time.Hour

// RedisViewCounter implements [ViewCounter] on a Redis client.
//
// # Layout
//
//   - views:<profileID>            total views, no expiry
//   - views:<profileID>:<day>      per-day views, bounded retention
type RedisViewCounter struct {
	client *redis.Client
}

// NewViewCounter creates a new Redis implementation of [ViewCounter].
func NewViewCounter(client *redis.Client) *RedisViewCounter {
	return &RedisViewCounter{client: client}
}

func viewsKey(profileID string) string {
	return constants.RedisPrefixViews + profileID
}

// IncrementView bumps the total and today's counters in one pipeline round trip.
func (counter *RedisViewCounter) IncrementView(ctx context.Context, profileID string) error {
	totalKey := viewsKey(profileID)
	dayKey := totalKey + ":" + time.Now().UTC().Format(dayFormat)

	pipeline := counter.client.Pipeline()
	pipeline.Incr(ctx, totalKey)
	pipeline.Incr(ctx, dayKey)
	pipeline.Expire(ctx, dayKey, dailyViewTTL)

	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("redis_view_counter_incr_failed: %w", err)
	}

	return nil
}

// Views returns the total recorded views for a profile.
// A profile with no recorded views yields zero.
func (counter *RedisViewCounter) Views(ctx context.Context, profileID string) (int64, error) {
	total, err := counter.client.Get(ctx, viewsKey(profileID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_view_counter_get_failed: %w", err)
	}

	return total, nil
}
