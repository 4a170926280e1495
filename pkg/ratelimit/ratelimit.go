// Package ratelimit implements per-user cooldowns on top of redis SETNX.
// A nil client disables limiting.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"anoa.com/recipemarket/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// CheckAndSet reports whether the action is allowed and, if so, starts a
// cooldown of length limit.
func CheckAndSet(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key(userID, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func TTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, key(userID, action)).Result()
}

// Clear drops the cooldown, used when the guarded action failed.
func Clear(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, key(userID, action)).Err()
}

// Enforce wraps CheckAndSet and returns a RateLimited error carrying the
// remaining wait. Redis failures do not block the caller.
func Enforce(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) error {
	allowed, err := CheckAndSet(ctx, rdb, userID, action, limit)
	if err != nil || allowed {
		return nil
	}

	ttl, _ := TTL(ctx, rdb, userID, action)
	seconds := int(math.Ceil(ttl.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return apperror.RateLimited(fmt.Sprintf("please wait %d seconds before trying again", seconds))
}
