// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/legitexchange/internal/platform/constants"
)

// RedisAttemptLimiter implements [AttemptLimiter] as a fixed window in Redis.
//
// The first failure opens a window of the configured length. Every API
// instance shares the counter.
type RedisAttemptLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewRedisAttemptLimiter creates a new Redis-backed AttemptLimiter.
func NewRedisAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

func (limiter *RedisAttemptLimiter) key(email string) string {
	return constants.RedisPrefixSignInAttempts + email
}

/*
Check reports the remaining lockout for the key.

Returns:
  - time.Duration: Zero when the attempt may proceed
  - error: Connectivity errors
*/
func (limiter *RedisAttemptLimiter) Check(context context.Context, email string) (time.Duration, error) {
	key := limiter.key(email)

	count, err := limiter.client.Get(context, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_attempt_limiter_get_failed: %w", err)
	}

	if count < limiter.maxAttempts {
		return 0, nil
	}

	ttl, err := limiter.client.TTL(context, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_attempt_limiter_ttl_failed: %w", err)
	}

	// A key without expiry should not exist. Lock for a full window rather than forever.
	if ttl <= 0 {
		return limiter.window, nil
	}
	return ttl, nil
}

/*
RecordFailure increments the counter and opens the window on the first failure.
*/
func (limiter *RedisAttemptLimiter) RecordFailure(context context.Context, email string) error {
	key := limiter.key(email)

	_, err := limiter.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Incr(context, key)
		pipe.ExpireNX(context, key, limiter.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_attempt_limiter_incr_failed: %w", err)
	}

	return nil
}

/*
Reset removes the counter after a successful sign-in.
*/
func (limiter *RedisAttemptLimiter) Reset(context context.Context, email string) error {
	if err := limiter.client.Del(context, limiter.key(email)).Err(); err != nil {
		return fmt.Errorf("redis_attempt_limiter_delete_failed: %w", err)
	}
	return nil
}
