// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryAttemptLimiter implements [AttemptLimiter] as a fixed window per key,
// the same shape as [RedisAttemptLimiter].
//
// The first failure opens a window. Once maxAttempts failures land inside it,
// the key is locked until the window ends. It only protects a single process.
// Use [RedisAttemptLimiter] behind a load balancer.
type MemoryAttemptLimiter struct {
	mu          sync.Mutex
	windows     map[string]*attemptWindow
	maxAttempts int
	window      time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

type attemptWindow struct {
	failures int
	openedAt time.Time
}

// NewMemoryAttemptLimiter creates an in-process AttemptLimiter.
func NewMemoryAttemptLimiter(maxAttempts int, window time.Duration) *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{
		windows:     make(map[string]*attemptWindow),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Check implements [AttemptLimiter].
func (limiter *MemoryAttemptLimiter) Check(_ context.Context, key string) (time.Duration, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, ok := limiter.windows[key]
	if !ok {
		return 0, nil
	}

	remaining := entry.openedAt.Add(limiter.window).Sub(limiter.now())
	if remaining <= 0 {
		delete(limiter.windows, key)
		return 0, nil
	}
	if entry.failures < limiter.maxAttempts {
		return 0, nil
	}
	return remaining, nil
}

// RecordFailure implements [AttemptLimiter].
func (limiter *MemoryAttemptLimiter) RecordFailure(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	limiter.sweep(now)

	entry, ok := limiter.windows[key]
	if !ok || !now.Before(entry.openedAt.Add(limiter.window)) {
		entry = &attemptWindow{openedAt: now}
		limiter.windows[key] = entry
	}
	entry.failures++
	return nil
}

// Reset implements [AttemptLimiter].
func (limiter *MemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	delete(limiter.windows, key)
	return nil
}

// sweep drops closed windows, at most once per window length. Caller holds mu.
func (limiter *MemoryAttemptLimiter) sweep(now time.Time) {
	if now.Sub(limiter.lastSweep) < limiter.window {
		return
	}
	limiter.lastSweep = now

	for key, entry := range limiter.windows {
		if !now.Before(entry.openedAt.Add(limiter.window)) {
			delete(limiter.windows, key)
		}
	}
}
