package service

import (
	"context"
	"time"
)

const (
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
)

// calculateBackoff returns base * 2^retry capped at maxDelay.
// A negative retry count yields base.
func calculateBackoff(retry int, base, maxDelay time.Duration) time.Duration {
	if base <= 0 {
		base = defaultRetryBaseDelay
	}
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	if retry < 0 {
		return base
	}
	// 2^30 seconds is far beyond any sane cap.
	if retry > 30 {
		return maxDelay
	}

	delay := base * time.Duration(1<<retry)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
