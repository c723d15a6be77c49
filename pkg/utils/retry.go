package utils

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryStrategy defines a bounded exponential-backoff retry policy for
// store reads. Writes are never retried automatically.
type RetryStrategy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Jitter      bool
}

// NewRetryStrategy creates a RetryStrategy with defaults: 3 attempts,
// 200ms base backoff capped at 2s, with jitter.
func NewRetryStrategy() *RetryStrategy {
	return &RetryStrategy{
		MaxAttempts: 3,
		BaseBackoff: 200 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
		Jitter:      true,
	}
}

// CalculateBackoff returns the wait before the given 1-based attempt:
// base * 2^(n-1), capped at MaxBackoff, with optional jitter.
func (s *RetryStrategy) CalculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return s.BaseBackoff
	}

	backoff := time.Duration(math.Pow(2, float64(attempt-1))) * s.BaseBackoff
	if backoff > s.MaxBackoff {
		backoff = s.MaxBackoff
	}

	if s.Jitter {
		jitterRange := backoff / 10
		if jitterRange > 0 {
			jitter := time.Duration(rand.Intn(int(jitterRange*2))) - jitterRange
			backoff += jitter
			if backoff < s.BaseBackoff {
				backoff = s.BaseBackoff
			}
		}
	}
	return backoff
}

// Do runs fn up to MaxAttempts times, backing off between attempts. It
// stops early when the context is cancelled and returns the last error.
func (s *RetryStrategy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if attempt == s.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.CalculateBackoff(attempt)):
		}
	}
	return lastErr
}
