package infra

import (
	"context"
	"errors"
	"net"
	"time"
)

// RetryPolicy bounds the retry loop for one outbound request.
type RetryPolicy struct {
	MaxAttempts    int           // total attempts, including the first
	BaseDelay      time.Duration // backoff before attempt 2; doubles each retry
	AttemptTimeout time.Duration // deadline applied to each individual attempt
}

// DefaultRetryPolicy matches data that changes at most daily: three
// attempts, 1s/2s backoff, 15s per attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		AttemptTimeout: 15 * time.Second,
	}
}

// Retry runs op up to MaxAttempts times, applying AttemptTimeout to each
// attempt and exponential backoff (base, 2×base, 4×base, ...) measured
// from the start of each attempt. Only transient failures are retried:
// rate-limit signals and network-level errors. Application errors (a 404
// body, a parse failure) return immediately.
func Retry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		start := time.Now()

		attemptCtx := ctx
		var cancel context.CancelFunc
		if policy.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.AttemptTimeout)
		}
		err = op(attemptCtx)
		if cancel != nil {
			cancel()
		}

		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == policy.MaxAttempts-1 {
			break
		}
		// The orchestration-level context outranks the backoff sleep.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := policy.BaseDelay << attempt
		var rl *RateLimitedError
		if errors.As(err, &rl) && rl.RetryAfter > delay {
			delay = rl.RetryAfter
		}
		// Backoff is measured from the start of the attempt.
		if elapsed := time.Since(start); elapsed < delay {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay - elapsed):
			}
		}
	}
	return err
}

// IsRetryable reports whether an error is a transient condition worth
// another attempt: a rate-limit signal, a network timeout, a connection
// failure, or an attempt deadline.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var op *net.OpError
	return errors.As(err, &op)
}
