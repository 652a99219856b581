package extract

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/jobtext"
)

// DefaultRetryDelays returns the backoff delays between extraction attempts
// of one batch URL: 2s, 5s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{2 * time.Second, 5 * time.Second}
}

// Retryable reports whether a failed extraction is worth another attempt.
// Only failures that a slower or second page load can fix qualify.
func Retryable(err error) bool {
	switch jobtext.ErrorCode(err) {
	case jobtext.ETIMEOUT, jobtext.EINTERNAL:
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	default:
		return false
	}
}

// withRetry calls fn until it succeeds, returns a non-retryable error, or
// every delay has been used.
func withRetry[T any](ctx context.Context, delays []time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if attempt == len(delays) || !Retryable(err) {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return zero, lastErr
}
