package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// WithBackoff calls fn up to maxRetries times, sleeping with exponential
// backoff and jitter between attempts. Errors rejected by isRetriable are
// returned immediately.
func WithBackoff[T any](
	ctx context.Context,
	maxRetries int,
	baseDelay time.Duration,
	isRetriable func(error) bool,
	fn func() (T, error),
) (T, error) {
	var zero T
	if maxRetries <= 0 {
		return zero, fmt.Errorf("maxRetries must be > 0, got %d", maxRetries)
	}
	var lastErr error

	for i := range maxRetries {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if isRetriable == nil || !isRetriable(err) {
			return zero, err
		}

		if i < maxRetries-1 {
			var jitter time.Duration
			if baseDelay > 0 {
				jitter = time.Duration(rand.Int63n(int64(baseDelay))) //nolint:gosec // jitter doesn't need crypto rand
			}
			delay := time.Duration(math.Pow(2, float64(i)))*baseDelay + jitter
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}

// Do is WithBackoff for functions without a result.
func Do(
	ctx context.Context,
	maxRetries int,
	baseDelay time.Duration,
	isRetriable func(error) bool,
	fn func() error,
) error {
	_, err := WithBackoff(ctx, maxRetries, baseDelay, isRetriable, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
