// Package retry provides retry logic with exponential backoff for transient
// failures.
//
// This package wraps github.com/cenkalti/backoff/v5 and integrates it with
// the hostkit error package so retry decisions follow error classification.
// It exists for probe-internal I/O such as establishing a database pool or
// broker connection. The health engine itself never uses it: a failed health
// evaluation is recorded as-is and the next scheduled tick is the retry.
//
// Example usage:
//
//	cfg := retry.Config{
//		MaxAttempts:  5,
//		InitialDelay: 100 * time.Millisecond,
//		MaxDelay:     5 * time.Second,
//		Policy:       retry.PolicyTemporary,
//	}
//
//	pool, err := retry.DoWithData(ctx, cfg, func() (*pgxpool.Pool, error) {
//		return pgxpool.New(ctx, dsn)
//	})
package retry

import (
	"context"

	"github.com/cenkalti/backoff/v5"
)

// Do executes the provided function with retry logic based on the
// configuration. It respects context cancellation and applies exponential
// backoff with jitter between attempts.
//
// Returns the error from the last attempt if all retries are exhausted.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithData(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithData executes the provided function with retry logic and returns a
// value. It works the same as Do but supports functions that return both a
// value and an error.
func DoWithData[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = cfg.Multiplier
	b.RandomizationFactor = cfg.Jitter

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
	}
	if cfg.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(cfg.MaxAttempts))
	}
	if cfg.MaxElapsedTime > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(cfg.MaxElapsedTime))
	}

	operation := func() (T, error) {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !cfg.shouldRetry(err) {
			// Mark as permanent to stop retrying
			var zero T
			return zero, backoff.Permanent(err)
		}
		return result, err
	}

	return backoff.Retry(ctx, operation, opts...)
}
