package services

import (
	"context"
	"time"
)

// retryConfig bounds an operation to a fixed number of attempts, each under
// its own deadline, with a classifier for errors that must not be retried.
type retryConfig struct {
	attempts       int
	attemptTimeout time.Duration
	backoff        time.Duration
	permanent      func(error) bool
	sleep          func(ctx context.Context, d time.Duration) error
}

// doWithRetry runs op until it succeeds, a permanent error occurs, attempts
// are exhausted, or ctx is done.
func doWithRetry[T any](ctx context.Context, cfg retryConfig, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := cfg.attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := cfg.sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if cfg.attemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.attemptTimeout)
		}
		value, err := op(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return value, nil
		}
		lastErr = err

		if cfg.permanent != nil && cfg.permanent(err) {
			return zero, err
		}
		if attempt == attempts-1 {
			break
		}
		if err := sleep(ctx, cfg.backoff); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
