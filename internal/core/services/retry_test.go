package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoWithRetry(t *testing.T) {
	permanentErr := errors.New("permanent")
	transientErr := errors.New("transient")

	tests := []struct {
		name      string
		results   []error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"first attempt succeeds", []error{nil}, 2, 1, nil},
		{"retries transient failure", []error{transientErr, nil}, 2, 2, nil},
		{"permanent stops immediately", []error{permanentErr, nil}, 2, 1, permanentErr},
		{"attempts exhausted", []error{transientErr, transientErr}, 2, 2, transientErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			cfg := retryConfig{
				attempts: tt.attempts,
				backoff:  time.Millisecond,
				permanent: func(err error) bool {
					return errors.Is(err, permanentErr)
				},
			}

			_, err := doWithRetry(context.Background(), cfg, func(ctx context.Context) (string, error) {
				idx := calls
				if idx >= len(tt.results) {
					idx = len(tt.results) - 1
				}
				calls++
				if tt.results[idx] != nil {
					return "", tt.results[idx]
				}
				return "ok", nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDoWithRetryAttemptDeadline(t *testing.T) {
	cfg := retryConfig{attempts: 1, attemptTimeout: 10 * time.Millisecond}

	_, err := doWithRetry(context.Background(), cfg, func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "too late", nil
		}
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestDoWithRetryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := doWithRetry(ctx, retryConfig{attempts: 2}, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	if calls != 0 {
		t.Errorf("calls = %d, want 0 with a cancelled context", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
