package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyStopsAfterBound(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}
	calls := 0
	retries := 0
	policy.OnRetry = func(attempt int, err error) { retries++ }
	err := policy.Do(context.Background(), func() error {
		calls++
		return errors.New("device busy")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if retries != 2 {
		t.Fatalf("expected 2 retry reports, got %d", retries)
	}
}

func TestRetryPolicySucceedsMidway(t *testing.T) {
	policy := NewRetryPolicy(2, time.Millisecond)
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryPolicyHonoursContext(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, Backoff: 50 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := policy.Do(ctx, func() error { return errors.New("nope") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
