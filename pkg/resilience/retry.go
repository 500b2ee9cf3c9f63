package resilience

import (
	"context"
	"time"
)

// RetryPolicy defines retry behavior for transient failures. MaxRetries is
// the number of additional attempts after the first failure.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration

	// OnRetry, when set, is invoked before each additional attempt. The
	// session uses it to report the retry to the operator.
	OnRetry func(attempt int, err error)
}

func NewRetryPolicy(maxRetries int, backoff time.Duration) RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 2
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return RetryPolicy{MaxRetries: maxRetries, Backoff: backoff}
}

func (r RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i <= r.MaxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if i == r.MaxRetries {
			return err
		}
		if r.OnRetry != nil {
			r.OnRetry(i+1, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Backoff):
		}
	}
	return err
}
