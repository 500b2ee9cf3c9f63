package resilience

import (
	"errors"
	"sync"
	"time"
)

// RateLimitError marks a provider quota or rate limit response. The session
// treats it as transient trouble; the circuit breaker counts it toward
// opening.
type RateLimitError struct {
	Provider string
	Message  string
}

func (e RateLimitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "rate limit"
}

// IsRateLimit reports whether err is, or wraps, a RateLimitError.
func IsRateLimit(err error) bool {
	var rl RateLimitError
	return errors.As(err, &rl)
}

// CircuitBreaker stops calls to a quota-limited backend after repeated rate
// limit responses, so a session in a tight interaction loop does not burn
// its remaining quota the moment the provider starts refusing.
type CircuitBreaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	openUntil time.Time
	cooldown  time.Duration
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown}
}

// Allow reports whether a call may proceed.
func (c *CircuitBreaker) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !time.Now().Before(c.openUntil)
}

// OpenFor returns how long the breaker stays open, zero when closed.
func (c *CircuitBreaker) OpenFor() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if remaining := time.Until(c.openUntil); remaining > 0 {
		return remaining
	}
	return 0
}

// OnSuccess resets the failure streak and closes the breaker.
func (c *CircuitBreaker) OnSuccess() {
	c.mu.Lock()
	c.failures = 0
	c.openUntil = time.Time{}
	c.mu.Unlock()
}

// OnError counts rate limit errors; other failures do not trip the breaker.
func (c *CircuitBreaker) OnError(err error) {
	if !IsRateLimit(err) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
	if c.failures >= c.threshold {
		c.openUntil = time.Now().Add(c.cooldown)
	}
}
