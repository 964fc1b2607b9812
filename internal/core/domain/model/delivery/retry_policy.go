package delivery

import (
	"errors"
	"time"

	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrRetryPolicyIsNotConstructed = errors.New("retry policy must be created via NewRetryPolicy")

// RetryPolicy bounds the attempts made for one delivery.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	guard       guard.ConstructorGuard
}

// NewRetryPolicy validates a policy.
//
// Parameters:
//   - maxAttempts: total attempts including the first, at least 1
//   - baseDelay: wait before the second attempt, positive
//   - maxDelay: cap for the backoff, not below baseDelay
func NewRetryPolicy(maxAttempts int, baseDelay, maxDelay time.Duration) (RetryPolicy, error) {
	if maxAttempts < 1 {
		return RetryPolicy{}, errs.NewValueIsOutOfRangeError("max_attempts", maxAttempts, 1, "unbounded")
	}
	if baseDelay <= 0 {
		return RetryPolicy{}, errs.NewValueIsOutOfRangeError("base_delay", baseDelay, "1ns", "unbounded")
	}
	if maxDelay < baseDelay {
		return RetryPolicy{}, errs.NewValueIsOutOfRangeError("max_delay", maxDelay, baseDelay, "unbounded")
	}

	return RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (p RetryPolicy) Validate() error {
	return p.guard.Validate(ErrRetryPolicyIsNotConstructed)
}

func (p RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// Backoff returns the wait after the n-th failed attempt: min(base*2^(n-1), max).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.maxDelay || delay <= 0 {
			return p.maxDelay
		}
	}
	if delay > p.maxDelay {
		return p.maxDelay
	}
	return delay
}
