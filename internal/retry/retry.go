package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy controls how Do retries a failing operation.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the second attempt
	MaxDelay    time.Duration // cap on the exponential backoff
	Jitter      time.Duration // random addition to each wait, <= BaseDelay recommended

	// Retryable decides whether an error is worth another attempt.
	// If nil, every non-nil error is retried.
	Retryable func(error) bool

	// OnRetry is an optional hook invoked before each wait, for logging.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Do runs fn until it succeeds, the policy's attempts are exhausted, a
// non-retryable error occurs, or the context is done. Waits between
// attempts grow exponentially from BaseDelay up to MaxDelay.
func Do(ctx context.Context, p Policy, fn func(context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 100 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 5 * time.Second
	}

	retryable := p.Retryable
	if retryable == nil {
		retryable = func(error) bool { return true }
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		wait := p.BaseDelay << (attempt - 1)
		if wait > p.MaxDelay {
			wait = p.MaxDelay
		}
		if p.Jitter > 0 {
			wait += time.Duration(rand.Int63n(int64(p.Jitter)))
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = errors.New("retry: exhausted with no error")
	}
	return lastErr
}
