// Package poll implements bounded retries with a fixed backoff for backends
// that only become consistent eventually.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when no terminal value was seen within the attempt budget.
var ErrExhausted = errors.New("poll attempts exhausted")

// Until waits interval, calls fn, and repeats until isTerminal accepts the
// value or maxAttempts calls have been made. An error from fn stops polling
// immediately. On exhaustion the last value is returned with ErrExhausted.
func Until[T any](
	ctx context.Context,
	fn func(ctx context.Context) (T, error),
	isTerminal func(T) bool,
	maxAttempts int,
	interval time.Duration,
) (T, error) {
	var last T
	if maxAttempts <= 0 {
		return last, ErrExhausted
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-timer.C:
		}

		value, err := fn(ctx)
		if err != nil {
			return value, err
		}
		last = value
		if isTerminal(value) {
			return value, nil
		}
		timer.Reset(interval)
	}

	return last, ErrExhausted
}
