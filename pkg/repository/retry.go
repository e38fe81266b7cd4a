package repository

import (
	"context"
	"errors"
	"time"
)

// Connection retry defaults for the networked backends.
const (
	connectAttempts = 3
	connectDelay    = 500 * time.Millisecond
)

// transientError marks a failure worth retrying, such as a refused dial
// while the server is still starting.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// transient wraps err so that retry attempts the operation again.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped with transient are retried; others return at once.
// It returns the last error, or ctx.Err() when ctx ends while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*transientError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
