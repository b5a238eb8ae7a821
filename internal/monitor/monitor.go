// Package monitor provides the polling loop used to wait for container
// groups to finish.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
)

// ErrTimeout is returned by WaitFor when the timeout elapses first.
var ErrTimeout = errors.New("timed out waiting for condition")

// CheckFunc reports whether the awaited condition holds.
type CheckFunc func(ctx context.Context) (bool, error)

// Attempt describes one unsuccessful check.
type Attempt struct {
	N       int
	Elapsed time.Duration
	Err     error
}

type waiter struct {
	interval  time.Duration
	timeout   time.Duration
	onAttempt func(Attempt)
}

// Option configures WaitFor.
type Option func(*waiter)

// WithInterval sets the pause between checks.
func WithInterval(d time.Duration) Option {
	return func(w *waiter) {
		w.interval = d
	}
}

// WithTimeout bounds the total wait. Zero waits until the context ends.
func WithTimeout(d time.Duration) Option {
	return func(w *waiter) {
		w.timeout = d
	}
}

// WithAttemptHook registers a callback for every unsuccessful check.
func WithAttemptHook(fn func(Attempt)) Option {
	return func(w *waiter) {
		w.onAttempt = fn
	}
}

// WaitFor runs check immediately and then once per interval until it
// reports true, the context is cancelled, or the timeout elapses.
// Check errors are reported to the attempt hook and polling continues.
func WaitFor(ctx context.Context, check CheckFunc, opts ...Option) error {
	w := &waiter{interval: time.Second}
	for _, opt := range opts {
		opt(w)
	}
	if w.interval <= 0 {
		w.interval = time.Second
	}

	began := time.Now()

	var deadline <-chan time.Time
	if w.timeout > 0 {
		timer := time.NewTimer(w.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		done, err := check(ctx)
		if done {
			logging.Debug("wait condition met", "attempts", n, "elapsed", time.Since(began))
			return nil
		}
		if err != nil {
			logging.Debug("wait check failed", "attempt", n, "error", err)
		}
		if w.onAttempt != nil {
			w.onAttempt(Attempt{N: n, Elapsed: time.Since(began), Err: err})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrTimeout
		case <-ticker.C:
		}
	}
}
