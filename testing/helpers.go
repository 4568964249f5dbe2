// Package relaytest provides test utilities for code built on stateful-relay.
package relaytest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	relay "github.com/damian-burke/stateful-relay"
)

// WaitFor polls a condition until it returns true or the timeout is reached.
// Returns true if the condition was met, false if the timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return condition()
}

// WaitForState waits until the relay reaches the expected state or the
// timeout occurs.
func WaitForState[T any](t *testing.T, r *relay.Relay[T], expected relay.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.State() == expected
	})
}

// RequireState fails the test immediately if the relay is not in the
// expected state.
func RequireState[T any](t *testing.T, r *relay.Relay[T], expected relay.State) {
	t.Helper()
	if got := r.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireValue fails the test if the relay holds no value or the value does
// not satisfy the check.
func RequireValue[T any](t *testing.T, r *relay.Relay[T], check func(T) bool) {
	t.Helper()
	v, ok := r.Value()
	if !ok {
		t.Fatal("expected value to be present, got none")
	}
	if !check(v) {
		t.Fatalf("value check failed: %+v", v)
	}
}

// CountingSource is a relay.Source that counts invocations and serves
// configurable results. Safe for concurrent use.
type CountingSource[T any] struct {
	calls atomic.Int64

	// Value is produced on every call unless Err or Absent is set.
	Value T

	// Err, when non-nil, makes every call fail.
	Err error

	// Absent, when true, makes every call report no value.
	Absent bool

	// Delay, when positive, makes every call sleep before returning,
	// respecting context cancellation.
	Delay time.Duration
}

// Source returns the relay.Source backed by this counter.
func (c *CountingSource[T]) Source() relay.Source[T] {
	return func(ctx context.Context) (T, bool, error) {
		c.calls.Add(1)
		if c.Delay > 0 {
			select {
			case <-time.After(c.Delay):
			case <-ctx.Done():
				var zero T
				return zero, false, ctx.Err()
			}
		}
		if c.Err != nil {
			var zero T
			return zero, false, c.Err
		}
		if c.Absent {
			var zero T
			return zero, false, nil
		}
		return c.Value, true, nil
	}
}

// Calls returns the number of invocations so far.
func (c *CountingSource[T]) Calls() int64 {
	return c.calls.Load()
}
