package relay

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/streamz"
)

// observeConfig holds per-subscription settings.
type observeConfig[T any] struct {
	policy   Policy
	buffer   int
	pipeline []streamz.Processor[T, T]
}

// ObserveOption configures a single subscription.
type ObserveOption[T any] func(*observeConfig[T])

// ObservePolicy overrides the relay's default delivery policy for this
// subscription.
func ObservePolicy[T any](p Policy) ObserveOption[T] {
	return func(c *observeConfig[T]) {
		c.policy = p
	}
}

// ObserveBuffer overrides the subscriber channel capacity.
func ObserveBuffer[T any](n int) ObserveOption[T] {
	return func(c *observeConfig[T]) {
		c.buffer = n
	}
}

// ObserveFilter delivers only values matching the predicate.
func ObserveFilter[T any](predicate func(T) bool) ObserveOption[T] {
	return func(c *observeConfig[T]) {
		c.pipeline = append(c.pipeline, streamz.NewFilter[T](predicate).WithName("filter"))
	}
}

// ObserveThrottle rate-limits delivery to this subscriber.
func ObserveThrottle[T any](perSecond float64) ObserveOption[T] {
	return func(c *observeConfig[T]) {
		c.pipeline = append(c.pipeline, streamz.NewThrottle[T](perSecond, streamz.RealClock))
	}
}

// Observe returns a live stream of the relay's value. If a value is present
// it is delivered immediately; subsequent publishes follow in order, subject
// to the subscription's overflow policy (default: keep only the latest
// pending value).
//
// Each call re-evaluates the relay's decision functions: the first
// subscription triggers initialization, and any subscription finding the
// value stale or missing triggers a refresh. Population and refresh errors
// never appear on the stream and never close it.
//
// The channel is closed when ctx is cancelled or the relay is closed.
// Cancelling a subscription never cancels in-flight population work; that is
// bound to the relay itself and stops only on Close.
func (r *Relay[T]) Observe(ctx context.Context, opts ...ObserveOption[T]) <-chan T {
	cfg := observeConfig[T]{
		policy: r.overflow,
		buffer: r.buffer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r.kick()

	ch, unsubscribe := r.store.Subscribe(cfg.policy, cfg.buffer)
	capitan.Emit(ctx, RelaySubscribed,
		KeyPolicy.Field(cfg.policy.String()),
		KeyObservers.Field(r.store.Observers()),
	)
	r.metrics.OnSubscribe()

	// Tie the subscription to its context. The store closes the channel on
	// relay Close, so the watcher only needs to translate ctx cancellation
	// into an unsubscribe; r.done bounds its lifetime otherwise.
	go func() {
		select {
		case <-ctx.Done():
		case <-r.done:
		}
		unsubscribe()
		capitan.Emit(context.Background(), RelayUnsubscribed,
			KeyObservers.Field(r.store.Observers()),
		)
		r.metrics.OnUnsubscribe()
	}()

	out := ch
	for _, proc := range cfg.pipeline {
		out = proc.Process(ctx, out)
	}
	return out
}
