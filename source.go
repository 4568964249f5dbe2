package relay

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Source produces a value for the relay. It is used for both initial
// population and refresh. A source may legitimately produce nothing: it
// returns ok=false to signal absence without error. Sources run off the
// subscribing goroutine and receive the relay's base context, which is
// cancelled when the relay is closed.
type Source[T any] func(ctx context.Context) (value T, ok bool, err error)

// SourceOf returns a Source that always produces the given literal value.
func SourceOf[T any](v T) Source[T] {
	return func(context.Context) (T, bool, error) {
		return v, true, nil
	}
}

// SourceFunc adapts a plain (T, error) function into a Source that always
// produces a value on success.
func SourceFunc[T any](fn func(ctx context.Context) (T, error)) Source[T] {
	return func(ctx context.Context) (T, bool, error) {
		v, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, false, err
		}
		return v, true, nil
	}
}

// Invalidator decides whether a value should be considered stale.
// It is evaluated against every newly published value; a match marks the
// relay invalidated so the next subscription triggers a refresh.
type Invalidator[T any] interface {
	IsInvalidated(v T) bool
}

// InvalidatorFunc adapts a predicate function to the Invalidator interface.
type InvalidatorFunc[T any] func(v T) bool

// IsInvalidated implements Invalidator.
func (f InvalidatorFunc[T]) IsInvalidated(v T) bool {
	return f(v)
}

// SelfInvalidating is an optional capability a cached value may implement to
// manage its own dirtiness. When the current value implements it, the relay
// defers to the value: Relay.Invalidate delegates to the value's Invalidate
// instead of setting the relay-level flag, and staleness checks consult
// IsInvalidated.
//
// Values implementing SelfInvalidating should be cached as pointers so the
// dirty state is shared between the relay and its observers.
type SelfInvalidating interface {
	// IsInvalidated reports whether the value considers itself stale.
	IsInvalidated() bool

	// Invalidate marks the value as stale.
	Invalidate()
}

// Fetch carries the result of a source invocation through the source
// middleware pipeline. Middleware stages (retry, timeout, fallback) wrap the
// terminal stage that actually calls the source and fills in the result.
type Fetch[T any] struct {
	// Value is the produced value, meaningful only when OK is true.
	Value T

	// OK reports whether the source produced a value.
	OK bool
}

// chainOf wraps a source in its middleware pipeline. The terminal stage runs
// the source; options wrap it outside-in.
func chainOf[T any](src Source[T], opts ...SourceOption[T]) pipz.Chainable[*Fetch[T]] {
	terminal := pipz.Apply(pipz.Name("fetch"), func(ctx context.Context, f *Fetch[T]) (*Fetch[T], error) {
		v, ok, err := src(ctx)
		if err != nil {
			return f, err
		}
		f.Value = v
		f.OK = ok
		return f, nil
	})

	chain := pipz.Chainable[*Fetch[T]](terminal)
	for _, opt := range opts {
		chain = opt(chain)
	}
	return chain
}

// runChain executes a wrapped source and unpacks the result.
func runChain[T any](ctx context.Context, chain pipz.Chainable[*Fetch[T]]) (T, bool, error) {
	f, err := chain.Process(ctx, &Fetch[T]{})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return f.Value, f.OK, nil
}
