package relay

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus or
// StatsD. Implement this interface to receive callbacks on key relay events.
type MetricsProvider interface {
	// OnInitSuccess is called when initialization completes, whether or not
	// a value was produced. Duration is the source run time.
	OnInitSuccess(duration time.Duration)

	// OnInitFailure is called when the initial-value source fails.
	OnInitFailure(duration time.Duration)

	// OnRefreshSuccess is called when a refresh completes.
	OnRefreshSuccess(duration time.Duration)

	// OnRefreshFailure is called when the update source fails.
	OnRefreshFailure(duration time.Duration)

	// OnPublish is called when a value is stored and fanned out.
	OnPublish()

	// OnInvalidated is called when the value is invalidated. Reason is
	// "explicit" or "invalidator".
	OnInvalidated(reason string)

	// OnSubscribe is called when an observer attaches.
	OnSubscribe()

	// OnUnsubscribe is called when an observer detaches.
	OnUnsubscribe()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Embed it to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnInitSuccess(_ time.Duration)    {}
func (NoOpMetricsProvider) OnInitFailure(_ time.Duration)    {}
func (NoOpMetricsProvider) OnRefreshSuccess(_ time.Duration) {}
func (NoOpMetricsProvider) OnRefreshFailure(_ time.Duration) {}
func (NoOpMetricsProvider) OnPublish()                       {}
func (NoOpMetricsProvider) OnInvalidated(_ string)           {}
func (NoOpMetricsProvider) OnSubscribe()                     {}
func (NoOpMetricsProvider) OnUnsubscribe()                   {}
