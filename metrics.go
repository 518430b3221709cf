package volt

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key store events.
type MetricsProvider interface {
	// OnDispatch is called when a reducer runs successfully.
	// Duration is the time the reducer took, measured with the store's clock.
	OnDispatch(action string, duration time.Duration)

	// OnUnboundAction is called when a dispatched action has no bound reducer.
	OnUnboundAction(action string)

	// OnReducerFailure is called when a reducer returns an error or the
	// reduced state fails validation.
	OnReducerFailure(action string, duration time.Duration)

	// OnChainFollowed is called for each chained action entering the
	// dispatch loop.
	OnChainFollowed(from, to string)

	// OnDispose is called when the store is disposed.
	OnDispose()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnDispatch(_ string, _ time.Duration)       {}
func (NoOpMetricsProvider) OnUnboundAction(_ string)                   {}
func (NoOpMetricsProvider) OnReducerFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnChainFollowed(_, _ string)                {}
func (NoOpMetricsProvider) OnDispose()                                 {}
