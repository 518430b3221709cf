package volt

import "github.com/zoobzio/capitan"

// Dispatch loop signals.
var (
	// ActionDispatched is emitted when a reducer runs and its state is committed.
	ActionDispatched = capitan.NewSignal(
		"volt.store.action.dispatched",
		"Action reduced and state committed",
	)

	// ActionUnbound is emitted when a dispatched action has no bound reducer.
	ActionUnbound = capitan.NewSignal(
		"volt.store.action.unbound",
		"Action dispatched with no bound reducer",
	)

	// ReducerFailed is emitted when a reducer returns an error or the
	// reduced state fails validation.
	ReducerFailed = capitan.NewSignal(
		"volt.store.reducer.failed",
		"Reducer returned an error",
	)
)

// Chaining signals.
var (
	// ChainFollowed is emitted when a follow-up action enters the dispatch loop.
	ChainFollowed = capitan.NewSignal(
		"volt.store.chain.followed",
		"Follow-up action entered the dispatch loop",
	)

	// ChainCycleDetected is emitted when a follow-up action chains to itself.
	ChainCycleDetected = capitan.NewSignal(
		"volt.store.chain.cycle",
		"Follow-up action chains to itself",
	)
)

// Lifecycle signals.
var (
	// StoreDisposed is emitted when a store is disposed.
	StoreDisposed = capitan.NewSignal(
		"volt.store.disposed",
		"Store disposed",
	)
)
