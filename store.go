package volt

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Store owns the current state and the reducer registry, and executes the
// synchronous dispatch loop.
//
// Dispatch calls are serialized by an internal mutex so the store is safe to
// dispatch to from multiple goroutines, but reducers and subscriber
// callbacks run on the dispatching goroutine and must not call back into
// Dispatch; hop to another goroutine first.
type Store[S any] struct {
	mu       sync.Mutex
	state    S
	reducers map[string]boundReducer[S]

	clock         clockz.Clock
	metrics       MetricsProvider
	equal         func(a, b S) bool
	validateState bool

	disposed atomic.Bool

	subMu     sync.RWMutex
	nextSubID uint64
	eventSubs []eventSub[S]
	errorSubs []errorSub[S]
	handles   map[uint64]*Subscription
}

// Current returns the state most recently committed by a dispatch, or the
// initial state if nothing has been dispatched.
func (s *Store[S]) Current() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Disposed reports whether the store has been disposed.
func (s *Store[S]) Disposed() bool {
	return s.disposed.Load()
}

// Dispatch processes an action: it runs the bound reducer, commits the
// returned state, notifies event subscribers, and synchronously follows any
// chained action until the chain ends.
//
// An action with no bound reducer leaves state unchanged but still produces
// an event with equal old and new states.
//
// A reducer failure is delivered to error subscribers when at least one is
// attached, in which case Dispatch returns nil and any pending chained
// action is discarded. With no error subscriber attached, the reducer's
// original error is returned unwrapped.
//
// A follow-up action naming the action that produced it aborts the loop with
// a *CyclicChainError. Dispatching on a disposed store returns
// ErrStoreDisposed.
func (s *Store[S]) Dispatch(ctx context.Context, a Action) error {
	if s.disposed.Load() {
		return ErrStoreDisposed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := a
	depth := 0
	for {
		follow, hasFollow, routed, err := s.step(ctx, current)
		if err != nil {
			return err
		}
		if routed || !hasFollow {
			return nil
		}
		if follow.Name() == current.Name() {
			capitan.Emit(ctx, ChainCycleDetected,
				KeyAction.Field(current.Name()),
			)
			return &CyclicChainError{Action: current.Name()}
		}

		depth++
		capitan.Emit(ctx, ChainFollowed,
			KeyAction.Field(current.Name()),
			KeyFollowUp.Field(follow.Name()),
			KeyChainDepth.Field(depth),
		)
		if s.metrics != nil {
			s.metrics.OnChainFollowed(current.Name(), follow.Name())
		}
		current = follow
	}
}

// step executes one reduction. It commits state and emits events on
// success, and resolves the follow-up action from the reducer (preferred)
// or the action itself. routed reports that a failure was delivered to
// error subscribers; err carries a failure that must propagate to the
// caller instead.
func (s *Store[S]) step(ctx context.Context, current Action) (follow Action, hasFollow bool, routed bool, err error) {
	old := s.state

	reduce, bound := s.reducers[current.Name()]
	if !bound {
		capitan.Emit(ctx, ActionUnbound,
			KeyAction.Field(current.Name()),
		)
		if s.metrics != nil {
			s.metrics.OnUnboundAction(current.Name())
		}
		s.emitEvent(Event[S]{Store: s, OldState: old, NewState: old, Action: current})
		follow, hasFollow = current.followUp()
		return follow, hasFollow, false, nil
	}

	start := s.clock.Now()
	next, chained, rerr := reduce(old, current)
	if rerr == nil && s.validateState {
		rerr = s.checkState(next)
	}
	if rerr != nil {
		capitan.Emit(ctx, ReducerFailed,
			KeyAction.Field(current.Name()),
			KeyError.Field(rerr.Error()),
		)
		if s.metrics != nil {
			s.metrics.OnReducerFailure(current.Name(), s.clock.Since(start))
		}
		if s.emitError(StoreError[S]{Store: s, State: old, Action: current, Err: rerr}) {
			return nil, false, true, nil
		}
		return nil, false, false, rerr
	}

	s.state = next
	capitan.Emit(ctx, ActionDispatched,
		KeyAction.Field(current.Name()),
		KeyDuration.Field(s.clock.Since(start)),
	)
	if s.metrics != nil {
		s.metrics.OnDispatch(current.Name(), s.clock.Since(start))
	}
	s.emitEvent(Event[S]{Store: s, OldState: old, NewState: next, Action: current})

	if chained != nil {
		return chained, true, false, nil
	}
	follow, hasFollow = current.followUp()
	return follow, hasFollow, false, nil
}

// Dispose terminates the store. Future Dispatch calls return
// ErrStoreDisposed and every outstanding subscription's Done channel is
// closed. Dispose is idempotent.
func (s *Store[S]) Dispose() {
	if s.disposed.Swap(true) {
		return
	}

	s.subMu.Lock()
	handles := s.handles
	s.handles = nil
	s.eventSubs = nil
	s.errorSubs = nil
	s.subMu.Unlock()

	for _, h := range handles {
		h.complete()
	}

	capitan.Emit(context.Background(), StoreDisposed,
		KeySubscribers.Field(len(handles)),
	)
	if s.metrics != nil {
		s.metrics.OnDispose()
	}
}
