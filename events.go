package volt

import "sync"

// Event records one completed dispatch step. An unbound action still
// produces an event, with OldState and NewState equal.
type Event[S any] struct {
	// Store is the store that processed the action.
	Store *Store[S]

	// OldState is the state before the reducer ran.
	OldState S

	// NewState is the state after the reducer ran.
	NewState S

	// Action is the processed action.
	Action Action
}

// StoreError records one reducer failure delivered to error subscribers.
type StoreError[S any] struct {
	// Store is the store that processed the action.
	Store *Store[S]

	// State is the state at the time of the failure; it was not modified.
	State S

	// Action is the action whose reducer failed.
	Action Action

	// Err is the reducer's error.
	Err error
}

// Subscription is the handle returned by the store's subscribe methods.
type Subscription struct {
	once   sync.Once
	done   chan struct{}
	remove func()
}

// Cancel detaches the subscriber. No callbacks are invoked after Cancel
// returns. Cancel is idempotent and safe after store disposal.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.remove != nil {
			s.remove()
		}
		close(s.done)
	})
}

// Done returns a channel closed when the subscription ends, either by
// Cancel or by store disposal.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// complete ends the subscription without detaching; the store clears its
// lists wholesale on disposal.
func (s *Subscription) complete() {
	s.once.Do(func() {
		close(s.done)
	})
}

type eventSub[S any] struct {
	id uint64
	fn func(Event[S])
}

type errorSub[S any] struct {
	id uint64
	fn func(StoreError[S])
}

// Events subscribes fn to every processed action. Subscribers are invoked
// synchronously on the dispatching goroutine, in subscription order. A
// subscriber added after an emission does not receive it.
func (s *Store[S]) Events(fn func(Event[S])) *Subscription {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.disposed.Load() {
		return completedSubscription()
	}

	id := s.nextSubID
	s.nextSubID++
	s.eventSubs = append(s.eventSubs, eventSub[S]{id: id, fn: fn})

	sub := &Subscription{
		done:   make(chan struct{}),
		remove: func() { s.removeEventSub(id) },
	}
	s.track(id, sub)
	return sub
}

// Errors subscribes fn to reducer failures. While at least one error
// subscriber is attached, Dispatch delivers reducer failures here instead of
// returning them.
func (s *Store[S]) Errors(fn func(StoreError[S])) *Subscription {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.disposed.Load() {
		return completedSubscription()
	}

	id := s.nextSubID
	s.nextSubID++
	s.errorSubs = append(s.errorSubs, errorSub[S]{id: id, fn: fn})

	sub := &Subscription{
		done:   make(chan struct{}),
		remove: func() { s.removeErrorSub(id) },
	}
	s.track(id, sub)
	return sub
}

// Changes subscribes fn to the projection of events onto the new state,
// suppressing consecutive duplicates under the store's equality function.
// Dispatches producing states X, X, Y invoke fn exactly twice: X then Y.
func (s *Store[S]) Changes(fn func(S)) *Subscription {
	var last S
	seen := false
	return s.Events(func(ev Event[S]) {
		if seen && s.equal(last, ev.NewState) {
			return
		}
		last = ev.NewState
		seen = true
		fn(ev.NewState)
	})
}

// EventsFor narrows Events to actions produced by the given builder,
// matching by name.
func (s *Store[S]) EventsFor(b NamedBuilder, fn func(Event[S])) *Subscription {
	name := b.Name()
	return s.Events(func(ev Event[S]) {
		if ev.Action.Name() == name {
			fn(ev)
		}
	})
}

// ChangesFor subscribes fn to a selector's projection of the state,
// suppressing consecutive duplicates of the projected value.
func ChangesFor[S any, V comparable](s *Store[S], selector func(S) V, fn func(V)) *Subscription {
	var last V
	seen := false
	return s.Events(func(ev Event[S]) {
		v := selector(ev.NewState)
		if seen && v == last {
			return
		}
		last = v
		seen = true
		fn(v)
	})
}

func (s *Store[S]) track(id uint64, sub *Subscription) {
	if s.handles == nil {
		s.handles = make(map[uint64]*Subscription)
	}
	s.handles[id] = sub
}

func (s *Store[S]) removeEventSub(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, e := range s.eventSubs {
		if e.id == id {
			s.eventSubs = append(s.eventSubs[:i], s.eventSubs[i+1:]...)
			break
		}
	}
	delete(s.handles, id)
}

func (s *Store[S]) removeErrorSub(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, e := range s.errorSubs {
		if e.id == id {
			s.errorSubs = append(s.errorSubs[:i], s.errorSubs[i+1:]...)
			break
		}
	}
	delete(s.handles, id)
}

// emitEvent broadcasts ev to every event subscriber. The list is copied
// under the read lock so a callback may cancel its own subscription.
func (s *Store[S]) emitEvent(ev Event[S]) {
	s.subMu.RLock()
	subs := make([]eventSub[S], len(s.eventSubs))
	copy(subs, s.eventSubs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}

// emitError broadcasts serr to error subscribers, reporting whether any were
// attached at emission time.
func (s *Store[S]) emitError(serr StoreError[S]) bool {
	s.subMu.RLock()
	subs := make([]errorSub[S], len(s.errorSubs))
	copy(subs, s.errorSubs)
	s.subMu.RUnlock()

	if len(subs) == 0 {
		return false
	}
	for _, sub := range subs {
		sub.fn(serr)
	}
	return true
}

func completedSubscription() *Subscription {
	sub := &Subscription{done: make(chan struct{})}
	sub.complete()
	return sub
}
