package volt

import (
	"context"
	"errors"
	"testing"
)

func TestStore_BroadcastReachesAllSubscribers(t *testing.T) {
	ctx := context.Background()
	store := newTurnstileBuilder().Build()

	var first, second int
	store.Events(func(Event[Turnstile]) { first++ })
	store.Events(func(Event[Turnstile]) { second++ })

	if err := store.Dispatch(ctx, putCoin.New()); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if first != 1 || second != 1 {
		t.Errorf("expected both subscribers notified, got %d and %d", first, second)
	}
}

func TestStore_LateSubscriberGetsNoReplay(t *testing.T) {
	ctx := context.Background()
	store := newTurnstileBuilder().Build()

	if err := store.Dispatch(ctx, putCoin.New()); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	var late int
	store.Events(func(Event[Turnstile]) { late++ })
	if late != 0 {
		t.Errorf("late subscriber received replayed events: %d", late)
	}

	if err := store.Dispatch(ctx, push.New()); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if late != 1 {
		t.Errorf("expected 1 event after subscribing, got %d", late)
	}
}

func TestStore_SubscriptionCancelStopsDelivery(t *testing.T) {
	ctx := context.Background()
	store := newTurnstileBuilder().Build()

	var count int
	sub := store.Events(func(Event[Turnstile]) { count++ })

	if err := store.Dispatch(ctx, putCoin.New()); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	sub.Cancel()
	if err := store.Dispatch(ctx, push.New()); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if count != 1 {
		t.Errorf("expected 1 event before cancel, got %d", count)
	}

	select {
	case <-sub.Done():
	default:
		t.Error("Done not closed after Cancel")
	}
}

func TestStore_DisposeCompletesSubscriptions(t *testing.T) {
	store := newTurnstileBuilder().Build()

	sub := store.Events(func(Event[Turnstile]) {})
	errSub := store.Errors(func(StoreError[Turnstile]) {})

	store.Dispose()

	for i, s := range []*Subscription{sub, errSub} {
		select {
		case <-s.Done():
		default:
			t.Errorf("subscription %d not completed on dispose", i)
		}
	}

	// Subscribing after dispose yields an already-completed subscription.
	late := store.Events(func(Event[Turnstile]) {})
	select {
	case <-late.Done():
	default:
		t.Error("post-dispose subscription not completed")
	}
}

func TestStore_ErrorRoutingWithSubscriber(t *testing.T) {
	ctx := context.Background()

	boom := NewVoidAction("turnstile.boom")
	boomErr := errors.New("reducer exploded")

	b := newTurnstileBuilder()
	Bind(b, boom, func(s Turnstile, _ Void) (Turnstile, error) {
		return s, boomErr
	})
	store := b.Build()

	var received []StoreError[Turnstile]
	store.Errors(func(se StoreError[Turnstile]) {
		received = append(received, se)
	})

	if err := store.Dispatch(ctx, boom.New()); err != nil {
		t.Fatalf("expected nil from Dispatch with error subscriber, got %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected exactly 1 StoreError, got %d", len(received))
	}
	if received[0].Err != boomErr {
		t.Errorf("expected original error, got %v", received[0].Err)
	}
	if received[0].Action.Name() != "turnstile.boom" {
		t.Errorf("unexpected action: %s", received[0].Action.Name())
	}
}

func TestStore_ErrorRoutingWithoutSubscriber(t *testing.T) {
	ctx := context.Background()

	boom := NewVoidAction("turnstile.boom")
	boomErr := errors.New("reducer exploded")

	b := newTurnstileBuilder()
	Bind(b, boom, func(s Turnstile, _ Void) (Turnstile, error) {
		return s, boomErr
	})
	store := b.Build()

	// The original error comes back, not a wrapped copy.
	if err := store.Dispatch(ctx, boom.New()); err != boomErr {
		t.Errorf("expected original error, got %v", err)
	}
}

func TestStore_CanceledErrorSubscriberRestoresPropagation(t *testing.T) {
	ctx := context.Background()

	boom := NewVoidAction("turnstile.boom")
	boomErr := errors.New("reducer exploded")

	b := newTurnstileBuilder()
	Bind(b, boom, func(s Turnstile, _ Void) (Turnstile, error) {
		return s, boomErr
	})
	store := b.Build()

	sub := store.Errors(func(StoreError[Turnstile]) {})
	sub.Cancel()

	if err := store.Dispatch(ctx, boom.New()); err != boomErr {
		t.Errorf("expected original error after cancel, got %v", err)
	}
}

func TestStore_ChangesSuppressesDuplicates(t *testing.T) {
	ctx := context.Background()

	set := NewAction[int]("counter.set")

	type State struct{ N int }

	b := New(State{})
	Bind(b, set, func(s State, n int) (State, error) {
		s.N = n
		return s, nil
	})
	store := b.Build()

	var seen []int
	store.Changes(func(s State) { seen = append(seen, s.N) })

	// X, X, Y collapses to X, Y.
	for _, n := range []int{5, 5, 7} {
		if err := store.Dispatch(ctx, set.With(n)); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
	}

	if len(seen) != 2 || seen[0] != 5 || seen[1] != 7 {
		t.Errorf("expected [5 7], got %v", seen)
	}
}

func TestStore_ChangesForSelectorDedup(t *testing.T) {
	ctx := context.Background()
	store := newTurnstileBuilder().Build()

	var coins []int
	ChangesFor(store, func(s Turnstile) int { return s.Coins }, func(n int) {
		coins = append(coins, n)
	})

	// Coins change once; two pushes leave the projection untouched.
	actions := []Action{putCoin.New(), push.New(), push.New()}
	for _, a := range actions {
		if err := store.Dispatch(ctx, a); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
	}

	if len(coins) != 1 || coins[0] != 1 {
		t.Errorf("expected [1], got %v", coins)
	}
}

func TestStore_EventsForFiltersByName(t *testing.T) {
	ctx := context.Background()
	store := newTurnstileBuilder().Build()

	var pushes int
	store.EventsFor(push, func(Event[Turnstile]) { pushes++ })

	for _, a := range []Action{putCoin.New(), push.New(), putCoin.New(), push.New()} {
		if err := store.Dispatch(ctx, a); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
	}
	if pushes != 2 {
		t.Errorf("expected 2 push events, got %d", pushes)
	}
}

func TestStore_CustomEquality(t *testing.T) {
	ctx := context.Background()

	set := NewAction[int]("counter.set")

	type State struct{ N int }

	// Equality on parity: 2 and 4 count as the same state.
	b := New(State{})
	Bind(b, set, func(s State, n int) (State, error) {
		s.N = n
		return s, nil
	})
	b.Equality(func(a, c State) bool { return a.N%2 == c.N%2 })
	store := b.Build()

	var seen []int
	store.Changes(func(s State) { seen = append(seen, s.N) })

	for _, n := range []int{2, 4, 5} {
		if err := store.Dispatch(ctx, set.With(n)); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
	}
	if len(seen) != 2 || seen[0] != 2 || seen[1] != 5 {
		t.Errorf("expected [2 5], got %v", seen)
	}
}
