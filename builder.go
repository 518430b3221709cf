package volt

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/clockz"
)

// Reducer computes a new state from the current state and an action payload.
// Reducers must be pure: no side effects, no blocking, no calls back into
// the store. The returned state replaces the current one; returning an error
// leaves state unchanged.
type Reducer[S, P any] func(state S, payload P) (S, error)

// ChainReducer is a Reducer that can additionally name a follow-up action to
// be dispatched immediately after this one, within the same Dispatch call.
// The follow-up observes the state this reducer produced. Return a nil
// follow-up for no chaining. A non-nil follow-up replaces any follow-up
// attached to the action via Then.
type ChainReducer[S, P any] func(state S, payload P) (S, Action, error)

// boundReducer is the type-erased form stored in the registry. It resolves
// the payload, runs the user reducer, and reports an optional follow-up.
type boundReducer[S any] func(state S, a Action) (S, Action, error)

// Bindable is satisfied by ActionBuilder and AsyncActionBuilder of a
// matching payload type.
type Bindable[P any] interface {
	Name() string
	match(P)
}

// NamedBuilder is satisfied by any action builder, regardless of payload
// type. It is used where only the action name matters, such as EventsFor.
type NamedBuilder interface {
	Name() string
}

// StoreBuilder accumulates an initial state and reducer bindings, then
// freezes them into a Store. Configuration uses chainable methods before
// Build, mirroring the rest of the library.
//
// A builder remains usable after Build; each Build produces an independent
// store with its own copy of the registry.
type StoreBuilder[S any] struct {
	initial       S
	reducers      map[string]boundReducer[S]
	clock         clockz.Clock
	metrics       MetricsProvider
	equal         func(a, b S) bool
	validateState bool
}

// New creates a StoreBuilder seeded with the initial state.
//
// Example:
//
//	putCoin := volt.NewVoidAction("turnstile.coin")
//	builder := volt.New(Turnstile{Locked: true})
//	volt.Bind(builder, putCoin, func(s Turnstile, _ volt.Void) (Turnstile, error) {
//	    s.Locked = false
//	    s.Coins++
//	    return s, nil
//	})
//	store := builder.Build()
func New[S any](initial S) *StoreBuilder[S] {
	return &StoreBuilder[S]{
		initial:  initial,
		reducers: make(map[string]boundReducer[S]),
		clock:    clockz.RealClock,
		equal:    func(a, b S) bool { return reflect.DeepEqual(a, b) },
	}
}

// Clock sets a custom clock used for reducer timing reported to the metrics
// provider. Use this with clockz.FakeClock for deterministic tests.
// Must be called before Build().
func (b *StoreBuilder[S]) Clock(clock clockz.Clock) *StoreBuilder[S] {
	b.clock = clock
	return b
}

// Metrics sets a metrics provider for observability integration. The
// provider receives callbacks on dispatches, reducer failures, chain steps,
// and disposal. Must be called before Build().
func (b *StoreBuilder[S]) Metrics(provider MetricsProvider) *StoreBuilder[S] {
	b.metrics = provider
	return b
}

// Equality sets the state comparison used by Changes to suppress
// consecutive duplicate emissions. Default: reflect.DeepEqual.
// Must be called before Build().
func (b *StoreBuilder[S]) Equality(eq func(a, b S) bool) *StoreBuilder[S] {
	b.equal = eq
	return b
}

// StateValidation enables validation of every reduced state before it is
// committed. States implementing Validator are checked via Validate();
// otherwise struct states are checked against go-playground/validator tags.
// A validation failure is handled like a reducer failure and the state is
// not committed. Must be called before Build().
func (b *StoreBuilder[S]) StateValidation() *StoreBuilder[S] {
	b.validateState = true
	return b
}

// Bind registers reduce for actions produced by ab. The payload types of
// the builder and the reducer are tied at compile time.
//
// Rebinding a name silently replaces the previous reducer; the last binding
// wins.
func Bind[S, P any](b *StoreBuilder[S], ab Bindable[P], reduce Reducer[S, P]) {
	b.reducers[ab.Name()] = func(state S, a Action) (S, Action, error) {
		payload, ok := PayloadOf[P](a)
		if !ok {
			return state, nil, payloadTypeError[P](a)
		}
		next, err := reduce(state, payload)
		return next, nil, err
	}
}

// BindChain registers a chaining reducer for actions produced by ab. The
// rebinding policy matches Bind: the last binding for a name wins.
func BindChain[S, P any](b *StoreBuilder[S], ab Bindable[P], reduce ChainReducer[S, P]) {
	b.reducers[ab.Name()] = func(state S, a Action) (S, Action, error) {
		payload, ok := PayloadOf[P](a)
		if !ok {
			return state, nil, payloadTypeError[P](a)
		}
		return reduce(state, payload)
	}
}

// Build freezes the current bindings and configuration into a Store.
func (b *StoreBuilder[S]) Build() *Store[S] {
	reducers := make(map[string]boundReducer[S], len(b.reducers))
	for name, r := range b.reducers {
		reducers[name] = r
	}

	s := &Store[S]{
		state:         b.initial,
		reducers:      reducers,
		clock:         b.clock,
		metrics:       b.metrics,
		equal:         b.equal,
		validateState: b.validateState,
	}
	return s
}

func payloadTypeError[P any](a Action) *PayloadTypeError {
	var want P
	return &PayloadTypeError{
		Action: a.Name(),
		Want:   fmt.Sprintf("%T", want),
		Got:    fmt.Sprintf("%T", a.payloadValue()),
	}
}
