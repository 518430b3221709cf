package volt

import (
	"context"
	"sync"
)

// Void is the payload type for actions that carry no data.
type Void = struct{}

// Action is an immutable named message describing an intended state
// transition. Actions are produced by builders (NewAction and friends) and
// consumed exactly once by Store.Dispatch.
//
// Identity of an action type is by name only; two builders sharing a name
// describe the same logical action.
type Action interface {
	// Name returns the stable name of the action type.
	Name() string

	// Then returns a copy of the action carrying follow to be dispatched
	// immediately after this action finishes, within the same Dispatch
	// call. Calling Then again replaces the follow-up; the last call wins.
	Then(follow Action) Action

	payloadValue() any
	followUp() (Action, bool)
}

// AsyncAction is an Action carrying a completion handle. External
// collaborators observe the action through the store's event stream, perform
// their side effects, and settle the handle exactly once via Complete or
// CompleteError.
type AsyncAction interface {
	Action

	// Complete settles the action successfully. Subsequent calls to
	// Complete or CompleteError are no-ops.
	Complete()

	// CompleteError settles the action with err. Subsequent calls to
	// Complete or CompleteError are no-ops.
	CompleteError(err error)

	// Done returns a channel closed when the action has been settled.
	Done() <-chan struct{}

	// Err returns the error the action was settled with, or nil. It is
	// only meaningful after Done is closed.
	Err() error

	// Wait blocks until the action is settled or the context is canceled,
	// returning the settlement error or the context error.
	Wait(ctx context.Context) error
}

// action is the concrete synchronous action. Value semantics make Then a
// copy, never a mutation of a dispatched action.
type action struct {
	name string
	data any
	next Action
}

func (a action) Name() string      { return a.name }
func (a action) payloadValue() any { return a.data }

func (a action) followUp() (Action, bool) {
	if a.next == nil {
		return nil, false
	}
	return a.next, true
}

func (a action) Then(follow Action) Action {
	a.next = follow
	return a
}

// asyncAction is the concrete asynchronous action. It shares the action
// value plus a completion handle that survives copies.
type asyncAction struct {
	action
	comp *completion
}

func (a asyncAction) Then(follow Action) Action {
	a.next = follow
	return a
}

func (a asyncAction) Complete()               { a.comp.settle(nil) }
func (a asyncAction) CompleteError(err error) { a.comp.settle(err) }
func (a asyncAction) Done() <-chan struct{}   { return a.comp.done }
func (a asyncAction) Err() error              { return a.comp.errValue() }

func (a asyncAction) Wait(ctx context.Context) error {
	select {
	case <-a.comp.done:
		return a.comp.errValue()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// completion is a one-shot settlement handle.
type completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

func (c *completion) settle(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

func (c *completion) errValue() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// ActionBuilder produces synchronous actions of a fixed name and payload
// type. Builders are stateless values and safe to share.
type ActionBuilder[P any] struct {
	name string
}

// NewAction creates a builder for actions named name carrying a P payload.
func NewAction[P any](name string) ActionBuilder[P] {
	return ActionBuilder[P]{name: name}
}

// NewVoidAction creates a builder for actions named name with no payload.
func NewVoidAction(name string) ActionBuilder[Void] {
	return ActionBuilder[Void]{name: name}
}

// Name returns the action name this builder produces.
func (b ActionBuilder[P]) Name() string { return b.name }

// With constructs an action carrying payload.
func (b ActionBuilder[P]) With(payload P) Action {
	return action{name: b.name, data: payload}
}

// New constructs an action carrying the zero payload.
func (b ActionBuilder[P]) New() Action {
	var zero P
	return action{name: b.name, data: zero}
}

func (ActionBuilder[P]) match(P) {}

// AsyncActionBuilder produces asynchronous actions of a fixed name and
// payload type. Each produced action carries a fresh completion handle.
type AsyncActionBuilder[P any] struct {
	name string
}

// NewAsyncAction creates a builder for async actions named name carrying a
// P payload.
func NewAsyncAction[P any](name string) AsyncActionBuilder[P] {
	return AsyncActionBuilder[P]{name: name}
}

// NewVoidAsyncAction creates a builder for async actions named name with no
// payload.
func NewVoidAsyncAction(name string) AsyncActionBuilder[Void] {
	return AsyncActionBuilder[Void]{name: name}
}

// Name returns the action name this builder produces.
func (b AsyncActionBuilder[P]) Name() string { return b.name }

// With constructs an async action carrying payload.
func (b AsyncActionBuilder[P]) With(payload P) AsyncAction {
	return asyncAction{
		action: action{name: b.name, data: payload},
		comp:   newCompletion(),
	}
}

// New constructs an async action carrying the zero payload.
func (b AsyncActionBuilder[P]) New() AsyncAction {
	var zero P
	return asyncAction{
		action: action{name: b.name, data: zero},
		comp:   newCompletion(),
	}
}

func (AsyncActionBuilder[P]) match(P) {}

// PayloadOf extracts the typed payload from an action. It reports false when
// the action carries a payload of a different type, which only happens when
// two builders share a name but disagree on the payload type.
func PayloadOf[P any](a Action) (P, bool) {
	p, ok := a.payloadValue().(P)
	return p, ok
}
