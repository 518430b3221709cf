package volt

import (
	"errors"
	"fmt"
)

// ErrStoreDisposed is returned by Dispatch after the store has been disposed.
var ErrStoreDisposed = errors.New("volt: store disposed")

// CyclicChainError is returned when a follow-up action has the same name as
// the action that produced it. It signals a programming error in reducer
// logic and is always returned synchronously from Dispatch, never delivered
// to error subscribers.
//
// Only self-chains are detected. Longer cycles (A chains B chains A) spin
// forever and are the caller's responsibility to avoid.
type CyclicChainError struct {
	// Action is the name of the self-chaining action.
	Action string
}

func (e *CyclicChainError) Error() string {
	return fmt.Sprintf("volt: action %q chains to itself", e.Action)
}

// PayloadTypeError is produced when a dispatched action carries a payload of
// a different type than the reducer bound to its name expects. Binding is
// type-checked at compile time, so this only occurs when two builders share
// a name but disagree on the payload type. It is treated as a reducer
// failure: routed to error subscribers when any are attached, returned from
// Dispatch otherwise.
type PayloadTypeError struct {
	// Action is the name of the offending action.
	Action string

	// Want is the payload type the bound reducer expects.
	Want string

	// Got is the payload type the action carried.
	Got string
}

func (e *PayloadTypeError) Error() string {
	return fmt.Sprintf("volt: action %q carries %s payload, reducer expects %s", e.Action, e.Got, e.Want)
}
