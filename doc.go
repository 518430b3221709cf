// Package volt provides a minimal synchronous action-dispatch state
// container with reducer chaining.
//
// The core type is Store, which owns a single state value and a registry of
// reducers keyed by action name. Dispatching an action runs the bound
// reducer, replaces the state with its return value, and broadcasts an event
// to subscribers.
//
// # Actions and Reducers
//
// Actions are built by typed builders; the builder fixes the action name and
// payload type:
//
//	putCoin := volt.NewVoidAction("turnstile.coin")
//	push := volt.NewVoidAction("turnstile.push")
//
//	builder := volt.New(Turnstile{Locked: true})
//	volt.Bind(builder, putCoin, func(s Turnstile, _ volt.Void) (Turnstile, error) {
//	    s.Locked = false
//	    s.Coins++
//	    return s, nil
//	})
//	volt.Bind(builder, push, func(s Turnstile, _ volt.Void) (Turnstile, error) {
//	    if !s.Locked {
//	        s.Locked = true
//	        s.Passed++
//	    }
//	    return s, nil
//	})
//
//	store := builder.Build()
//	_ = store.Dispatch(ctx, putCoin.New())
//	_ = store.Dispatch(ctx, push.New())
//
// Reducers must be pure functions of state and payload. They run
// synchronously on the dispatching goroutine and must not call back into the
// store.
//
// # Chaining
//
// A reducer bound with BindChain can name a follow-up action that is
// dispatched immediately after its own, within the same Dispatch call. The
// follow-up observes the state its predecessor produced. An action may also
// carry a pre-attached follow-up via Then; a reducer-returned follow-up
// takes precedence.
//
// A follow-up naming the action that produced it fails fast with
// *CyclicChainError. Longer cycles are not detected.
//
// # Events and Errors
//
// Every processed action produces an Event, delivered synchronously to all
// subscribers in subscription order. Actions with no bound reducer leave
// state unchanged but still produce an event. Changes projects events onto
// the new state with consecutive-duplicate suppression; ChangesFor applies a
// selector first. EventsFor narrows events to one action name.
//
// Reducer failures are delivered to Errors subscribers when any are
// attached; otherwise Dispatch returns the reducer's original error.
//
// # Async Actions
//
// Builders created with NewAsyncAction produce actions carrying a one-shot
// completion handle. An external collaborator typically observes the action
// through EventsFor, performs its side effect on its own goroutine, settles
// the handle, and may dispatch further actions:
//
//	del := volt.NewAsyncAction[string]("item.delete")
//	store.EventsFor(del, func(ev volt.Event[App]) {
//	    req := ev.Action.(volt.AsyncAction)
//	    go func() {
//	        if err := remove(ev.NewState); err != nil {
//	            req.CompleteError(err)
//	            return
//	        }
//	        req.Complete()
//	    }()
//	})
//
// # State Machine Adapter
//
// StateMachine supports the older idiom where the follow-up action is a
// field of the state itself; its dispatch loop reads NextAction off the
// committed state after each step. New code should prefer ChainReducer.
package volt
