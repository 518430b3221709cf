package volt

import (
	"context"

	"github.com/zoobzio/capitan"
)

// MachineState is implemented by state types that carry their own follow-up
// action, the older chaining idiom where the next action lives on the state
// rather than on the action or reducer.
type MachineState interface {
	// NextAction returns the follow-up action recorded on the state and
	// whether one is present.
	NextAction() (Action, bool)
}

// StateMachine adapts a Store to the legacy state-carried chaining idiom.
// After each reduction its dispatch loop reads the follow-up off the
// produced state instead of the action. Follow-ups attached via Then or
// returned by chain reducers are ignored.
//
// New code should prefer Store with ChainReducer; this adapter exists for
// backward compatibility.
type StateMachine[S MachineState] struct {
	*Store[S]
}

// NewStateMachine builds the store held by b and wraps it in a StateMachine.
func NewStateMachine[S MachineState](b *StoreBuilder[S]) *StateMachine[S] {
	return &StateMachine[S]{Store: b.Build()}
}

// Dispatch processes an action with Store.Dispatch semantics, except that
// the chained action is read from the committed state's NextAction after
// each step.
func (m *StateMachine[S]) Dispatch(ctx context.Context, a Action) error {
	s := m.Store
	if s.disposed.Load() {
		return ErrStoreDisposed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := a
	depth := 0
	for {
		_, _, routed, err := s.step(ctx, current)
		if err != nil {
			return err
		}
		if routed {
			return nil
		}

		follow, ok := s.state.NextAction()
		if !ok {
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
