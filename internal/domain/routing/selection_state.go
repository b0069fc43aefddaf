package routing

import "fmt"

// SelectionState is where a widget is in the pick-start, pick-end, routed flow.
type SelectionState string

const (
	StateIdle         SelectionState = "idle"
	StatePickingStart SelectionState = "picking_start"
	StatePickingEnd   SelectionState = "picking_end"
	StateRouted       SelectionState = "routed"
)

// validTransitions is the selection state machine. Reset (to idle) and
// StartRouting (to picking_start) are allowed from everywhere.
var validTransitions = map[SelectionState][]SelectionState{
	StateIdle:         {StateIdle, StatePickingStart},
	StatePickingStart: {StateIdle, StatePickingStart, StatePickingEnd},
	StatePickingEnd:   {StateIdle, StatePickingStart, StateRouted},
	StateRouted:       {StateIdle, StatePickingStart},
}

// IsValid returns true if the state is a recognized selection state.
func (s SelectionState) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this state to the target is allowed.
func (s SelectionState) CanTransitionTo(target SelectionState) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsPicking returns true while the widget is waiting for a start or end click.
func (s SelectionState) IsPicking() bool {
	return s == StatePickingStart || s == StatePickingEnd
}

// HasStart returns true in the states that carry a start point.
func (s SelectionState) HasStart() bool {
	return s == StatePickingEnd || s == StateRouted
}

// HasEnd returns true in the states that carry an end point.
func (s SelectionState) HasEnd() bool {
	return s == StateRouted
}

// String returns the string representation of the state.
func (s SelectionState) String() string {
	return string(s)
}

// ParseSelectionState converts a string to a SelectionState.
func ParseSelectionState(s string) (SelectionState, error) {
	state := SelectionState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid selection state: %s", s)
	}
	return state, nil
}
