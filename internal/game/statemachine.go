package game

// Machine is a table-driven state machine. It is deliberately pure: Advance
// only moves the state, it never runs side effects. Callers invoke their own
// handler when a transition was accepted, which keeps sequencing separate
// from effects and lets the table be tested on its own.
//
// Advancing is not safe for concurrent use; the owning room serializes all
// access.
type Machine[S comparable, E comparable] struct {
	state       S
	transitions map[S]map[E]S
}

func NewMachine[S comparable, E comparable](initial S, transitions map[S]map[E]S) *Machine[S, E] {
	return &Machine[S, E]{state: initial, transitions: transitions}
}

// Advance looks up (current state, event) in the table. With no entry the
// machine stays put and reports false; otherwise the state moves and it
// reports true.
func (m *Machine[S, E]) Advance(event E) bool {
	eventMap, ok := m.transitions[m.state]
	if !ok {
		return false
	}
	next, ok := eventMap[event]
	if !ok {
		return false
	}
	m.state = next
	return true
}

func (m *Machine[S, E]) State() S {
	return m.state
}
