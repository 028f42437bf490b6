// Package view holds the listing display options a visitor can switch
// between. State changes go through Reduce only.
package view

type Layout string

const (
	Grid    Layout = "grid"
	List    Layout = "list"
	Compact Layout = "compact"
)

var layouts = []Layout{Grid, List, Compact}

func Layouts() []Layout {
	return append([]Layout(nil), layouts...)
}

func (l Layout) Valid() bool {
	for _, v := range layouts {
		if v == l {
			return true
		}
	}
	return false
}

type State struct {
	Layout Layout
}

func Initial() State {
	return State{Layout: Grid}
}

type ActionType int

const (
	// Select picks Action.Layout.
	Select ActionType = iota
	// Cycle moves to the next layout.
	Cycle
	Reset
)

type Action struct {
	Type   ActionType
	Layout Layout
}

// Reduce returns the state after applying action. Unknown layouts leave the
// state unchanged.
func Reduce(state State, action Action) State {
	switch action.Type {
	case Select:
		if action.Layout.Valid() {
			state.Layout = action.Layout
		}
	case Cycle:
		for i, l := range layouts {
			if l == state.Layout {
				state.Layout = layouts[(i+1)%len(layouts)]
				return state
			}
		}
		state.Layout = Grid
	case Reset:
		return Initial()
	}
	return state
}

// FromQuery derives the state from the "view" query parameter.
func FromQuery(value string) State {
	return Reduce(Initial(), Action{Type: Select, Layout: Layout(value)})
}
