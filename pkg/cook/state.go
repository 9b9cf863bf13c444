// Package cook runs the cooking state machine and the foreground control
// loop.
package cook

import "fmt"

// State is the cook state.
type State int

const (
	Rest State = iota
	Warming
	Cooking
	Paused
	Finished
)

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case Rest:
		return "Rest"
	case Warming:
		return "Warming"
	case Cooking:
		return "Cooking"
	case Paused:
		return "Paused"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Active reports whether a cook is under way.
func (s State) Active() bool {
	return s == Cooking || s == Paused
}
