package trace

import (
	"github.com/san-kum/mazeviz/internal/anim"
	"github.com/san-kum/mazeviz/internal/maze"
)

// State is the navigator's input state.
type State int

const (
	// Idle accepts every command.
	Idle State = iota
	// Transitioning ignores every command until the running step settles.
	Transitioning
	// Terminal is Idle at the last reachable index; only forward moves are refused.
	Terminal
)

func (s State) String() string {
	switch s {
	case Transitioning:
		return "transitioning"
	case Terminal:
		return "terminal"
	default:
		return "idle"
	}
}

// Flags are presentation toggles. They never change decoding.
type Flags struct {
	ShowIndices  bool `json:"show_indices"`
	ShowDistance bool `json:"show_distance"`
}

// Frame is everything a renderer needs to paint one screen.
type Frame struct {
	Session  string
	Maze     maze.Decoded
	Index    int
	MaxIndex int
	Len      int
	State    State
	Flags    Flags
	// Disabled is set while a transition is running.
	Disabled bool
	// Playback is the running transition, nil once settled.
	Playback *anim.Playback
	Won      bool
}

// CanStepBack reports whether the back controls are live.
func (f Frame) CanStepBack() bool { return !f.Disabled && f.Index > 0 }

// CanStepForward reports whether the forward controls are live.
func (f Frame) CanStepForward() bool { return !f.Disabled && f.Index < f.MaxIndex }

// Renderer paints frames. Render must not call back into the navigator's
// commands synchronously.
type Renderer interface {
	Render(Frame)
}

// Observer is notified of navigator events.
type Observer interface {
	OnTransition(Frame)
	OnSettle(Frame)
	OnDecodeError(index int, err error)
}
