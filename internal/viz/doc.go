// Package viz renders a trace navigator in the terminal.
//
// The package implements the render driver using the Bubble Tea framework:
//
//   - [Model]: the maze view, turn indicator and distance panel
//   - [Sink]: forwards navigator frames into a running program
//   - [Canvas]: a character grid the maze is drawn on
//
// # Key Bindings
//
//	Home/g  - First instance
//	Left/h  - Previous instance
//	Right/l - Next instance (animated)
//	End/G   - Last reachable instance
//	i       - Toggle cell indices
//	d       - Toggle distance to Theseus
//	t       - Cycle color themes
//	?       - Show full help
//	q       - Quit
//
// Navigation keys are ignored while a move is animating.
package viz
