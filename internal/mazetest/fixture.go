// Package mazetest builds Theseus and Minotaur instances in memory for tests.
package mazetest

import (
	"fmt"
	"strconv"

	"github.com/san-kum/mazeviz/internal/instance"
	"github.com/san-kum/mazeviz/internal/maze"
)

// Turn atoms as the model finder names them.
const (
	TheseusTurn   instance.Atom = "TheseusTurn0"
	MinotaurTurn1 instance.Atom = "MinotaurTurn10"
	MinotaurTurn2 instance.Atom = "MinotaurTurn20"
)

// State describes one instance of the game.
type State struct {
	Dims     maze.Dims
	Theseus  maze.Coord
	Minotaur maze.Coord
	Exit     maze.Coord
	Turn     instance.Atom
	// Links are connections added in both directions.
	Links [][2]maze.Coord
	// OneWay are connections added only from the first to the second square.
	OneWay [][2]maze.Coord
}

// Square names the square atom placed at c.
func Square(dims maze.Dims, c maze.Coord) instance.Atom {
	return instance.Atom(fmt.Sprintf("Square%d", c.Row*dims.Width+c.Col))
}

// Corridor links consecutive cells of path.
func Corridor(path ...maze.Coord) [][2]maze.Coord {
	var out [][2]maze.Coord
	for i := 1; i < len(path); i++ {
		out = append(out, [2]maze.Coord{path[i-1], path[i]})
	}
	return out
}

// Build turns s into an instance.
func Build(s State) *instance.Instance {
	dims := s.Dims
	if dims.Height == 0 || dims.Width == 0 {
		dims = maze.DefaultDims
	}
	turn := s.Turn
	if turn == "" {
		turn = TheseusTurn
	}

	b := instance.NewBuilder()
	var ints []instance.Atom
	for v := -8; v < 8; v++ {
		ints = append(ints, instance.Atom(strconv.Itoa(v)))
	}
	b.Sig("Int", "univ", ints...)
	b.Sig("Player", "univ")
	b.Sig("Theseus", "Player", "Theseus0")
	b.Sig("Minotaur", "Player", "Minotaur0")
	b.Sig("Exit", "univ", "Exit0")
	b.Sig("Game", "univ", "Game0")
	b.Sig("PossibleTurn", "univ")
	b.Sig("TheseusTurn", "PossibleTurn", TheseusTurn)
	b.Sig("MinotaurTurn1", "PossibleTurn", MinotaurTurn1)
	b.Sig("MinotaurTurn2", "PossibleTurn", MinotaurTurn2)

	b.Sig("Square", "univ")
	for r := 0; r < dims.Height; r++ {
		for c := 0; c < dims.Width; c++ {
			pos := maze.Coord{Row: r, Col: c}
			sq := Square(dims, pos)
			b.Sig("Square", "", sq)
			b.Tuple("row", sq, instance.Atom(strconv.Itoa(r)))
			b.Tuple("col", sq, instance.Atom(strconv.Itoa(c)))
		}
	}

	b.Field("connections")
	for _, l := range s.Links {
		b.Tuple("connections", Square(dims, l[0]), Square(dims, l[1]))
		b.Tuple("connections", Square(dims, l[1]), Square(dims, l[0]))
	}
	for _, l := range s.OneWay {
		b.Tuple("connections", Square(dims, l[0]), Square(dims, l[1]))
	}

	b.Tuple("location", "Theseus0", Square(dims, s.Theseus))
	b.Tuple("location", "Minotaur0", Square(dims, s.Minotaur))
	b.Tuple("position", "Exit0", Square(dims, s.Exit))
	b.Tuple("turn", "Game0", turn)
	b.Tuple("next", TheseusTurn, MinotaurTurn1)
	b.Tuple("next", MinotaurTurn1, MinotaurTurn2)
	b.Tuple("next", MinotaurTurn2, TheseusTurn)
	return b.Build()
}

// Trace builds one instance per state.
func Trace(states ...State) instance.Trace {
	t := make(instance.Trace, len(states))
	for i, s := range states {
		t[i] = Build(s)
	}
	return t
}

// Walk produces a trace where Theseus follows path one cell per instance while
// the Minotaur stays put. Every instance keeps base's turn.
func Walk(base State, path ...maze.Coord) instance.Trace {
	states := make([]State, len(path))
	for i, p := range path {
		s := base
		s.Theseus = p
		states[i] = s
	}
	return Trace(states...)
}
