// Package maze rebuilds the grid, walls and entity positions of one
// instance from its relations.
package maze

import (
	"fmt"

	"github.com/san-kum/mazeviz/internal/instance"
)

// Dims is the grid size.
type Dims struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// DefaultDims is the board used by the Theseus and Minotaur model.
var DefaultDims = Dims{Height: 4, Width: 4}

// Contains reports whether c lies on the grid.
func (d Dims) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < d.Height && c.Col >= 0 && c.Col < d.Width
}

// Coord is a grid position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("%d,%d", c.Row, c.Col) }

// Manhattan is the taxicab distance between two cells.
func Manhattan(a, b Coord) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Direction indexes the four sides of a cell.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"north", "east", "south", "west"}

func (d Direction) String() string { return directionNames[d] }

// Step returns the neighbour of c in direction d.
func (d Direction) Step(c Coord) Coord {
	switch d {
	case North:
		return Coord{c.Row - 1, c.Col}
	case East:
		return Coord{c.Row, c.Col + 1}
	case South:
		return Coord{c.Row + 1, c.Col}
	default:
		return Coord{c.Row, c.Col - 1}
	}
}

// Directions lists the sides in north, east, south, west order.
var Directions = [4]Direction{North, East, South, West}

// Walls holds one flag per side, indexed by Direction.
type Walls [4]bool

func (w Walls) North() bool { return w[North] }
func (w Walls) East() bool  { return w[East] }
func (w Walls) South() bool { return w[South] }
func (w Walls) West() bool  { return w[West] }

// Cell is one grid square with the atom it was decoded from.
type Cell struct {
	Coord  Coord         `json:"coord"`
	Square instance.Atom `json:"square"`
	Walls  Walls         `json:"walls"`
}

// Player identifies a moving agent.
type Player int

const (
	Evader Player = iota
	Pursuer
)

func (p Player) String() string {
	if p == Pursuer {
		return "minotaur"
	}
	return "theseus"
}

// Decoded is the drawable state of one instance.
type Decoded struct {
	Index    int           `json:"index"`
	Dims     Dims          `json:"dims"`
	Cells    [][]Cell      `json:"cells"`
	Evader   Coord         `json:"evader"`
	Pursuer  Coord         `json:"pursuer"`
	Exit     Coord         `json:"exit"`
	Turn     Player        `json:"turn"`
	TurnAtom instance.Atom `json:"turn_atom"`
}

// Cell returns the cell at c. c must be on the grid.
func (d Decoded) Cell(c Coord) Cell { return d.Cells[c.Row][c.Col] }

// Position returns where p stands.
func (d Decoded) Position(p Player) Coord {
	if p == Pursuer {
		return d.Pursuer
	}
	return d.Evader
}

// Won reports whether the evader stands on the exit.
func (d Decoded) Won() bool { return d.Evader == d.Exit }

// Caught reports whether the pursuer stands on the evader.
func (d Decoded) Caught() bool { return d.Evader == d.Pursuer }

func (p Player) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Player) UnmarshalText(b []byte) error {
	switch string(b) {
	case "minotaur":
		*p = Pursuer
	case "theseus":
		*p = Evader
	default:
		return fmt.Errorf("unknown player %q", string(b))
	}
	return nil
}
