package maze

import (
	"fmt"

	"github.com/san-kum/mazeviz/internal/instance"
)

// pursuerTurnPrefix marks turn atoms that belong to the Minotaur
// (MinotaurTurn1*, MinotaurTurn2*).
const pursuerTurnPrefix = "Minotaur"

// Decoder builds a Decoded maze for any index of a trace. It keeps no state
// between calls.
type Decoder struct {
	acc  *instance.Accessor
	res  *Resolver
	dims Dims
}

func NewDecoder(acc *instance.Accessor, dims Dims) *Decoder {
	if dims.Height <= 0 || dims.Width <= 0 {
		dims = DefaultDims
	}
	return &Decoder{acc: acc, res: NewResolver(acc), dims: dims}
}

func (d *Decoder) Dims() Dims { return d.dims }

// Len is the number of instances the decoder can read.
func (d *Decoder) Len() int { return d.acc.Len() }

// Resolver exposes the coordinate resolver bound to the same accessor.
func (d *Decoder) Resolver() *Resolver { return d.res }

// Decode rebuilds the maze at index.
func (d *Decoder) Decode(index int) (Decoded, error) {
	layout, err := d.layout(index)
	if err != nil {
		return Decoded{}, err
	}

	out := Decoded{
		Index: index,
		Dims:  d.dims,
		Cells: make([][]Cell, d.dims.Height),
	}
	connections := d.acc.RelationAt(instance.Connections, index)
	for r := 0; r < d.dims.Height; r++ {
		out.Cells[r] = make([]Cell, d.dims.Width)
		for c := 0; c < d.dims.Width; c++ {
			pos := Coord{Row: r, Col: c}
			out.Cells[r][c] = Cell{
				Coord:  pos,
				Square: layout[r][c],
				Walls:  d.walls(pos, layout, connections),
			}
		}
	}

	if out.Pursuer, err = d.res.Locate(index, instance.Minotaur, instance.Location); err != nil {
		return Decoded{}, err
	}
	if out.Evader, err = d.res.Locate(index, instance.Theseus, instance.Location); err != nil {
		return Decoded{}, err
	}
	if out.Exit, err = d.res.Locate(index, instance.Exit, instance.Position); err != nil {
		return Decoded{}, err
	}
	for _, p := range []struct {
		name string
		at   Coord
	}{{"minotaur", out.Pursuer}, {"theseus", out.Evader}, {"exit", out.Exit}} {
		if !d.dims.Contains(p.at) {
			return Decoded{}, decodeErr(index, p.name, fmt.Errorf("%w: %s", ErrOutOfBounds, p.at))
		}
	}

	if out.Turn, out.TurnAtom, err = d.turn(index); err != nil {
		return Decoded{}, err
	}
	return out, nil
}

// Goal resolves only the evader and the exit, which is all the win scan needs.
func (d *Decoder) Goal(index int) (evader, exit Coord, err error) {
	if evader, err = d.res.Locate(index, instance.Theseus, instance.Location); err != nil {
		return Coord{}, Coord{}, err
	}
	if exit, err = d.res.Locate(index, instance.Exit, instance.Position); err != nil {
		return Coord{}, Coord{}, err
	}
	return evader, exit, nil
}

// layout places every square atom at its row and column.
func (d *Decoder) layout(index int) ([][]instance.Atom, error) {
	grid := make([][]instance.Atom, d.dims.Height)
	for r := range grid {
		grid[r] = make([]instance.Atom, d.dims.Width)
	}
	for _, sq := range d.acc.SigAt(instance.Square, index).Atoms() {
		pos, err := d.res.Square(index, sq)
		if err != nil {
			return nil, err
		}
		if !d.dims.Contains(pos) {
			return nil, decodeErr(index, "layout", fmt.Errorf("%w: %s at %s", ErrOutOfBounds, sq, pos))
		}
		if prev := grid[pos.Row][pos.Col]; prev != "" {
			return nil, decodeErr(index, "layout", fmt.Errorf("%w: %s and %s at %s", ErrDuplicateCell, prev, sq, pos))
		}
		grid[pos.Row][pos.Col] = sq
	}
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c] == "" {
				return nil, decodeErr(index, "layout", fmt.Errorf("%w: %d,%d", ErrUnfilledCell, r, c))
			}
		}
	}
	return grid, nil
}

// walls marks a side open only when the neighbouring square atom itself is
// among the connections of this square.
func (d *Decoder) walls(pos Coord, layout [][]instance.Atom, connections instance.TupleSet) Walls {
	linked := instance.Unary(layout[pos.Row][pos.Col]).Join(connections)
	var w Walls
	for _, dir := range Directions {
		n := dir.Step(pos)
		w[dir] = !d.dims.Contains(n) || !linked.Contains(layout[n.Row][n.Col])
	}
	return w
}

func (d *Decoder) turn(index int) (Player, instance.Atom, error) {
	a, err := d.acc.SigAt(instance.Game, index).Join(d.acc.RelationAt(instance.Turn, index)).SingleAtom()
	if err != nil {
		return Evader, "", decodeErr(index, "Game.turn", err)
	}
	return ClassifyTurn(a), a, nil
}

// ClassifyTurn reports whose move a turn atom stands for.
func ClassifyTurn(a instance.Atom) Player {
	s := string(a)
	if len(s) >= len(pursuerTurnPrefix) && s[:len(pursuerTurnPrefix)] == pursuerTurnPrefix {
		return Pursuer
	}
	return Evader
}
