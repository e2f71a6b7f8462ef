package maze

import (
	"fmt"

	"github.com/san-kum/mazeviz/internal/instance"
)

// Resolver turns entity atoms into grid coordinates.
type Resolver struct {
	acc *instance.Accessor
}

func NewResolver(acc *instance.Accessor) *Resolver {
	return &Resolver{acc: acc}
}

// Square resolves a square atom through its row and col relations.
func (r *Resolver) Square(index int, sq instance.Atom) (Coord, error) {
	self := instance.Unary(sq)
	row, err := r.intOf(index, self, instance.Row)
	if err != nil {
		return Coord{}, err
	}
	col, err := r.intOf(index, self, instance.Col)
	if err != nil {
		return Coord{}, err
	}
	return Coord{Row: row, Col: col}, nil
}

// Locate resolves the square reached from a singleton signature through via,
// e.g. Theseus.location or Exit.position, and returns its coordinate.
func (r *Resolver) Locate(index int, sig instance.Sig, via instance.Relation) (Coord, error) {
	sq, err := r.acc.SigAt(sig, index).Join(r.acc.RelationAt(via, index)).SingleAtom()
	if err != nil {
		return Coord{}, decodeErr(index, fmt.Sprintf("%s.%s", sig, via), err)
	}
	return r.Square(index, sq)
}

func (r *Resolver) intOf(index int, self instance.TupleSet, rel instance.Relation) (int, error) {
	a, err := self.Join(r.acc.RelationAt(rel, index)).SingleAtom()
	if err != nil {
		return 0, decodeErr(index, fmt.Sprintf("%s.%s", atomOf(self), rel), err)
	}
	v, err := instance.IntValue(a)
	if err != nil {
		return 0, decodeErr(index, fmt.Sprintf("%s.%s", atomOf(self), rel), err)
	}
	return v, nil
}

func atomOf(ts instance.TupleSet) string {
	if len(ts) == 1 && len(ts[0]) == 1 {
		return string(ts[0][0])
	}
	return "?"
}
