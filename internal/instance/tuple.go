package instance

import (
	"fmt"
	"strconv"
	"strings"
)

// Atom is an opaque entity identifier within one instance.
type Atom string

// IntValue decodes an integer atom. The model finder names integer atoms by
// their value, so the identifier itself is the integer.
func IntValue(a Atom) (int, error) {
	v, err := strconv.Atoi(string(a))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, string(a))
	}
	return v, nil
}

// Tuple is an ordered list of atoms.
type Tuple []Atom

func (t Tuple) key() string {
	parts := make([]string, len(t))
	for i, a := range t {
		parts[i] = string(a)
	}
	return strings.Join(parts, "\x00")
}

// TupleSet is an ordered, duplicate-free set of tuples of equal arity.
type TupleSet []Tuple

// Unary builds a set of one-atom tuples.
func Unary(atoms ...Atom) TupleSet {
	ts := make(TupleSet, 0, len(atoms))
	seen := make(map[Atom]bool, len(atoms))
	for _, a := range atoms {
		if seen[a] {
			continue
		}
		seen[a] = true
		ts = append(ts, Tuple{a})
	}
	return ts
}

// Join computes the relational join: the last column of ts is matched against
// the first column of other and both are dropped from the result.
func (ts TupleSet) Join(other TupleSet) TupleSet {
	if len(ts) == 0 || len(other) == 0 {
		return nil
	}
	heads := make(map[Atom][]Tuple)
	for _, t := range other {
		if len(t) < 2 {
			continue
		}
		heads[t[0]] = append(heads[t[0]], t)
	}

	var out TupleSet
	seen := make(map[string]bool)
	for _, left := range ts {
		if len(left) == 0 {
			continue
		}
		for _, right := range heads[left[len(left)-1]] {
			joined := make(Tuple, 0, len(left)+len(right)-2)
			joined = append(joined, left[:len(left)-1]...)
			joined = append(joined, right[1:]...)
			k := joined.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, joined)
		}
	}
	return out
}

// Single returns the only tuple of the set, failing when the set is empty or
// holds more than one tuple.
func (ts TupleSet) Single() (Tuple, error) {
	if len(ts) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrCardinality, len(ts))
	}
	return ts[0], nil
}

// SingleAtom returns the only atom of a unary singleton set.
func (ts TupleSet) SingleAtom() (Atom, error) {
	t, err := ts.Single()
	if err != nil {
		return "", err
	}
	if len(t) != 1 {
		return "", fmt.Errorf("%w: arity %d", ErrCardinality, len(t))
	}
	return t[0], nil
}

// Atoms returns the first column of the set.
func (ts TupleSet) Atoms() []Atom {
	out := make([]Atom, 0, len(ts))
	for _, t := range ts {
		if len(t) > 0 {
			out = append(out, t[0])
		}
	}
	return out
}

// Contains reports whether a appears as a unary tuple of ts.
func (ts TupleSet) Contains(a Atom) bool {
	for _, t := range ts {
		if len(t) == 1 && t[0] == a {
			return true
		}
	}
	return false
}
