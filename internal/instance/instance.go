// Package instance models solved relational instances as read-only atom,
// signature and field tables, and provides the validated accessor the maze
// decoder reads them through.
package instance

import (
	"sort"
	"strings"
)

const univLabel = "univ"

type sigEntry struct {
	parent string
	atoms  []Atom
}

// Instance is one immutable snapshot of the model. It is created through a
// Builder and never modified afterwards.
type Instance struct {
	sigs   map[string]*sigEntry
	order  []string
	fields map[string]TupleSet
}

// Signature returns the atoms of the named signature and of every signature
// that extends it. The univ signature holds every atom of the instance.
func (in *Instance) Signature(label string) (TupleSet, bool) {
	if label == univLabel {
		var all []Atom
		for _, name := range in.order {
			all = append(all, in.sigs[name].atoms...)
		}
		return Unary(all...), true
	}
	if _, ok := in.sigs[label]; !ok {
		return nil, false
	}
	var atoms []Atom
	for _, name := range in.order {
		if in.extends(name, label) {
			atoms = append(atoms, in.sigs[name].atoms...)
		}
	}
	return Unary(atoms...), true
}

func (in *Instance) extends(name, ancestor string) bool {
	for seen := 0; name != "" && seen <= len(in.order); seen++ {
		if name == ancestor {
			return true
		}
		e, ok := in.sigs[name]
		if !ok {
			return false
		}
		name = e.parent
	}
	return false
}

// Field returns the tuples of the named field.
func (in *Instance) Field(label string) (TupleSet, bool) {
	ts, ok := in.fields[label]
	return ts, ok
}

// SigLabels lists the signature labels in insertion order.
func (in *Instance) SigLabels() []string {
	out := make([]string, len(in.order))
	copy(out, in.order)
	return out
}

// FieldLabels lists the field labels in sorted order.
func (in *Instance) FieldLabels() []string {
	out := make([]string, 0, len(in.fields))
	for k := range in.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Declared returns the parent label and the atoms declared directly on a
// signature, without those of its descendants.
func (in *Instance) Declared(label string) (parent string, atoms []Atom, ok bool) {
	e, ok := in.sigs[label]
	if !ok {
		return "", nil, false
	}
	return e.parent, append([]Atom(nil), e.atoms...), true
}

// Builder assembles an Instance.
type Builder struct {
	in   *Instance
	seen map[string]map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{
		in: &Instance{
			sigs:   make(map[string]*sigEntry),
			fields: make(map[string]TupleSet),
		},
		seen: make(map[string]map[string]bool),
	}
}

// Sig declares a signature (a "this/" module prefix is dropped) and appends atoms to it.
func (b *Builder) Sig(label, parent string, atoms ...Atom) *Builder {
	label, parent = trimModule(label), trimModule(parent)
	e, ok := b.in.sigs[label]
	if !ok {
		e = &sigEntry{parent: parent}
		b.in.sigs[label] = e
		b.in.order = append(b.in.order, label)
	} else if parent != "" {
		e.parent = parent
	}
	e.atoms = append(e.atoms, atoms...)
	return b
}

// Field declares a field, so it exists even when it has no tuples.
func (b *Builder) Field(label string) *Builder {
	if _, ok := b.in.fields[label]; !ok {
		b.in.fields[label] = TupleSet{}
		b.seen[label] = make(map[string]bool)
	}
	return b
}

// Tuple appends a tuple to a field, ignoring duplicates.
func (b *Builder) Tuple(label string, atoms ...Atom) *Builder {
	b.Field(label)
	t := Tuple(append([]Atom(nil), atoms...))
	if b.seen[label][t.key()] {
		return b
	}
	b.seen[label][t.key()] = true
	b.in.fields[label] = append(b.in.fields[label], t)
	return b
}

// Build returns the instance. The builder must not be used afterwards.
func (b *Builder) Build() *Instance {
	in := b.in
	b.in = nil
	return in
}

func trimModule(label string) string {
	return strings.TrimPrefix(label, "this/")
}

// Trace is the ordered sequence of instances of one played-out scenario.
type Trace []*Instance

// Validate checks the trace invariant N >= 1.
func (t Trace) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTrace
	}
	return nil
}
