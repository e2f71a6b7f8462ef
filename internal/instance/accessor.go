package instance

import (
	"log/slog"
)

// IndexSource supplies the instance index used when a query does not name one.
type IndexSource interface {
	Index() int
}

type fixedIndex int

func (f fixedIndex) Index() int { return int(f) }

// Accessor is the only path from the rest of the program to instance data.
// Every query is checked against the Relation and Sig allow-lists; a violation
// is logged and answered with an empty set.
type Accessor struct {
	trace  Trace
	cursor IndexSource
	logger *slog.Logger
}

// NewAccessor wraps a trace. The accessor starts bound to index 0; see Bind.
func NewAccessor(trace Trace, logger *slog.Logger) *Accessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{trace: trace, cursor: fixedIndex(0), logger: logger}
}

// Bind makes Relation and Sig read at src's current index.
func (a *Accessor) Bind(src IndexSource) {
	if src == nil {
		src = fixedIndex(0)
	}
	a.cursor = src
}

// Len is the number of instances in the trace.
func (a *Accessor) Len() int { return len(a.trace) }

// Relation reads a field at the bound index.
func (a *Accessor) Relation(name Relation) TupleSet {
	return a.RelationAt(name, a.cursor.Index())
}

// Sig reads a signature at the bound index.
func (a *Accessor) Sig(name Sig) TupleSet {
	return a.SigAt(name, a.cursor.Index())
}

// RelationAt reads a field at an explicit index.
func (a *Accessor) RelationAt(name Relation, index int) TupleSet {
	if !name.Valid() {
		a.violation("relation", name.String(), index, "name outside allow-list")
		return TupleSet{}
	}
	in, ok := a.at(index)
	if !ok {
		a.violation("relation", name.String(), index, "index out of range")
		return TupleSet{}
	}
	ts, ok := in.Field(name.String())
	if !ok {
		a.violation("relation", name.String(), index, "missing from instance"+hint(in.FieldLabels(), name.String()))
		return TupleSet{}
	}
	return ts
}

// SigAt reads a signature at an explicit index.
func (a *Accessor) SigAt(name Sig, index int) TupleSet {
	if !name.Valid() {
		a.violation("signature", name.String(), index, "name outside allow-list")
		return TupleSet{}
	}
	in, ok := a.at(index)
	if !ok {
		a.violation("signature", name.String(), index, "index out of range")
		return TupleSet{}
	}
	ts, ok := in.Signature(name.String())
	if !ok {
		a.violation("signature", name.String(), index, "missing from instance"+hint(in.SigLabels(), name.String()))
		return TupleSet{}
	}
	return ts
}

func (a *Accessor) at(index int) (*Instance, bool) {
	if index < 0 || index >= len(a.trace) || a.trace[index] == nil {
		return nil, false
	}
	return a.trace[index], true
}

func (a *Accessor) violation(kind, name string, index int, reason string) {
	a.logger.Warn("schema violation",
		"kind", kind,
		"name", name,
		"index", index,
		"reason", reason,
		"error", ErrSchemaViolation,
	)
}

func hint(labels []string, name string) string {
	if s := suggest(name, labels); s != "" {
		return " (instance has " + s + ")"
	}
	return ""
}
