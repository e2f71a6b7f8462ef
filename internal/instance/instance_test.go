package instance

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Instance {
	return NewBuilder().
		Sig("Int", "univ", "0", "1").
		Sig("this/Player", "univ").
		Sig("this/Theseus", "this/Player", "Theseus0").
		Sig("this/Minotaur", "this/Player", "Minotaur0").
		Sig("this/Square", "univ", "Square0", "Square1").
		Tuple("row", "Square0", "0").
		Tuple("row", "Square1", "0").
		Tuple("col", "Square0", "0").
		Tuple("col", "Square1", "1").
		Tuple("location", "Theseus0", "Square1").
		Tuple("location", "Minotaur0", "Square0").
		Tuple("connections", "Square0", "Square1").
		Tuple("connections", "Square0", "Square1").
		Build()
}

func TestSignatureIncludesDescendants(t *testing.T) {
	in := sample()

	players, ok := in.Signature("Player")
	require.True(t, ok)
	assert.ElementsMatch(t, []Atom{"Theseus0", "Minotaur0"}, players.Atoms())

	all, ok := in.Signature("univ")
	require.True(t, ok)
	assert.Len(t, all, 6)

	_, ok = in.Signature("Game")
	assert.False(t, ok)
}

func TestBuilderDropsDuplicateTuples(t *testing.T) {
	conns, ok := sample().Field("connections")
	require.True(t, ok)
	assert.Len(t, conns, 1)
}

func TestJoin(t *testing.T) {
	in := sample()
	loc, _ := in.Field("location")
	row, _ := in.Field("row")

	theseus, _ := in.Signature("Theseus")
	sq, err := theseus.Join(loc).SingleAtom()
	require.NoError(t, err)
	assert.Equal(t, Atom("Square1"), sq)

	players, _ := in.Signature("Player")
	rows := players.Join(loc).Join(row)
	assert.Equal(t, TupleSet{{"0"}}, rows, "both squares share row 0 and the result is deduplicated")

	assert.Nil(t, TupleSet(nil).Join(row))
}

func TestSingleCardinality(t *testing.T) {
	_, err := TupleSet{}.Single()
	require.ErrorIs(t, err, ErrCardinality)

	_, err = Unary("a", "b").SingleAtom()
	require.ErrorIs(t, err, ErrCardinality)

	_, err = TupleSet{{"a", "b"}}.SingleAtom()
	require.ErrorIs(t, err, ErrCardinality)

	a, err := Unary("a").SingleAtom()
	require.NoError(t, err)
	assert.Equal(t, Atom("a"), a)
}

func TestIntValue(t *testing.T) {
	v, err := IntValue("-3")
	require.NoError(t, err)
	assert.Equal(t, -3, v)

	_, err = IntValue("Square0")
	require.ErrorIs(t, err, ErrNotInteger)
}

func TestParseNames(t *testing.T) {
	r, err := ParseRelation("connections")
	require.NoError(t, err)
	assert.Equal(t, Connections, r)

	s, err := ParseSig("MinotaurTurn2")
	require.NoError(t, err)
	assert.Equal(t, MinotaurTurn2, s)

	_, err = ParseRelation("connection")
	require.ErrorIs(t, err, ErrSchemaViolation)
	var ne *NameError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "connections", ne.Suggestion)

	_, err = ParseSig("Dragon")
	require.ErrorIs(t, err, ErrSchemaViolation)
	require.True(t, errors.As(err, &ne))
	assert.Empty(t, ne.Suggestion)
}

func TestAllowListIsExhaustive(t *testing.T) {
	assert.Len(t, Relations(), 7)
	assert.Len(t, Sigs(), 12)
	for _, r := range Relations() {
		parsed, err := ParseRelation(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	for _, s := range Sigs() {
		parsed, err := ParseSig(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

type cursor int

func (c cursor) Index() int { return int(c) }

func TestAccessorReportsViolations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	acc := NewAccessor(Trace{sample()}, logger)

	assert.Empty(t, acc.Relation(Relation(42)))
	assert.Contains(t, buf.String(), "outside allow-list")

	buf.Reset()
	assert.Empty(t, acc.Relation(Turn))
	assert.Contains(t, buf.String(), "missing from instance")

	buf.Reset()
	assert.Empty(t, acc.SigAt(Square, 5))
	assert.Contains(t, buf.String(), "index out of range")

	buf.Reset()
	assert.Len(t, acc.Sig(Square), 2)
	assert.Empty(t, buf.String())
}

func TestAccessorFollowsBoundCursor(t *testing.T) {
	second := NewBuilder().Sig("Square", "univ", "Square9").Build()
	acc := NewAccessor(Trace{sample(), second}, nil)

	assert.Len(t, acc.Sig(Square), 2)
	acc.Bind(cursor(1))
	assert.Equal(t, []Atom{"Square9"}, acc.Sig(Square).Atoms())
	assert.Len(t, acc.SigAt(Square, 0), 2)
}

func TestTraceValidate(t *testing.T) {
	require.ErrorIs(t, Trace{}.Validate(), ErrEmptyTrace)
	require.NoError(t, Trace{sample()}.Validate())
}
