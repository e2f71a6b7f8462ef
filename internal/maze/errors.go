package maze

import (
	"errors"
	"fmt"

	"github.com/san-kum/mazeviz/internal/instance"
)

// Decode invariant violations. Any of them makes the instance undrawable.
var (
	// ErrCardinality indicates a join that did not produce exactly one tuple.
	ErrCardinality = instance.ErrCardinality

	// ErrNotInteger indicates a row or column that is not an integer atom.
	ErrNotInteger = instance.ErrNotInteger

	// ErrUnfilledCell indicates a grid cell without a square.
	ErrUnfilledCell = errors.New("maze: cell has no square")

	// ErrDuplicateCell indicates two squares resolving to the same cell.
	ErrDuplicateCell = errors.New("maze: cell has more than one square")

	// ErrOutOfBounds indicates a coordinate outside the configured grid.
	ErrOutOfBounds = errors.New("maze: coordinate outside grid")
)

// DecodeError wraps a decode invariant violation with the instance index and
// the decode stage that hit it.
type DecodeError struct {
	Index   int
	Stage   string
	Wrapped error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode instance %d: %s: %v", e.Index, e.Stage, e.Wrapped)
}

func (e *DecodeError) Unwrap() error {
	return e.Wrapped
}

func decodeErr(index int, stage string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Index: index, Stage: stage, Wrapped: err}
}
