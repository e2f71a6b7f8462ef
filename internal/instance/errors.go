package instance

import (
	"errors"
	"fmt"
)

// Domain errors for relational instance access.
var (
	// ErrSchemaViolation indicates a relation or signature name outside the allow-list,
	// or one the instance does not carry.
	ErrSchemaViolation = errors.New("instance: schema violation")

	// ErrEmptyTrace indicates a trace without any instance.
	ErrEmptyTrace = errors.New("instance: trace has no instances")

	// ErrNotInteger indicates an atom whose identifier is not an integer literal.
	ErrNotInteger = errors.New("instance: atom is not an integer")

	// ErrCardinality indicates a tuple set that was expected to hold exactly one tuple.
	ErrCardinality = errors.New("instance: expected exactly one tuple")
)

// NameError reports an unknown relation or signature name with the closest allowed one.
type NameError struct {
	Kind       string
	Name       string
	Suggestion string
}

func (e *NameError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: unknown %s %q (did you mean %q?)", ErrSchemaViolation, e.Kind, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s: unknown %s %q", ErrSchemaViolation, e.Kind, e.Name)
}

func (e *NameError) Unwrap() error {
	return ErrSchemaViolation
}
