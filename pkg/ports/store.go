package ports

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTermNotFound is returned when a named term does not exist in a store.
	ErrTermNotFound = errors.New("term not found")
	// ErrTermExists is returned when creating a term whose name is taken.
	ErrTermExists = errors.New("term already exists")
	// ErrInvalidName is returned by ValidateName.
	ErrInvalidName = errors.New("invalid term name")
)

// TermStore defines how named terms are persisted.
// Terms are stored in their S-expression wire form (nested []any over string,
// bool, numbers and nil), so stores stay independent of any theory.
type TermStore interface {
	// Save persists the encoded term under name, replacing any previous value.
	Save(ctx context.Context, name string, sexp any) error

	// Load retrieves the encoded term stored under name.
	// Returns ErrTermNotFound if it does not exist.
	Load(ctx context.Context, name string) (any, error)

	// Delete removes the term. Deleting a missing term is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored terms.
	List(ctx context.Context) ([]string, error)
}

// ValidateName checks that name can be used as a term name by every store:
// non-empty, without path separators or whitespace.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\ \t\r\n") || name == "." || name == ".." {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}
