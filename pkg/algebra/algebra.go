// Package algebra provides the reflective invoker: a uniform way to apply a
// constructor of any model of a theory by name.
//
// The expression syntax of a theory (package syntax) is one algebra; Table lets
// callers assemble others from plain Go functions, so that theory-agnostic
// algorithms such as functor evaluation and S-expression decoding never hard-code
// a constructor name.
package algebra

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/aretw0/gatlab/pkg/theory"
)

// ErrUnknownConstructor is wrapped by every lookup failure of an algebra.
var ErrUnknownConstructor = errors.New("unknown constructor")

// UnknownConstructorError names the constructor that could not be found.
type UnknownConstructorError struct {
	Algebra string
	Name    string
}

func (e *UnknownConstructorError) Error() string {
	if e.Algebra == "" {
		return fmt.Sprintf("%s: %s", ErrUnknownConstructor, e.Name)
	}
	return fmt.Sprintf("%s %q in algebra %s", ErrUnknownConstructor, e.Name, e.Algebra)
}

func (e *UnknownConstructorError) Unwrap() error { return ErrUnknownConstructor }

// Algebra applies constructors by name. It is the same method set as
// theory.Invoker, so theory default implementations can run in any algebra.
type Algebra interface {
	Invoke(name string, args []any) (any, error)
}

// Func implements one constructor of a Table.
type Func func(args []any) (any, error)

// Invoke is a variadic convenience around a.Invoke.
func Invoke(a Algebra, name string, args ...any) (any, error) {
	return a.Invoke(name, args)
}

// Table is an algebra assembled from named functions.
// It is not safe for concurrent registration; register everything before use.
type Table struct {
	name     string
	funcs    map[string]Func
	included []Algebra
	theory   *theory.Theory
}

// Option configures a Table.
type Option func(*Table)

// WithTheory makes the table fall back to the theory's default implementations
// for term constructors that were not registered.
func WithTheory(th *theory.Theory) Option {
	return func(t *Table) {
		t.theory = th
	}
}

// Including nests other algebras: names not registered in the table are looked up
// in each of them, in order.
func Including(algebras ...Algebra) Option {
	return func(t *Table) {
		t.included = append(t.included, algebras...)
	}
}

// NewTable creates an empty table.
func NewTable(name string, opts ...Option) *Table {
	t := &Table{
		name:  name,
		funcs: make(map[string]Func),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Register adds a constructor to the table.
// If a constructor with the same name exists, it is overwritten.
func (t *Table) Register(name string, fn Func) *Table {
	t.funcs[name] = fn
	return t
}

// Include nests another algebra after the ones already included.
func (t *Table) Include(a Algebra) *Table {
	t.included = append(t.included, a)
	return t
}

// Names returns the names registered directly in the table, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.funcs))
	for name := range t.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke looks up name and applies it to args.
// Lookup order: registered functions, theory defaults, included algebras.
func (t *Table) Invoke(name string, args []any) (any, error) {
	if fn, ok := t.funcs[name]; ok {
		return fn(slices.Clone(args))
	}
	if t.theory != nil {
		if tc, ok := t.theory.Term(name); ok && tc.Default != nil {
			return tc.Default(t, slices.Clone(args))
		}
	}
	for _, a := range t.included {
		out, err := a.Invoke(name, args)
		if errors.Is(err, ErrUnknownConstructor) {
			var unknown *UnknownConstructorError
			if errors.As(err, &unknown) && unknown.Name == name {
				continue
			}
		}
		return out, err
	}
	return nil, &UnknownConstructorError{Algebra: t.name, Name: name}
}
