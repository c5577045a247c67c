package ports

import (
	"context"

	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/theory"
)

// TermService is the engine surface used by adapters (HTTP, MCP) that expose a
// theory and its stored terms to remote callers.
type TermService interface {
	// Theory returns the theory served by the engine.
	Theory() *theory.Theory

	// Check decodes wire data in strict mode, failing on the first violated equation.
	Check(ctx context.Context, sexp any) (*expr.Expr, error)

	// Encode converts an expression to wire data.
	Encode(e *expr.Expr) (any, error)

	// Terms lists the names of stored terms.
	Terms(ctx context.Context) ([]string, error)

	// LoadTerm loads and decodes a stored term.
	LoadTerm(ctx context.Context, name string) (*expr.Expr, error)

	// SaveTerm encodes e and stores it under name, replacing any previous term.
	SaveTerm(ctx context.Context, name string, e *expr.Expr) error

	// CreateTerm stores e under name only if the name is free (ErrTermExists otherwise).
	CreateTerm(ctx context.Context, name string, e *expr.Expr) error

	// DeleteTerm removes a stored term without decoding it.
	// Returns ErrTermNotFound if it does not exist.
	DeleteTerm(ctx context.Context, name string) error
}
