package ports

import (
	"context"

	"github.com/aretw0/gatlab/pkg/theory"
)

// TheoryLoader resolves a theory reference into a validated theory.
// The meaning of ref is loader specific (a document ID, a path, a library name).
type TheoryLoader interface {
	LoadTheory(ctx context.Context, ref string) (*theory.Theory, error)
}

// Watchable is implemented by loaders that can signal changes to their theories.
type Watchable interface {
	// Watch emits the reference of every changed theory until ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
