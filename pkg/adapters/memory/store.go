package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/gatlab/pkg/ports"
)

// Store implements ports.TermStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]any
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]any),
	}
}

// Save keeps a deep copy of sexp, so later mutations by the caller are not seen.
func (s *Store) Save(ctx context.Context, name string, sexp any) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	copied := clone(sexp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load returns a copy of the stored term.
func (s *Store) Load(ctx context.Context, name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sexp, ok := s.data[name]
	if !ok {
		return nil, ports.ErrTermNotFound
	}
	return clone(sexp), nil
}

// Delete removes the term.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func clone(v any) any {
	seq, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(seq))
	for i, x := range seq {
		out[i] = clone(x)
	}
	return out
}
