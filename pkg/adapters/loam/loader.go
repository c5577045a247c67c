// Package loam loads theories from Markdown documents through the Loam
// document repository.
//
// A theory document keeps its signature in the YAML frontmatter, using the
// same keys as YAML theory files, and its prose in the body:
//
//	---
//	name: Category
//	types:
//	  - name: Ob
//	  - name: Hom
//	    params: [dom, codom]
//	    context: ["dom::Ob", "codom::Ob"]
//	terms:
//	  - ...
//	---
//	Categories have objects and composable morphisms.
//
// The body becomes the theory documentation unless the frontmatter sets doc.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/gatlab/pkg/theory"
)

// Loader adapts a Loam repository to ports.TheoryLoader.
type Loader struct {
	Repo *loam.TypedRepository[theory.Document]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[theory.Document]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository rooted at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// The engine never writes theories; read-only avoids Loam's sandboxing.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[theory.Document](repo)), nil
}

// LoadTheory reads the document id (with or without its extension) and builds
// the theory it declares.
func (l *Loader) LoadTheory(ctx context.Context, id string) (*theory.Theory, error) {
	doc, err := l.Repo.Get(ctx, trimExtension(id))
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	d := doc.Data
	if d.Name == "" {
		d.Name = filepath.Base(trimExtension(doc.ID))
	}
	if d.Doc == "" {
		d.Doc = strings.TrimSpace(doc.Content)
	}

	th, err := d.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid theory document %s: %w", id, err)
	}
	return th, nil
}

// List returns the IDs of all documents in the repository, without extensions.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := trimExtension(doc.ID)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch signals the ID of every changed theory document until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
