package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/gatlab/pkg/ports"
	"github.com/aretw0/gatlab/pkg/sexpr"
)

const ext = ".json"

// Store implements ports.TermStore using the local filesystem.
// Each term is a JSON file holding its S-expression, named after the term.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".gatlab/terms".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".gatlab", "terms")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, name+ext)
}

// Save writes the term atomically: to a temporary file first, synced and then
// renamed over the destination.
func (s *Store) Save(ctx context.Context, name string, sexp any) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure term directory: %w", err)
	}

	data, err := sexpr.ToJSON(sexp)
	if err != nil {
		return fmt.Errorf("failed to marshal term: %w", err)
	}

	// Same directory as the destination: rename is only atomic within a filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.path(name)
	if _, err := os.Stat(dest); err == nil {
		// os.Rename does not replace an existing file on Windows.
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove existing term file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the term stored under name.
func (s *Store) Load(ctx context.Context, name string) (any, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrTermNotFound
		}
		return nil, fmt.Errorf("failed to read term file: %w", err)
	}
	sexp, err := sexpr.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal term %s: %w", name, err)
	}
	return sexp, nil
}

// Delete removes the term file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete term file: %w", err)
	}
	return nil
}

// List returns the names of all term files, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || filepath.Ext(file) != ext || strings.HasPrefix(file, "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(file, ext))
	}
	sort.Strings(names)
	return names, nil
}
