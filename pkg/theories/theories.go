// Package theories is a small library of standard theories. Each constructor
// function parses its embedded document and returns a fresh *theory.Theory.
package theories

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/gatlab/pkg/theory"
)

//go:embed *.yaml
var files embed.FS

var library = map[string]string{
	"category":           "category.yaml",
	"monoidal":           "monoidal.yaml",
	"symmetric-monoidal": "symmetric_monoidal.yaml",
}

// Category returns the theory of categories.
func Category() *theory.Theory { return mustLoad("category.yaml") }

// MonoidalCategory returns the theory of strict monoidal categories.
func MonoidalCategory() *theory.Theory { return mustLoad("monoidal.yaml") }

// SymmetricMonoidalCategory returns the theory of symmetric monoidal categories.
func SymmetricMonoidalCategory() *theory.Theory { return mustLoad("symmetric_monoidal.yaml") }

// Lookup returns a library theory by short name ("category") or by theory name
// ("Category"), case-insensitively.
func Lookup(name string) (*theory.Theory, error) {
	key := strings.ToLower(name)
	if file, ok := library[key]; ok {
		return load(file)
	}
	for _, file := range library {
		th, err := load(file)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(th.Name(), name) {
			return th, nil
		}
	}
	return nil, fmt.Errorf("unknown theory %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the short names accepted by Lookup.
func Names() []string {
	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func load(file string) (*theory.Theory, error) {
	data, err := files.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return theory.Parse(data)
}

func mustLoad(file string) *theory.Theory {
	th, err := load(file)
	if err != nil {
		panic(fmt.Sprintf("theories: embedded %s is invalid: %v", file, err))
	}
	return th
}
