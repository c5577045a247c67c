package theory

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a theory, as written in YAML files or in the
// frontmatter of Markdown theory documents.
type Document struct {
	Name  string         `yaml:"name" json:"name" mapstructure:"name"`
	Doc   string         `yaml:"doc,omitempty" json:"doc,omitempty" mapstructure:"doc"`
	Types []TypeDocument `yaml:"types" json:"types" mapstructure:"types"`
	Terms []TermDocument `yaml:"terms" json:"terms" mapstructure:"terms"`
}

// TypeDocument is the serialized form of a type constructor.
type TypeDocument struct {
	Name    string   `yaml:"name" json:"name" mapstructure:"name"`
	Params  []string `yaml:"params,omitempty" json:"params,omitempty" mapstructure:"params"`
	Context []string `yaml:"context,omitempty" json:"context,omitempty" mapstructure:"context"`
	Doc     string   `yaml:"doc,omitempty" json:"doc,omitempty" mapstructure:"doc"`
}

// TermDocument is the serialized form of a term constructor.
type TermDocument struct {
	Name      string   `yaml:"name" json:"name" mapstructure:"name"`
	Params    []string `yaml:"params,omitempty" json:"params,omitempty" mapstructure:"params"`
	Context   []string `yaml:"context,omitempty" json:"context,omitempty" mapstructure:"context"`
	Type      string   `yaml:"type" json:"type" mapstructure:"type"`
	Equations []string `yaml:"equations,omitempty" json:"equations,omitempty" mapstructure:"equations"`
	Doc       string   `yaml:"doc,omitempty" json:"doc,omitempty" mapstructure:"doc"`
}

// DecodeMap converts a generic map (decoded YAML, JSON or frontmatter) into a Document.
func DecodeMap(raw map[string]any) (*Document, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode theory document: %w", err)
	}
	return &doc, nil
}

// Parse reads a YAML theory document.
func Parse(data []byte) (*Theory, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse theory yaml: %w", err)
	}
	doc, err := DecodeMap(raw)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// Load reads a YAML theory document from path.
func Load(path string) (*Theory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theory: %w", err)
	}
	return Parse(data)
}

// Build parses the textual terms of the document and validates the result.
func (d *Document) Build() (*Theory, error) {
	p := NewParser()
	sig := Signature{Name: d.Name, Doc: d.Doc}
	var errs []error

	for _, td := range d.Types {
		ctx, err := parseContext(p, td.Context)
		if err != nil {
			errs = append(errs, &ValidationError{Constructor: td.Name, Reason: err.Error()})
			continue
		}
		sig.Types = append(sig.Types, TypeConstructor{
			Name:    td.Name,
			Params:  td.Params,
			Context: ctx,
			Doc:     td.Doc,
		})
	}

	for _, td := range d.Terms {
		ctx, err := parseContext(p, td.Context)
		if err != nil {
			errs = append(errs, &ValidationError{Constructor: td.Name, Reason: err.Error()})
			continue
		}
		typ, err := p.ParseTerm(td.Type)
		if err != nil {
			errs = append(errs, &ValidationError{Constructor: td.Name, Reason: err.Error()})
			continue
		}
		eqs := make([]Equation, 0, len(td.Equations))
		for _, src := range td.Equations {
			eq, err := p.ParseEquation(src)
			if err != nil {
				errs = append(errs, &ValidationError{Constructor: td.Name, Reason: err.Error()})
				continue
			}
			eqs = append(eqs, eq)
		}
		sig.Terms = append(sig.Terms, TermConstructor{
			Name:      td.Name,
			Params:    td.Params,
			Context:   ctx,
			Type:      typ,
			Equations: eqs,
			Doc:       td.Doc,
		})
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Theory: d.Name, Errors: errs}
	}
	return New(sig)
}

// ToDocument renders a theory back into its serialized form. Implied equations are omitted.
func ToDocument(th *Theory) *Document {
	doc := &Document{Name: th.Name(), Doc: th.Doc()}
	for _, tc := range th.Types() {
		doc.Types = append(doc.Types, TypeDocument{
			Name:    tc.Name,
			Params:  tc.Params,
			Context: contextStrings(tc.Context),
			Doc:     tc.Doc,
		})
	}
	for _, tc := range th.Terms() {
		td := TermDocument{
			Name:    tc.Name,
			Params:  tc.Params,
			Context: contextStrings(tc.Context),
			Type:    tc.Type.String(),
			Doc:     tc.Doc,
		}
		for _, eq := range tc.DeclaredEquations() {
			td.Equations = append(td.Equations, eq.String())
		}
		doc.Terms = append(doc.Terms, td)
	}
	return doc
}

func parseContext(p *Parser, src []string) (Context, error) {
	ctx := make(Context, 0, len(src))
	for _, s := range src {
		b, err := p.ParseBinding(s)
		if err != nil {
			return nil, err
		}
		ctx = append(ctx, b)
	}
	return ctx, nil
}

func contextStrings(ctx Context) []string {
	out := make([]string, len(ctx))
	for i, b := range ctx {
		out[i] = b.String()
	}
	return out
}
