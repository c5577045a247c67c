package theory

import (
	"fmt"
	"strings"
	"unicode"
)

// Parser converts the textual notation used in theory documents into terms.
//
//	Hom(A, B)            term
//	f::Hom(A, B)         binding
//	codom(f) == dom(g)   equation
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseTerm parses a single term.
func (p *Parser) ParseTerm(src string) (Term, error) {
	s := &scanner{src: src}
	t, err := s.term()
	if err != nil {
		return Term{}, fmt.Errorf("failed to parse term %q: %w", src, err)
	}
	if !s.eof() {
		return Term{}, fmt.Errorf("failed to parse term %q: unexpected %q at offset %d", src, s.rest(), s.pos)
	}
	return t, nil
}

// ParseBinding parses "name::Type".
func (p *Parser) ParseBinding(src string) (Binding, error) {
	name, typ, ok := strings.Cut(src, "::")
	if !ok {
		return Binding{}, fmt.Errorf("failed to parse binding %q: missing '::'", src)
	}
	name = strings.TrimSpace(name)
	if !isIdent(name) {
		return Binding{}, fmt.Errorf("failed to parse binding %q: invalid name %q", src, name)
	}
	t, err := p.ParseTerm(typ)
	if err != nil {
		return Binding{}, err
	}
	return Binding{Name: name, Type: t}, nil
}

// ParseEquation parses "lhs == rhs".
func (p *Parser) ParseEquation(src string) (Equation, error) {
	lhs, rhs, ok := strings.Cut(src, "==")
	if !ok {
		return Equation{}, fmt.Errorf("failed to parse equation %q: missing '=='", src)
	}
	l, err := p.ParseTerm(lhs)
	if err != nil {
		return Equation{}, err
	}
	r, err := p.ParseTerm(rhs)
	if err != nil {
		return Equation{}, err
	}
	return Equation{Lhs: l, Rhs: r}, nil
}

// MustTerm parses src and panics on error. Intended for static theory tables and tests.
func MustTerm(src string) Term {
	t, err := NewParser().ParseTerm(src)
	if err != nil {
		panic(err)
	}
	return t
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && unicode.IsSpace(rune(s.src[s.pos])) {
		s.pos++
	}
}

func (s *scanner) eof() bool {
	s.skipSpace()
	return s.pos >= len(s.src)
}

func (s *scanner) rest() string {
	return s.src[s.pos:]
}

func (s *scanner) peek() byte {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) ident() (string, error) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && !isDelim(s.src[s.pos]) {
		s.pos++
	}
	if start == s.pos {
		if s.pos >= len(s.src) {
			return "", fmt.Errorf("unexpected end of input")
		}
		return "", fmt.Errorf("expected identifier at offset %d, got %q", s.pos, s.src[s.pos])
	}
	return s.src[start:s.pos], nil
}

func (s *scanner) term() (Term, error) {
	head, err := s.ident()
	if err != nil {
		return Term{}, err
	}
	if s.peek() != '(' {
		return Sym(head), nil
	}
	s.pos++
	t := Term{Head: head, Args: []Term{}}
	if s.peek() == ')' {
		s.pos++
		return t, nil
	}
	for {
		arg, err := s.term()
		if err != nil {
			return Term{}, err
		}
		t.Args = append(t.Args, arg)
		switch s.peek() {
		case ',':
			s.pos++
		case ')':
			s.pos++
			return t, nil
		case 0:
			return Term{}, fmt.Errorf("unterminated argument list for %s", head)
		default:
			return Term{}, fmt.Errorf("expected ',' or ')' at offset %d", s.pos)
		}
	}
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', ',', ' ', '\t', '\n', '\r', ':', '=':
		return true
	}
	return false
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if isDelim(s[i]) {
			return false
		}
	}
	return true
}
