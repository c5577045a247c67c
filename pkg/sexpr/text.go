package sexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"

	"github.com/aretw0/gatlab/pkg/expr"
)

// SyntaxError reports malformed S-expression text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sexpr: syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Parse reads one S-expression in text form. Atoms become strings, except
// true, false, nil and numeric literals; double-quoted atoms are always strings.
// A ';' starts a comment running to the end of the line.
func Parse(src string) (any, error) {
	p := &textParser{src: src}
	v, err := p.form()
	if err != nil {
		return nil, err
	}
	p.skip()
	if p.pos < len(p.src) {
		return nil, &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf("unexpected %q after expression", p.src[p.pos])}
	}
	return v, nil
}

type textParser struct {
	src string
	pos int
}

func (p *textParser) skip() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == ';':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		case unicode.IsSpace(rune(c)):
			p.pos++
		default:
			return
		}
	}
}

func (p *textParser) form() (any, error) {
	p.skip()
	if p.pos >= len(p.src) {
		return nil, &SyntaxError{Offset: p.pos, Msg: "unexpected end of input"}
	}
	switch p.src[p.pos] {
	case '(':
		return p.list()
	case ')':
		return nil, &SyntaxError{Offset: p.pos, Msg: "unexpected ')'"}
	case '"':
		return p.quoted()
	}
	return p.atom(), nil
}

func (p *textParser) list() (any, error) {
	start := p.pos
	p.pos++
	out := []any{}
	for {
		p.skip()
		if p.pos >= len(p.src) {
			return nil, &SyntaxError{Offset: start, Msg: "unterminated list"}
		}
		if p.src[p.pos] == ')' {
			p.pos++
			return out, nil
		}
		v, err := p.form()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (p *textParser) quoted() (any, error) {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			s, err := strconv.Unquote(p.src[start:p.pos])
			if err != nil {
				return nil, &SyntaxError{Offset: start, Msg: err.Error()}
			}
			return s, nil
		}
		p.pos++
	}
	return nil, &SyntaxError{Offset: start, Msg: "unterminated string"}
}

func (p *textParser) atom() any {
	start := p.pos
	for p.pos < len(p.src) && !isBoundary(p.src[p.pos]) {
		p.pos++
	}
	return atomValue(p.src[start:p.pos])
}

func atomValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func isBoundary(c byte) bool {
	return c == '(' || c == ')' || c == '"' || c == ';' || unicode.IsSpace(rune(c))
}

// Format renders wire data in text form. Strings that would not read back as
// the same string are quoted.
func Format(v any) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v any) {
	switch v := v.(type) {
	case []any:
		sb.WriteByte('(')
		for i, x := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			format(sb, x)
		}
		sb.WriteByte(')')
	case nil:
		sb.WriteString("nil")
	case string:
		sb.WriteString(formatString(v))
	case expr.Symbol:
		sb.WriteString(formatString(string(v)))
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			s = fmt.Sprintf("%v", v)
		}
		sb.WriteString(s)
	}
}

func formatString(s string) string {
	if s == "" {
		return `""`
	}
	for i := 0; i < len(s); i++ {
		if isBoundary(s[i]) || s[i] < 0x20 {
			return strconv.Quote(s)
		}
	}
	if _, ok := atomValue(s).(string); !ok {
		return strconv.Quote(s)
	}
	return s
}
