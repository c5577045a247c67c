package sexpr

import (
	"errors"
	"fmt"

	"github.com/aretw0/gatlab/pkg/algebra"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/theory"
)

// ErrReferenceDisabled is returned when a bare string appears where an expression
// is expected and the decoder has no reference resolver.
var ErrReferenceDisabled = errors.New("loading terms by reference is disabled")

// ErrMalformed is wrapped by errors about wire data that has no expression shape.
var ErrMalformed = errors.New("sexpr: malformed expression")

// Resolver loads the term referred to by name.
type Resolver func(name string) (any, error)

// DecodeOption configures a Decoder.
type DecodeOption func(*Decoder)

// WithHeadParser remaps constructor names before they are invoked.
func WithHeadParser(fn func(head string) string) DecodeOption {
	return func(d *Decoder) {
		d.parseHead = fn
	}
}

// WithReferenceResolver enables by-reference leaves.
func WithReferenceResolver(fn Resolver) DecodeOption {
	return func(d *Decoder) {
		d.resolve = fn
	}
}

// WithValueDecoder converts raw generator values after symbol conversion.
func WithValueDecoder(fn func(v any) (any, error)) DecodeOption {
	return func(d *Decoder) {
		d.decodeValue = fn
	}
}

// WithSymbols controls whether strings become expr.Symbol values (the default).
func WithSymbols(enabled bool) DecodeOption {
	return func(d *Decoder) {
		d.symbols = enabled
	}
}

// Decoder rebuilds expressions in a target algebra. The theory supplies the arity
// of type constructors for the raw-value heuristic.
type Decoder struct {
	theory      *theory.Theory
	target      algebra.Algebra
	parseHead   func(string) string
	resolve     Resolver
	decodeValue func(any) (any, error)
	symbols     bool
}

// NewDecoder creates a decoder producing values of target.
func NewDecoder(th *theory.Theory, target algebra.Algebra, opts ...DecodeOption) *Decoder {
	d := &Decoder{
		theory:  th,
		target:  target,
		symbols: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode is a one-off NewDecoder(th, target, opts...).Decode(v).
func Decode(th *theory.Theory, target algebra.Algebra, v any, opts ...DecodeOption) (any, error) {
	return NewDecoder(th, target, opts...).Decode(v)
}

// Decode rebuilds the value encoded by v.
func (d *Decoder) Decode(v any) (any, error) {
	switch v := v.(type) {
	case []any:
		return d.sequence(v)
	case string:
		return d.reference(v)
	}
	if expr.IsPrimitive(v) {
		return v, nil
	}
	return nil, fmt.Errorf("%w: unexpected %T in expression position", ErrMalformed, v)
}

func (d *Decoder) sequence(seq []any) (any, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrMalformed)
	}
	head, ok := seq[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: head must be a string, got %T", ErrMalformed, seq[0])
	}
	name := head
	if d.parseHead != nil {
		name = d.parseHead(head)
	}

	rest := seq[1:]
	arity, isType := d.theory.TypeArity(name)
	args := make([]any, len(rest))
	for i, a := range rest {
		var (
			v   any
			err error
		)
		if (i == 0 && isType && arity == len(rest)-1) || isScalar(a) {
			v, err = d.value(a)
		} else {
			v, err = d.Decode(a)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode argument %d of %s: %w", i+1, name, err)
		}
		args[i] = v
	}

	out, err := d.target.Invoke(name, args)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Decoder) reference(name string) (any, error) {
	if d.resolve == nil {
		return nil, fmt.Errorf("cannot resolve %q: %w", name, ErrReferenceDisabled)
	}
	v, err := d.resolve(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", name, err)
	}
	return v, nil
}

func (d *Decoder) value(v any) (any, error) {
	v = d.symbolize(v)
	if d.decodeValue != nil {
		return d.decodeValue(v)
	}
	return v, nil
}

func (d *Decoder) symbolize(v any) any {
	switch v := v.(type) {
	case string:
		if d.symbols {
			return expr.Symbol(v)
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = d.symbolize(x)
		}
		return out
	}
	return v
}

// isScalar reports primitives that never denote an expression (strings are references).
func isScalar(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(bool); ok {
		return true
	}
	return expr.IsNumber(v)
}
