package sexpr

import (
	"fmt"

	"github.com/aretw0/gatlab/pkg/expr"
)

// EncodeOption configures Encode.
type EncodeOption func(*encoder)

type encoder struct {
	byReference func(v any) bool
	encodeValue func(v any) (any, error)
}

// WithByReference flags generator values that are emitted alone, as references
// resolved by name when decoding.
func WithByReference(pred func(v any) bool) EncodeOption {
	return func(e *encoder) {
		e.byReference = pred
	}
}

// WithValueEncoder converts generator values and primitive arguments into wire
// values. The default accepts symbols, strings, bools, numbers and nil.
func WithValueEncoder(fn func(v any) (any, error)) EncodeOption {
	return func(e *encoder) {
		e.encodeValue = fn
	}
}

// Encode converts e into its wire form: a []any, or a bare value for a
// by-reference generator.
func Encode(e *expr.Expr, opts ...EncodeOption) (any, error) {
	enc := &encoder{
		byReference: func(any) bool { return false },
		encodeValue: EncodeValue,
	}
	for _, opt := range opts {
		opt(enc)
	}
	return enc.encode(e)
}

func (enc *encoder) encode(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("sexpr: cannot encode nil expression")
	}
	if v, ok := e.Value(); ok && enc.byReference(v) {
		return enc.arg(v)
	}

	out := []any{e.Constructor()}
	for _, a := range e.CallArgs() {
		v, err := enc.arg(a)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", e.Constructor(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (enc *encoder) arg(a any) (any, error) {
	if sub, ok := a.(*expr.Expr); ok {
		return enc.encode(sub)
	}
	return enc.encodeValue(a)
}

// EncodeValue is the default value encoder.
func EncodeValue(v any) (any, error) {
	switch v := v.(type) {
	case expr.Symbol:
		return string(v), nil
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			enc, err := EncodeValue(x)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	}
	if expr.IsPrimitive(v) {
		return v, nil
	}
	return nil, fmt.Errorf("value %v of type %T has no S-expression form", v, v)
}
