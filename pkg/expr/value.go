package expr

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// value tags keep hashes of different value domains apart.
const (
	tagNil byte = iota
	tagBool
	tagNumber
	tagString
	tagSymbol
	tagExpr
	tagList
	tagOther
)

// ValueEqual compares two argument values: expressions structurally, numbers by
// numeric value regardless of their Go type, []any element by element, everything
// else with reflect.DeepEqual.
func ValueEqual(a, b any) bool {
	if ea, ok := a.(*Expr); ok {
		eb, ok := b.(*Expr)
		return ok && ea.Equal(eb)
	}
	if _, ok := b.(*Expr); ok {
		return false
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if la, ok := a.([]any); ok {
		lb, ok := b.([]any)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !ValueEqual(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// HashValue hashes an argument value consistently with ValueEqual.
func HashValue(v any) uint64 {
	d := xxhash.New()
	writeValue(d, v)
	return d.Sum64()
}

func (e *Expr) computeHash() uint64 {
	d := xxhash.New()
	d.Write([]byte{byte(e.kind)})
	writeString(d, e.sort)
	writeString(d, e.head)
	writeUint(d, uint64(len(e.args)))
	for _, a := range e.args {
		writeValue(d, a)
	}
	writeUint(d, uint64(len(e.typeArgs)))
	for _, t := range e.typeArgs {
		writeUint(d, t.Hash())
	}
	return d.Sum64()
}

func writeValue(d *xxhash.Digest, v any) {
	switch v := v.(type) {
	case nil:
		d.Write([]byte{tagNil})
	case *Expr:
		d.Write([]byte{tagExpr})
		if v != nil {
			writeUint(d, v.Hash())
		}
	case []any:
		d.Write([]byte{tagList})
		writeUint(d, uint64(len(v)))
		for _, x := range v {
			writeValue(d, x)
		}
	case bool:
		d.Write([]byte{tagBool})
		if v {
			d.Write([]byte{1})
		} else {
			d.Write([]byte{0})
		}
	case string:
		d.Write([]byte{tagString})
		writeString(d, v)
	case Symbol:
		d.Write([]byte{tagSymbol})
		writeString(d, string(v))
	default:
		if f, ok := toFloat(v); ok {
			d.Write([]byte{tagNumber})
			if f == 0 {
				f = 0 // collapse -0
			}
			writeUint(d, math.Float64bits(f))
			return
		}
		d.Write([]byte{tagOther})
		writeString(d, fmt.Sprintf("%T:%#v", v, v))
	}
}

func writeString(d *xxhash.Digest, s string) {
	writeUint(d, uint64(len(s)))
	d.WriteString(s)
}

func writeUint(d *xxhash.Digest, n uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	d.Write(buf[:])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// IsPrimitive reports whether v belongs to the primitive wire domain
// (nil, bool, number, string or Symbol).
func IsPrimitive(v any) bool {
	switch v.(type) {
	case nil, bool, string, Symbol:
		return true
	}
	_, ok := toFloat(v)
	return ok
}

// IsNumber reports whether v is a Go numeric value.
func IsNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}
