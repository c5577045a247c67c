package sexpr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// FromJSON reads wire data from a JSON document. Integral numbers become int,
// other numbers float64. The document must hold exactly one value.
func FromJSON(data []byte) (any, error) {
	value, typ, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("sexpr: invalid json: %w", err)
	}
	if rest := bytes.TrimSpace(data[end:]); len(rest) > 0 {
		return nil, fmt.Errorf("sexpr: invalid json: unexpected data after value at offset %d", end)
	}
	return fromJSON(value, typ)
}

func fromJSON(value []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.Array:
		out := []any{}
		var inner error
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			x, err := fromJSON(v, t)
			if err != nil {
				inner = err
				return
			}
			out = append(out, x)
		})
		if err == nil {
			err = inner
		}
		if err != nil {
			return nil, fmt.Errorf("sexpr: invalid json array: %w", err)
		}
		return out, nil
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(value); err == nil {
			return int(i), nil
		}
		return jsonparser.ParseFloat(value)
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("sexpr: json %s has no S-expression form", typ)
}

// ToJSON renders wire data as JSON.
func ToJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
