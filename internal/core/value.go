package core

// value.go defines the typed scalar produced by coercion.
//
// A Value is a tagged union: Kind selects which payload field is meaningful,
// the others stay at their zero values. This keeps coercion total under
// static typing: every raw token maps to some Value, never to an error.

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/goccy/go-json"
)

// Kind tags the active payload of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindStructured
	KindString
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindStructured:
		return "structured"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a single coerced cell.
type Value struct {
	Kind       Kind
	Int        int64   // KindInteger
	Float      float64 // KindFloat (NaN marks an unparseable numeric token)
	Bool       bool    // KindBoolean
	Structured any     // KindStructured: nil, bool, float64, string, []any, map[string]any
	Str        string  // KindString
}

// Null returns the null value.
func Null() Value { return Value{} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// NaN returns the not-a-number marker used for unparseable numeric tokens.
func NaN() Value { return Value{Kind: KindFloat, Float: math.NaN()} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Structured returns a value holding decoded JSON data.
func Structured(v any) Value { return Value{Kind: KindStructured, Structured: v} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsNaN reports whether v is the not-a-number marker.
func (v Value) IsNaN() bool { return v.Kind == KindFloat && math.IsNaN(v.Float) }

// Number returns v as a float64 for numeric kinds.
// Returns false for non-numeric kinds and for the NaN marker.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindFloat:
		if math.IsNaN(v.Float) {
			return 0, false
		}
		return v.Float, true
	default:
		return 0, false
	}
}

// Any returns the Go-native payload of v.
func (v Value) Any() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBoolean:
		return v.Bool
	case KindStructured:
		return v.Structured
	case KindString:
		return v.Str
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
// Two NaN markers are considered equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInteger:
		return v.Int == o.Int
	case KindFloat:
		if v.IsNaN() || o.IsNaN() {
			return v.IsNaN() && o.IsNaN()
		}
		return v.Float == o.Float
	case KindBoolean:
		return v.Bool == o.Bool
	case KindStructured:
		return reflect.DeepEqual(v.Structured, o.Structured)
	default:
		return v.Str == o.Str
	}
}

// String renders v for logs and CLI output.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		if v.IsNaN() {
			return "NaN"
		}
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindStructured:
		b, err := json.Marshal(v.Structured)
		if err != nil {
			return fmt.Sprintf("%v", v.Structured)
		}
		return string(b)
	default:
		return v.Str
	}
}

// MarshalJSON encodes the payload directly. NaN and infinities encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindInteger:
		return strconv.AppendInt(nil, v.Int, 10), nil
	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return []byte("null"), nil
		}
		return strconv.AppendFloat(nil, v.Float, 'g', -1, 64), nil
	case KindBoolean:
		return strconv.AppendBool(nil, v.Bool), nil
	case KindStructured:
		return json.Marshal(v.Structured)
	default:
		return json.Marshal(v.Str)
	}
}

// Row maps column names to coerced values.
type Row map[string]Value

// Get returns the value for col, or Null if the column is absent.
func (r Row) Get(col string) Value {
	return r[col]
}

// clone returns a shallow copy of r. Structured payloads are shared.
func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
