package xlsx

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies which member of the Value variant is set.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single scalar cell value. The zero Value is Empty.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Empty returns a value that renders as a cell with no content.
func Empty() Value { return Value{} }

// Bool returns a boolean value. Booleans are written as numeric 1 or 0.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text value. Text is still subject to formula and integer
// inference when written to a sheet.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// String returns the value as it would be read back by a human.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	default:
		return ""
	}
}

// ValueOf converts a Go scalar into a Value. nil and non-scalar values
// (slices, maps, structs, pointers) become Empty.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return Empty()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return Text(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Float(f)
		}
		return Text(t.String())
	default:
		return Empty()
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

// Row converts a list of Go scalars with ValueOf.
func Row(values ...any) []Value {
	row := make([]Value, len(values))
	for i, x := range values {
		row[i] = ValueOf(x)
	}
	return row
}

// numberLiteral returns the xsd:double lexical form of a numeric value and
// false when the value has no such form.
func (v Value) numberLiteral() (string, bool) {
	switch v.kind {
	case KindBool:
		if v.b {
			return "1", true
		}
		return "0", true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return "", false
		}
		return strconv.FormatFloat(v.f, 'f', -1, 64), true
	default:
		return "", false
	}
}

// isPlainInteger reports whether s spells a positive integer without a
// leading zero or sign that fits in a signed 32-bit integer.
func isPlainInteger(s string) bool {
	if s == "" || s[0] < '1' || s[0] > '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	_, err := strconv.ParseInt(s, 10, 32)
	return err == nil
}
