package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the closed set of value shapes an observation (or a
// rule's comparison value) may take. Modelling the bag as a tagged variant lets
// operator implementations pattern-match instead of coercing silently.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindList
)

// Value is one observation value: bool | number | string | string-list | null.
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	list []string
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean observation value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Number wraps a numeric observation value.
func Number(v float64) Value { return Value{kind: KindNumber, n: v} }

// String wraps a string observation value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// List wraps a string-list observation value.
func List(v ...string) Value { return Value{kind: KindList, list: v} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload; ok is false for other kinds.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload; ok is false for other kinds.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload; ok is false for other kinds.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the string-list payload; ok is false for other kinds.
func (v Value) AsList() ([]string, bool) { return v.list, v.kind == KindList }

// Equal reports strict equality: same kind, same payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value the way condition traces display it.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindList:
		return "[" + strings.Join(v.list, ", ") + "]"
	}
	return ""
}

// MarshalJSON encodes the payload in its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any scalar or string-list into the variant. Shapes
// outside the closed set (objects, mixed lists) decode to null so a malformed
// observation degrades to "never matches" instead of failing the request.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Null()
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Bool(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Number(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = String(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = List(list...)
		return nil
	}

	*v = Null()
	return nil
}

// ObservationMap is the flat key-value bag an inspector or device reports for
// one finding.
type ObservationMap map[string]Value

// Lookup returns the value for field and whether the field is present at all.
func (m ObservationMap) Lookup(field string) (Value, bool) {
	v, ok := m[field]
	return v, ok
}
