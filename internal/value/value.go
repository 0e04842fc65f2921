// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package value implements the tagged value union that flows through every
// dilemma evaluation: null, bool, int, float, string, list, map, and date.
// The coercion and equality helpers here generalize the pair-of-dynamic-types
// dispatch technique used by the ABAC policy evaluator this module descends
// from, extended to cover dilemma's larger value set.
package value

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Kind identifies which branch of a Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged union. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
	t    time.Time
}

// Null is the null value.
var Null = Value{kind: KindNull}

func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Int(i int64) Value    { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Date(t time.Time) Value {
	return Value{kind: KindDate, t: t.UTC()}
}

// List copies the given slice so the Value remains immutable even if the
// caller mutates its backing array afterward.
func List(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// Map copies the given map for the same reason List does.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsDate() (time.Time, bool) { return v.t, v.kind == KindDate }

// AsList returns the underlying slice. Callers must not mutate it.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap returns the underlying map. Callers must not mutate it.
func (v Value) AsMap() (map[string]Value, bool) { return v.m, v.kind == KindMap }

// IsNumeric reports whether the value is an int or float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// ToFloat converts an int or float Value to float64.
func (v Value) ToFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Truthy implements the coercion rule in spec §1.5: false for null, 0, "",
// [], {}, false; true otherwise.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindList:
		return len(v.list) != 0
	case KindMap:
		return len(v.m) != 0
	case KindDate:
		return true
	default:
		return false
	}
}

// IsEmpty implements `x is $empty`: true iff null, "", [], or {}.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == ""
	case KindList:
		return len(v.list) == 0
	case KindMap:
		return len(v.m) == 0
	default:
		return false
	}
}

// Equal implements `==`/`!=` per spec §1.5: same-kind values compare
// elementwise; cross-kind is false except integer/float numeric equality.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		af, _ := a.ToFloat()
		bf, _ := b.ToFloat()
		return af == bf
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindDate:
		return a.t.Equal(b.t)
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare implements `< <= > >=`: defined on numeric pairs and string pairs
// (lexicographic) only. ok is false for any other combination (a type error
// at the evaluator layer).
func Compare(a, b Value) (cmp int, ok bool) {
	if a.IsNumeric() && b.IsNumeric() {
		af, _ := a.ToFloat()
		bf, _ := b.ToFloat()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.kind == KindString && b.kind == KindString {
		return strings.Compare(a.s, b.s), true
	}
	return 0, false
}

// Add implements `+`: numeric addition only (float if either operand is
// float). Non-numeric operands are a type error.
func Add(a, b Value) (Value, error) {
	return arith(a, b, "+",
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y })
}

func Sub(a, b Value) (Value, error) {
	return arith(a, b, "-",
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

func Mul(a, b Value) (Value, error) {
	return arith(a, b, "*",
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// ErrDivisionByZero is returned by Div when the divisor is zero.
var ErrDivisionByZero = fmt.Errorf("division by zero")

// Div implements true division: float unless both operands are int and
// divide exactly.
func Div(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Null, fmt.Errorf("/ requires numeric operands, got %s and %s", a.kind, b.kind)
	}
	af, _ := a.ToFloat()
	bf, _ := b.ToFloat()
	if bf == 0 {
		return Null, ErrDivisionByZero
	}
	if a.kind == KindInt && b.kind == KindInt && a.i%b.i == 0 {
		return Int(a.i / b.i), nil
	}
	return Float(af / bf), nil
}

func arith(a, b Value, op string, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Null, fmt.Errorf("%s requires numeric operands, got %s and %s", op, a.kind, b.kind)
	}
	if a.kind == KindInt && b.kind == KindInt {
		return Int(intOp(a.i, b.i)), nil
	}
	af, _ := a.ToFloat()
	bf, _ := b.ToFloat()
	return Float(floatOp(af, bf)), nil
}

// Negate implements unary `-`.
func Negate(a Value) (Value, error) {
	switch a.kind {
	case KindInt:
		return Int(-a.i), nil
	case KindFloat:
		return Float(-a.f), nil
	default:
		return Null, fmt.Errorf("unary - requires a numeric operand, got %s", a.kind)
	}
}

// In implements membership: list element, map key, or substring.
func In(needle, haystack Value) (bool, bool) {
	switch haystack.kind {
	case KindList:
		for _, item := range haystack.list {
			if Equal(needle, item) {
				return true, true
			}
		}
		return false, true
	case KindMap:
		key, ok := needle.AsString()
		if !ok {
			return false, true
		}
		_, found := haystack.m[key]
		return found, true
	case KindString:
		sub, ok := needle.AsString()
		if !ok {
			return false, false
		}
		return strings.Contains(haystack.s, sub), true
	default:
		return false, false
	}
}

// String renders a Value for diagnostics and CLI output. It is not meant to
// be parsed back.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return fmt.Sprintf("%.1f", v.f)
		}
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindDate:
		return v.t.Format(time.RFC3339)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, v.m[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// FromNative converts a Go native value (as produced by encoding/json or
// yaml.v3 unmarshaling, or constructed by hand by an embedding host) into a
// Value. Unsupported dynamic types produce an error.
func FromNative(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case time.Time:
		return Date(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, elem := range x {
			cv, err := FromNative(elem)
			if err != nil {
				return Null, err
			}
			items[i] = cv
		}
		return List(items), nil
	case []Value:
		return List(x), nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, elem := range x {
			cv, err := FromNative(elem)
			if err != nil {
				return Null, err
			}
			m[k] = cv
		}
		return Map(m), nil
	case map[string]Value:
		return Map(x), nil
	default:
		return Null, fmt.Errorf("value: unsupported native type %T", v)
	}
}

// MustFromNative panics on conversion failure; for use with literals known
// at compile time (e.g. CLI bootstrap).
func MustFromNative(v any) Value {
	cv, err := FromNative(v)
	if err != nil {
		panic(err)
	}
	return cv
}

// ToNative converts a Value back to a plain Go value tree, suitable for
// json.Marshal.
func (v Value) ToNative() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindDate:
		return v.t.Format(time.RFC3339)
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.ToNative()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item.ToNative()
		}
		return out
	default:
		return nil
	}
}
