// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package value_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickcd/dilemma/internal/value"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"null", value.Null, false},
		{"false", value.Bool(false), false},
		{"true", value.Bool(true), true},
		{"zero int", value.Int(0), false},
		{"nonzero int", value.Int(1), true},
		{"zero float", value.Float(0), false},
		{"empty string", value.String(""), false},
		{"nonempty string", value.String("x"), true},
		{"empty list", value.List(nil), false},
		{"nonempty list", value.List([]value.Value{value.Int(1)}), true},
		{"empty map", value.Map(nil), false},
		{"nonempty map", value.Map(map[string]value.Value{"a": value.Int(1)}), true},
		{"date", value.Date(time.Now()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Truthy())
		})
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, value.Null.IsEmpty())
	assert.True(t, value.String("").IsEmpty())
	assert.True(t, value.List(nil).IsEmpty())
	assert.True(t, value.Map(nil).IsEmpty())
	assert.False(t, value.String("x").IsEmpty())
	assert.False(t, value.Int(0).IsEmpty(), "zero int is not empty, only null/\"\"/[]/{} are")
}

func TestEqual_CrossKindNumeric(t *testing.T) {
	assert.True(t, value.Equal(value.Int(2), value.Float(2.0)))
	assert.False(t, value.Equal(value.Int(2), value.Float(2.5)))
}

func TestEqual_MismatchedNonNumericKindsAreFalse(t *testing.T) {
	assert.False(t, value.Equal(value.String("2"), value.Int(2)))
	assert.False(t, value.Equal(value.Bool(true), value.String("true")))
}

func TestEqual_ListsAndMaps(t *testing.T) {
	a := value.List([]value.Value{value.Int(1), value.String("x")})
	b := value.List([]value.Value{value.Int(1), value.String("x")})
	c := value.List([]value.Value{value.Int(1), value.String("y")})
	assert.True(t, value.Equal(a, b))
	assert.False(t, value.Equal(a, c))

	m1 := value.Map(map[string]value.Value{"k": value.Int(1)})
	m2 := value.Map(map[string]value.Value{"k": value.Int(1)})
	m3 := value.Map(map[string]value.Value{"k": value.Int(2)})
	assert.True(t, value.Equal(m1, m2))
	assert.False(t, value.Equal(m1, m3))
}

func TestCompare_NumericAndString(t *testing.T) {
	cmp, ok := value.Compare(value.Int(1), value.Float(2))
	require.True(t, ok)
	assert.Negative(t, cmp)

	cmp, ok = value.Compare(value.String("a"), value.String("b"))
	require.True(t, ok)
	assert.Negative(t, cmp)
}

func TestCompare_UndefinedForMismatchedKinds(t *testing.T) {
	_, ok := value.Compare(value.String("a"), value.Int(1))
	assert.False(t, ok)
}

func TestArithmetic_IntAndFloatPromotion(t *testing.T) {
	sum, err := value.Add(value.Int(2), value.Int(3))
	require.NoError(t, err)
	n, _ := sum.AsInt()
	assert.Equal(t, int64(5), n)

	sum, err = value.Add(value.Int(2), value.Float(3.5))
	require.NoError(t, err)
	f, _ := sum.AsFloat()
	assert.Equal(t, 5.5, f)
}

func TestAdd_StringOperandsAreTypeError(t *testing.T) {
	_, err := value.Add(value.String("foo"), value.String("bar"))
	assert.Error(t, err, "+ is numeric-only; string concatenation is not part of the language")
}

func TestAdd_MixedTypesErrors(t *testing.T) {
	_, err := value.Add(value.String("foo"), value.Int(1))
	assert.Error(t, err)
}

func TestDiv_ExactIntegerStaysInt(t *testing.T) {
	v, err := value.Div(value.Int(6), value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, value.KindInt, v.Kind())
	n, _ := v.AsInt()
	assert.Equal(t, int64(2), n)
}

func TestDiv_InexactIntegerBecomesFloat(t *testing.T) {
	v, err := value.Div(value.Int(7), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.KindFloat, v.Kind())
	f, _ := v.AsFloat()
	assert.Equal(t, 3.5, f)
}

func TestDiv_ByZero(t *testing.T) {
	_, err := value.Div(value.Int(1), value.Int(0))
	assert.ErrorIs(t, err, value.ErrDivisionByZero)
}

func TestNegate(t *testing.T) {
	v, err := value.Negate(value.Int(5))
	require.NoError(t, err)
	n, _ := v.AsInt()
	assert.Equal(t, int64(-5), n)

	_, err = value.Negate(value.String("x"))
	assert.Error(t, err)
}

func TestIn_ListMapString(t *testing.T) {
	ok, known := value.In(value.String("b"), value.List([]value.Value{value.String("a"), value.String("b")}))
	assert.True(t, known)
	assert.True(t, ok)

	ok, known = value.In(value.String("z"), value.List([]value.Value{value.String("a")}))
	assert.True(t, known)
	assert.False(t, ok)

	ok, known = value.In(value.String("k"), value.Map(map[string]value.Value{"k": value.Int(1)}))
	assert.True(t, known)
	assert.True(t, ok)

	ok, known = value.In(value.String("ell"), value.String("hello"))
	assert.True(t, known)
	assert.True(t, ok)
}

func TestFromNative_RoundTrip(t *testing.T) {
	native := map[string]any{
		"name":  "Ada",
		"age":   30,
		"score": 9.5,
		"tags":  []any{"a", "b"},
		"meta":  map[string]any{"active": true},
	}
	v, err := value.FromNative(native)
	require.NoError(t, err)
	assert.Equal(t, value.KindMap, v.Kind())

	back := v.ToNative()
	m, ok := back.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", m["name"])
}

func TestFromNative_UnsupportedType(t *testing.T) {
	_, err := value.FromNative(make(chan int))
	assert.Error(t, err)
}

func TestString_Rendering(t *testing.T) {
	assert.Equal(t, "null", value.Null.String())
	assert.Equal(t, "true", value.Bool(true).String())
	assert.Equal(t, "42", value.Int(42).String())
	assert.Equal(t, `"hi"`, value.String("hi").String())
}
