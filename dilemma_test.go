// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package dilemma_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickcd/dilemma"
	"github.com/patrickcd/dilemma/internal/resolver"
	"github.com/patrickcd/dilemma/internal/value"
)

func TestEvaluate_Basic(t *testing.T) {
	ctx := dilemma.MustFromNative(map[string]any{
		"user": map[string]any{"age": 21, "name": "Ada Lovelace"},
	})

	v, err := dilemma.Evaluate(`user.age >= 18 and user.name like "Ada*"`, ctx)
	require.NoError(t, err)
	assert.True(t, v.Truthy())
}

func TestEvaluate_RepeatedSourceHitsCache(t *testing.T) {
	ctx := dilemma.MustFromNative(map[string]any{"n": 2})
	for i := 0; i < 5; i++ {
		v, err := dilemma.Evaluate("n * 21", ctx)
		require.NoError(t, err)
		n, _ := v.AsInt()
		assert.Equal(t, int64(42), n)
	}
}

func TestCompile_ParseErrorHasSpan(t *testing.T) {
	_, err := dilemma.Compile("user.age >=")
	require.Error(t, err)

	var derr *dilemma.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dilemma.CategoryParse, derr.Category)
	assert.NotEmpty(t, derr.Span)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	_, err := dilemma.Evaluate("1 / 0", dilemma.Null)
	require.Error(t, err)

	var derr *dilemma.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dilemma.CategoryDivisionByZero, derr.Category)
}

func TestRegisterResolver_CustomIsRegistered(t *testing.T) {
	err := dilemma.RegisterResolver("custom-test", resolver.NewBasic(), false)
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", dilemma.Version())
}

func TestValue_ConstructorsRoundTrip(t *testing.T) {
	v := dilemma.List([]dilemma.Value{dilemma.Int(1), dilemma.String("two")})
	items, ok := v.AsList()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, value.KindInt, items[0].Kind())
}
