// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickcd/dilemma/internal/value"
)

func TestJSONPath_Resolve(t *testing.T) {
	ctx, err := value.FromNative(map[string]any{
		"user": map[string]any{
			"name":  "ada",
			"teams": []any{"core", "infra"},
		},
	})
	require.NoError(t, err)

	jp := NewJSONPath()

	v, ok := jp.Resolve([]Segment{{Name: "user"}, {Name: "name"}}, ctx)
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "ada", s)

	v, ok = jp.Resolve([]Segment{{Name: "user"}, {Name: "teams"}, {HasIndex: true, Index: 1}}, ctx)
	require.True(t, ok)
	s, _ = v.AsString()
	assert.Equal(t, "infra", s)

	_, ok = jp.Resolve([]Segment{{Name: "user"}, {Name: "missing"}}, ctx)
	assert.False(t, ok)
}

func TestJSONPath_ResolveRaw(t *testing.T) {
	ctx, err := value.FromNative(map[string]any{
		"users": []any{"a", "b", "c"},
	})
	require.NoError(t, err)

	jp := NewJSONPath()
	assert.True(t, jp.SupportsRaw())

	v, ok, err := jp.ResolveRaw("$.users[0]", ctx)
	require.NoError(t, err)
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "a", s)
}

func TestJSONPath_ResolveRaw_InvalidQuery(t *testing.T) {
	jp := NewJSONPath()
	_, _, err := jp.ResolveRaw("$[", value.Null)
	assert.Error(t, err)
}

func TestJSONPath_Name(t *testing.T) {
	assert.Equal(t, "jsonpath", NewJSONPath().Name())
}
