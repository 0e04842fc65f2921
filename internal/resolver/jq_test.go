// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickcd/dilemma/internal/value"
)

func TestJq_Resolve(t *testing.T) {
	ctx, err := value.FromNative(map[string]any{
		"user": map[string]any{
			"name":  "ada",
			"teams": []any{"core", "infra"},
		},
	})
	require.NoError(t, err)

	j := NewJq()

	v, ok := j.Resolve([]Segment{{Name: "user"}, {Name: "name"}}, ctx)
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "ada", s)

	v, ok = j.Resolve([]Segment{{Name: "user"}, {Name: "teams"}, {HasIndex: true, Index: 1}}, ctx)
	require.True(t, ok)
	s, _ = v.AsString()
	assert.Equal(t, "infra", s)

	_, ok = j.Resolve([]Segment{{Name: "user"}, {Name: "missing"}}, ctx)
	assert.False(t, ok)
}

func TestJq_ResolveRaw(t *testing.T) {
	ctx, err := value.FromNative(map[string]any{
		"users": []any{"a", "b", "c"},
	})
	require.NoError(t, err)

	j := NewJq()
	assert.True(t, j.SupportsRaw())

	v, ok, err := j.ResolveRaw(".users | length", ctx)
	require.NoError(t, err)
	require.True(t, ok)
	n, _ := v.AsInt()
	assert.Equal(t, int64(3), n)
}

func TestJq_ResolveRaw_InvalidQuery(t *testing.T) {
	j := NewJq()
	_, _, err := j.ResolveRaw("this is not valid jq(((", value.Null)
	assert.Error(t, err)
}

func TestJq_ResolveRaw_NoResultIsNullNotError(t *testing.T) {
	j := NewJq()
	_, ok, err := j.ResolveRaw(".missing", value.Null)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJq_Name(t *testing.T) {
	assert.Equal(t, "jq", NewJq().Name())
}
