// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package batch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickcd/dilemma/internal/batch"
	"github.com/patrickcd/dilemma/internal/compile"
	"github.com/patrickcd/dilemma/internal/resolver"
)

func TestCheck_AllValid(t *testing.T) {
	doc := &batch.Document{Expressions: []string{"1 + 1 == 2", `user.name like "Ada*"`}}

	results := batch.Check(doc, resolver.NewDefaultRegistry(), nil)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	assert.True(t, batch.AllOK(results))
}

func TestCheck_ReportsPerExpressionError(t *testing.T) {
	doc := &batch.Document{Expressions: []string{"1 + 1 == 2", "user.age >="}}

	results := batch.Check(doc, resolver.NewDefaultRegistry(), nil)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.False(t, batch.AllOK(results))
}

func TestCheck_PopulatesCacheOnHit(t *testing.T) {
	doc := &batch.Document{Expressions: []string{"1 + 1 == 2", "1 + 1 == 2"}}
	cache := compile.NewCache(8)

	results := batch.Check(doc, resolver.NewDefaultRegistry(), cache)
	require.Len(t, results, 2)
	assert.True(t, batch.AllOK(results))
	assert.Equal(t, 1, cache.Len(), "repeated expression should share one cache entry")
}
