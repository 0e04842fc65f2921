// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package compile

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickcd/dilemma/internal/resolver"
	"github.com/patrickcd/dilemma/internal/value"
)

func TestCompile_EvaluateReused(t *testing.T) {
	reg := resolver.NewDefaultRegistry()
	ce, err := Compile("user.age >= 18", reg)
	require.NoError(t, err)
	assert.Equal(t, "user.age >= 18", ce.Source())
	assert.Equal(t, "1.0.0", ce.GrammarVersion())

	ctx, err := value.FromNative(map[string]any{"user": map[string]any{"age": 21}})
	require.NoError(t, err)

	v, err := ce.Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, v.Truthy())

	ctx2, err := value.FromNative(map[string]any{"user": map[string]any{"age": 10}})
	require.NoError(t, err)
	v, err = ce.Evaluate(ctx2)
	require.NoError(t, err)
	assert.False(t, v.Truthy())
}

func TestCompile_NilRegistryErrors(t *testing.T) {
	_, err := Compile("1 == 1", nil)
	require.Error(t, err)
}

func TestCompile_ConcurrentEvaluateSharesGlobMemo(t *testing.T) {
	reg := resolver.NewDefaultRegistry()
	ce, err := Compile(`name like "a*"`, reg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, _ := value.FromNative(map[string]any{"name": "apple"})
			v, err := ce.Evaluate(ctx)
			assert.NoError(t, err)
			assert.True(t, v.Truthy())
		}()
	}
	wg.Wait()
}
