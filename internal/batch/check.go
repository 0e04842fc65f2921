// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package batch

import (
	"github.com/patrickcd/dilemma/internal/compile"
	"github.com/patrickcd/dilemma/internal/resolver"
)

// ExpressionResult is the outcome of checking a single expression from
// a Document.
type ExpressionResult struct {
	Source string
	Err    error
}

// Check parses every expression in doc against reg, without evaluating
// any of them, and reports the per-expression outcome. It never returns
// an error itself — a malformed expression is recorded in its
// ExpressionResult, not surfaced as a Check failure, so callers (e.g.
// `dilemma check`) can report every bad expression in one pass rather
// than stopping at the first.
//
// cache, if non-nil, is consulted and populated via GetOrCompile so that
// an expression repeated across documents in one CLI invocation is only
// parsed once; a nil cache compiles every expression directly.
func Check(doc *Document, reg *resolver.Registry, cache *compile.Cache) []ExpressionResult {
	results := make([]ExpressionResult, 0, len(doc.Expressions))
	for _, src := range doc.Expressions {
		var err error
		if cache != nil {
			_, err = cache.GetOrCompile(src, reg)
		} else {
			_, err = compile.Compile(src, reg)
		}
		results = append(results, ExpressionResult{Source: src, Err: err})
	}
	return results
}

// AllOK reports whether every result in results succeeded.
func AllOK(results []ExpressionResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return false
		}
	}
	return true
}
