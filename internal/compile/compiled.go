// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package compile wraps the dilemma expression parser and evaluator behind
// a reusable CompiledExpression, a source→AST cache, and Prometheus
// instrumentation. CompiledExpression generalizes the teacher's
// CompiledPolicy (internal/access/policy/compiler.go): an immutable parsed
// form plus a per-expression glob memo, evaluated repeatedly against many
// contexts instead of recompiled each time.
package compile

import (
	"time"

	"github.com/samber/oops"

	"github.com/patrickcd/dilemma/internal/eval"
	"github.com/patrickcd/dilemma/internal/lang"
	"github.com/patrickcd/dilemma/internal/resolver"
	"github.com/patrickcd/dilemma/internal/value"
)

// CompiledExpression is the parsed, reusable form of a dilemma expression.
// It is safe to share across goroutines for concurrent evaluation of
// disjoint contexts: the AST is immutable after parsing, and the glob
// memo is its own concurrency-safe type.
type CompiledExpression struct {
	source   string
	ast      *lang.Expr
	registry *resolver.Registry
	globMemo *eval.GlobMemo
}

// Compile parses source once against the given registry and returns a
// reusable CompiledExpression. Grounded on Compiler.Compile's
// parse-then-store shape, minus ABAC-specific target/effect/schema steps
// which have no dilemma equivalent.
func Compile(source string, reg *resolver.Registry) (*CompiledExpression, error) {
	if reg == nil {
		return nil, oops.Code("resolver_error").Errorf("compile: registry must not be nil")
	}
	ast, err := lang.Parse(source)
	if err != nil {
		return nil, err
	}
	return &CompiledExpression{
		source:   source,
		ast:      ast,
		registry: reg,
		globMemo: eval.NewGlobMemo(),
	}, nil
}

// Source returns the original expression text.
func (c *CompiledExpression) Source() string { return c.source }

// GrammarVersion reports the grammar version this expression was parsed
// under, for callers that persist compiled ASTs across a binary upgrade.
func (c *CompiledExpression) GrammarVersion() string { return lang.GrammarVersion }

// Evaluate runs the compiled expression against context, sampling "now"
// once for the call per spec §1.8.
func (c *CompiledExpression) Evaluate(context value.Value) (value.Value, error) {
	start := time.Now()
	st := &eval.State{
		Now:       start,
		Registry:  c.registry,
		GlobCache: c.globMemo,
	}
	result, err := eval.Eval(c.ast, context, st)
	recordEvaluation(time.Since(start), c.registry, err)
	return result, err
}
