// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package dilemma is a safe, embeddable expression evaluator: it parses a
// compact textual mini-language into an AST and evaluates that tree
// against a caller-supplied variable context, returning a null, bool,
// int, float, string, list, map, or date value. It supports arithmetic,
// comparison, membership, glob pattern matching, date reasoning, and
// pluggable nested-data path access — not a general scripting language.
//
// # Quick start
//
//	result, err := dilemma.Evaluate(`user.age >= 18`, dilemma.MustFromNative(map[string]any{
//		"user": map[string]any{"age": 21},
//	}))
//
//	expr, err := dilemma.Compile(`user.age >= 18`)
//	result1, _ := expr.Evaluate(ctx1)
//	result2, _ := expr.Evaluate(ctx2)
//
// Grounded on sandrolain-gosonata's gosonata.go root-package façade shape
// (Compile/Eval living at the module root and delegating to internal
// packages) — the closest in-pack analog to a thin public façade for an
// embeddable expression library, something the teacher itself, being an
// application rather than a library, does not model.
package dilemma

import (
	"log/slog"

	"github.com/patrickcd/dilemma/internal/compile"
	"github.com/patrickcd/dilemma/internal/lang"
	"github.com/patrickcd/dilemma/internal/resolver"
	"github.com/patrickcd/dilemma/internal/value"
	"github.com/patrickcd/dilemma/pkg/errutil"
)

// Value is the tagged union flowing through every evaluation: null, bool,
// int, float, string, list, map, or date.
type Value = value.Value

// Resolver maps a path or raw sub-expression to a value within a context.
// See RegisterResolver.
type Resolver = resolver.Resolver

// CompiledExpression is a reusable, concurrency-safe parsed expression.
type CompiledExpression = compile.CompiledExpression

var (
	defaultRegistry = resolver.NewDefaultRegistry()
	sourceCache     = compile.NewCache(256)
)

// Version reports the grammar version implemented by this module.
func Version() string { return lang.GrammarVersion }

// Bool, Int, Float, String, Date, List, Map, and Null construct Values
// directly; see the value package for the full set.
var (
	Bool   = value.Bool
	Int    = value.Int
	Float  = value.Float
	String = value.String
	Date   = value.Date
	List   = value.List
	Map    = value.Map
)

// Null is the null Value.
var Null = value.Null

// FromNative converts a plain Go value tree (as produced by encoding/json
// or yaml.v3 unmarshaling) into a Value.
func FromNative(v any) (Value, error) {
	out, err := value.FromNative(v)
	if err != nil {
		return Null, wrapError(err)
	}
	return out, nil
}

// MustFromNative is FromNative but panics on conversion failure; for
// literals known to be well-formed at compile time.
func MustFromNative(v any) Value {
	out, err := FromNative(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Evaluate parses (using a shared cache keyed on source text) and
// evaluates source against context in one call.
func Evaluate(source string, context Value) (Value, error) {
	expr, err := sourceCache.GetOrCompile(source, defaultRegistry)
	if err != nil {
		errutil.LogCompileFailure(slog.Default(), source, err)
		return value.Null, wrapError(err)
	}
	result, err := expr.Evaluate(context)
	if err != nil {
		errutil.LogEvaluationFailure(slog.Default(), source, err)
		return value.Null, wrapError(err)
	}
	return result, nil
}

// Compile parses source once against the process-wide resolver registry,
// returning a CompiledExpression safe to Evaluate repeatedly against many
// contexts from multiple goroutines.
func Compile(source string) (*CompiledExpression, error) {
	expr, err := compile.Compile(source, defaultRegistry)
	if err != nil {
		errutil.LogCompileFailure(slog.Default(), source, err)
		return nil, wrapError(err)
	}
	return expr, nil
}

// MustCompile is Compile but panics on a parse error; for expressions
// known to be well-formed at program startup.
func MustCompile(source string) *CompiledExpression {
	expr, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return expr
}

// RegisterResolver adds (or replaces) a named resolver in the process-wide
// registry used by Evaluate and Compile. If makeDefault is true, it
// becomes the active default for ordinary (non-hinted) paths.
func RegisterResolver(name string, r Resolver, makeDefault bool) error {
	if err := defaultRegistry.Register(name, r, makeDefault); err != nil {
		errutil.LogError(slog.Default(), "dilemma: resolver registration failed", err)
		return wrapError(err)
	}
	slog.Debug("dilemma: resolver registered", "resolver", name, "default", makeDefault)
	return nil
}
