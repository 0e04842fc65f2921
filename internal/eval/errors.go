// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package eval implements the dilemma AST evaluator: Eval walks a parsed
// internal/lang.Expr against a context and an active resolver, applying
// the coercion, comparison, membership, pattern, and date-algebra rules of
// spec §1.5. The dispatch-by-nil-field structure generalizes the teacher's
// evalBlock/evalConjunction/evalCondition chain (dsl/evaluator.go) from
// boolean-only ABAC conditions to dilemma's value-returning expression
// tree, and its short-circuit discipline for and/or is carried unchanged.
package eval

import (
	"github.com/samber/oops"
)

// Error categories, per spec §1.9.
const (
	CategoryType           = "type_error"
	CategoryResolver       = "resolver_error"
	CategoryDivisionByZero = "division_by_zero"
	CategoryUnknownSentinel = "unknown_sentinel"
)

func typeErrorf(format string, args ...any) error {
	return oops.Code(CategoryType).Errorf(format, args...)
}

func resolverErrorf(format string, args ...any) error {
	return oops.Code(CategoryResolver).Errorf(format, args...)
}

func divisionByZeroErr() error {
	return oops.Code(CategoryDivisionByZero).Errorf("division by zero")
}

func unknownSentinelErr(text string) error {
	return oops.Code(CategoryUnknownSentinel).With("sentinel", text).Errorf("unknown sentinel %q", text)
}
