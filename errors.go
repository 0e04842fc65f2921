// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package dilemma

import (
	"fmt"
	"regexp"

	"github.com/samber/oops"

	"github.com/patrickcd/dilemma/internal/eval"
)

// Error categories. ParseError comes from internal/lang; the other four
// come from internal/eval (see internal/eval/errors.go).
const (
	CategoryParse           = "parse_error"
	CategoryType            = eval.CategoryType
	CategoryResolver        = eval.CategoryResolver
	CategoryDivisionByZero  = eval.CategoryDivisionByZero
	CategoryUnknownSentinel = eval.CategoryUnknownSentinel
	CategoryUnknown         = "unknown_error"
)

// Error is the stable public error type returned by Evaluate, Compile, and
// RegisterResolver. It bridges internal/samber/oops plumbing to a small,
// dependency-free surface for embedding hosts, mirroring gosonata's
// pkg/types.Error (Code + Position) while keeping oops underneath.
type Error struct {
	// Category is one of the Category* constants above.
	Category string
	// Message is the human-readable error text.
	Message string
	// Span is "line:column" when the underlying error carries a parser
	// position (e.g. a ParseError); empty otherwise.
	Span string

	cause error
}

func (e *Error) Error() string {
	if e.Span != "" {
		return fmt.Sprintf("%s at %s: %s", e.Category, e.Span, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap exposes the original internal error for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// spanPattern matches the "line:column:" prefix participle emits at the
// front of its error text (e.g. "1:5: unexpected token \"==\"").
var spanPattern = regexp.MustCompile(`(\d+:\d+):`)

// wrapError converts an internal oops error into a stable *Error. An error
// that is not oops-wrapped (should not normally occur, since every
// internal package builds errors through oops) still surfaces under
// CategoryUnknown rather than being silently dropped.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return &Error{Category: CategoryUnknown, Message: err.Error(), cause: err}
	}
	e := &Error{
		Category: oopsErr.Code(),
		Message:  oopsErr.Error(),
		cause:    err,
	}
	if m := spanPattern.FindStringSubmatch(oopsErr.Error()); m != nil {
		e.Span = m[1]
	}
	return e
}
