// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lang

import (
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
)

// parserPool draws per-call *participle.Parser[Expr] instances instead of
// the single package-level singleton the teacher's dsl package uses
// (acceptable there because ABAC policies are parsed once at load time).
// Dilemma's Evaluate must be safe under concurrent goroutine use (spec
// §1.8), and a participle parser value is not reentrant across goroutines,
// so each Parse call borrows one from the pool and returns it afterward.
var parserPool = sync.Pool{
	New: func() any {
		p, err := NewParser()
		if err != nil {
			panic("lang: failed to build expression parser: " + err.Error())
		}
		return p
	},
}

// Parse parses source into an Expr AST. Returns a structured parse error
// (position + reason) on failure; the returned error satisfies oops'
// category/context conventions so callers can inspect it with
// github.com/samber/oops.AsOops.
func Parse(source string) (*Expr, error) {
	parser := parserPool.Get().(*participle.Parser[Expr])
	defer parserPool.Put(parser)

	expr, err := parser.ParseString("", source)
	if err != nil {
		return nil, oops.Code("parse_error").
			With("source", source).
			Wrapf(err, "parsing dilemma expression")
	}
	return expr, nil
}
