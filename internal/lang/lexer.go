// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package lang defines the dilemma expression grammar and a participle
// parser that turns source text into an AST. Lexer and grammar structure
// follow the teacher's policy DSL (internal/access/policy/dsl in the
// originating codebase): a lexer.SimpleRule token table plus a struct-tag
// grammar with one type per precedence level and PEG ordered choice at the
// leaves.
package lang

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer defines the token types for the dilemma expression language.
// Order matters: longer/more specific patterns must come before shorter
// ones that share a prefix.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "RawPath", Pattern: "`[^`]*`"},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Sentinel", Pattern: `\$(past|future|today|now|empty)`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "OpEq", Pattern: `==`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpGe", Pattern: `>=`},
	{Name: "OpLe", Pattern: `<=`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Minus", Pattern: `-`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(){}\[\],]`},
	{Name: "whitespace", Pattern: `\s+`},
})
