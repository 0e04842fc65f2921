// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lang

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// GrammarVersion identifies the expression grammar implemented by this
// package. Compiled expressions that are persisted by a caller should
// record it alongside the source text. Validated as a real semver at
// init so a typo in the constant fails at program startup rather than
// silently shipping a bad version string.
const GrammarVersion = "1.0.0"

func init() {
	if _, err := semver.StrictNewVersion(GrammarVersion); err != nil {
		panic(fmt.Sprintf("lang: GrammarVersion %q is not a valid semver: %v", GrammarVersion, err))
	}
}

// --- Grammar, highest level (lowest precedence) to lowest level (highest
// precedence): Expr (or) -> AndExpr (and) -> NotExpr (not) -> Predicate
// (comparison/membership/pattern/date) -> Additive (+ -) -> Multiplicative
// (* /) -> Unary (-) -> Primary (literal | path | raw | parenthesized). ---

// Expr is the root of every parsed expression: a disjunction of AndExpr.
type Expr struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Left *AndExpr       `parser:"@@" json:"left"`
	Or   []*AndExpr     `parser:"('or' @@)*" json:"or,omitempty"`
}

// AndExpr is a conjunction of NotExpr.
type AndExpr struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Left *NotExpr       `parser:"@@" json:"left"`
	And  []*NotExpr     `parser:"('and' @@)*" json:"and,omitempty"`
}

// NotExpr is zero or more "not" prefixes over a Predicate.
type NotExpr struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Negated *NotExpr       `parser:"  'not' @@" json:"negated,omitempty"`
	Pred    *Predicate     `parser:"| @@" json:"pred,omitempty"`
}

// Predicate is an Additive expression optionally followed by exactly one
// comparison/membership/pattern/date clause. Comparisons do not chain.
type Predicate struct {
	Pos        lexer.Position  `parser:"" json:"-"`
	Left       *Additive       `parser:"@@" json:"left"`
	Comparison *ComparisonTail `parser:"( @@" json:"comparison,omitempty"`
	In         *InTail         `parser:"| @@" json:"in,omitempty"`
	Contains   *ContainsTail   `parser:"| @@" json:"contains,omitempty"`
	Like       *LikeTail       `parser:"| @@" json:"like,omitempty"`
	DateOp     *DateOpTail     `parser:"| @@" json:"date_op,omitempty"`
	Within     *WithinTail     `parser:"| @@" json:"within,omitempty"`
	OlderThan  *OlderThanTail  `parser:"| @@" json:"older_than,omitempty"`
	Is         *IsTail         `parser:"| @@ )?" json:"is,omitempty"`
}

// ComparisonTail is ==, !=, <, <=, > or >=.
type ComparisonTail struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Op    string         `parser:"@(OpEq | OpNe | OpLe | OpGe | OpLt | OpGt)" json:"op"`
	Right *Additive      `parser:"@@" json:"right"`
}

// InTail is "in": list/map/substring membership.
type InTail struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Right *Additive      `parser:"'in' @@" json:"right"`
}

// ContainsTail is "contains", the mirror of "in".
type ContainsTail struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Right *Additive      `parser:"'contains' @@" json:"right"`
}

// LikeTail is "like", an anchored case-insensitive glob against a string
// pattern literal.
type LikeTail struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Pattern string         `parser:"'like' @String" json:"pattern"`
}

// DateOpTail is before/after/same_day_as, strict instant or calendar-day
// comparisons.
type DateOpTail struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Op    string         `parser:"@('before' | 'after' | 'same_day_as')" json:"op"`
	Right *Additive      `parser:"@@" json:"right"`
}

// WithinTail is "within N <unit>": |x - now| <= N units.
type WithinTail struct {
	Pos  lexer.Position `parser:"" json:"-"`
	N    *Additive      `parser:"'within' @@" json:"n"`
	Unit string         `parser:"@(\"minute\" | \"minutes\" | \"hour\" | \"hours\" | \"day\" | \"days\" | \"week\" | \"weeks\" | \"month\" | \"months\" | \"year\" | \"years\")" json:"unit"`
}

// OlderThanTail is "older than N <unit>": now - x > N units, and x <= now.
type OlderThanTail struct {
	Pos  lexer.Position `parser:"" json:"-"`
	N    *Additive      `parser:"'older' 'than' @@" json:"n"`
	Unit string         `parser:"@(\"minute\" | \"minutes\" | \"hour\" | \"hours\" | \"day\" | \"days\" | \"week\" | \"weeks\" | \"month\" | \"months\" | \"year\" | \"years\")" json:"unit"`
}

// IsTail is "is": a calendar-day/instant sentinel check (past/future/today),
// an $empty check, or (§1.11) a fallback treated as "==" for any other
// right-hand side.
type IsTail struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Keyword  string         `parser:"'is' ( @('past' | 'future' | 'today')" json:"keyword,omitempty"`
	Sentinel string         `parser:"    | @Sentinel" json:"sentinel,omitempty"`
	Fallback *Additive      `parser:"    | @@ )" json:"fallback,omitempty"`
}

// Additive is left-associative + and -.
type Additive struct {
	Pos  lexer.Position  `parser:"" json:"-"`
	Left *Multiplicative `parser:"@@" json:"left"`
	Ops  []*AdditiveOp   `parser:"@@*" json:"ops,omitempty"`
}

type AdditiveOp struct {
	Pos   lexer.Position  `parser:"" json:"-"`
	Op    string          `parser:"@(Plus | Minus)" json:"op"`
	Right *Multiplicative `parser:"@@" json:"right"`
}

// Multiplicative is left-associative * and /.
type Multiplicative struct {
	Pos  lexer.Position      `parser:"" json:"-"`
	Left *Unary              `parser:"@@" json:"left"`
	Ops  []*MultiplicativeOp `parser:"@@*" json:"ops,omitempty"`
}

type MultiplicativeOp struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Op    string         `parser:"@(Star | Slash)" json:"op"`
	Right *Unary         `parser:"@@" json:"right"`
}

// Unary is zero or more unary minuses over a Primary.
type Unary struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Negated *Unary         `parser:"  Minus @@" json:"negated,omitempty"`
	Primary *Primary       `parser:"| @@" json:"primary,omitempty"`
}

// Primary is the grammar's leaf: a literal, a path, a raw sub-expression, a
// sentinel, or a fully parenthesized Expr. The boolean literals true and
// false parse as single-segment paths; the evaluator gives them their
// boolean value instead of resolving them.
type Primary struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Number   *string        `parser:"  @Number" json:"number,omitempty"`
	Str      *string        `parser:"| @String" json:"str,omitempty"`
	Sentinel *string        `parser:"| @Sentinel" json:"sentinel,omitempty"`
	Raw      *RawExpr       `parser:"| @@" json:"raw,omitempty"`
	Path     *Path          `parser:"| @@" json:"path,omitempty"`
	Paren    *Expr          `parser:"| '(' @@ ')'" json:"paren,omitempty"`
}

// RawExpr is a backtick-delimited raw sub-expression, handed unmodified to
// the active (or hinted) resolver's raw-query entry point. The grammar
// respects nested parens/quotes inside the backticks simply because the
// token itself greedily consumes everything up to the next backtick, with
// no escaping.
type RawExpr struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Hint string         `parser:"(@Ident Colon)?" json:"hint,omitempty"`
	Text string         `parser:"@RawPath" json:"text"`
}

// Path is a dotted/indexed sequence of segments, e.g. "teams[0].name".
type Path struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Segments []*PathSegment `parser:"@@ (Dot @@)*" json:"segments"`
}

// PathSegment is a single identifier with an optional bracketed index.
type PathSegment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident" json:"name"`
	Index *string        `parser:"('[' @Number ']')?" json:"index,omitempty"`
}

// --- String() round-trip rendering ---

func (e *Expr) String() string {
	parts := make([]string, 0, len(e.Or)+1)
	parts = append(parts, e.Left.String())
	for _, r := range e.Or {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " or ")
}

func (a *AndExpr) String() string {
	parts := make([]string, 0, len(a.And)+1)
	parts = append(parts, a.Left.String())
	for _, r := range a.And {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " and ")
}

func (n *NotExpr) String() string {
	if n.Negated != nil {
		return "not " + n.Negated.String()
	}
	return n.Pred.String()
}

func (p *Predicate) String() string {
	s := p.Left.String()
	switch {
	case p.Comparison != nil:
		return s + " " + p.Comparison.Op + " " + p.Comparison.Right.String()
	case p.In != nil:
		return s + " in " + p.In.Right.String()
	case p.Contains != nil:
		return s + " contains " + p.Contains.Right.String()
	case p.Like != nil:
		return s + " like " + p.Like.Pattern
	case p.DateOp != nil:
		return s + " " + p.DateOp.Op + " " + p.DateOp.Right.String()
	case p.Within != nil:
		return s + " within " + p.Within.N.String() + " " + p.Within.Unit
	case p.OlderThan != nil:
		return s + " older than " + p.OlderThan.N.String() + " " + p.OlderThan.Unit
	case p.Is != nil:
		switch {
		case p.Is.Keyword != "":
			return s + " is " + p.Is.Keyword
		case p.Is.Sentinel != "":
			return s + " is " + p.Is.Sentinel
		default:
			return s + " is " + p.Is.Fallback.String()
		}
	default:
		return s
	}
}

func (a *Additive) String() string {
	var b strings.Builder
	b.WriteString(a.Left.String())
	for _, op := range a.Ops {
		b.WriteString(" " + op.Op + " " + op.Right.String())
	}
	return b.String()
}

func (m *Multiplicative) String() string {
	var b strings.Builder
	b.WriteString(m.Left.String())
	for _, op := range m.Ops {
		b.WriteString(" " + op.Op + " " + op.Right.String())
	}
	return b.String()
}

func (u *Unary) String() string {
	if u.Negated != nil {
		return "-" + u.Negated.String()
	}
	return u.Primary.String()
}

func (p *Primary) String() string {
	switch {
	case p.Number != nil:
		return *p.Number
	case p.Str != nil:
		return *p.Str
	case p.Sentinel != nil:
		return *p.Sentinel
	case p.Raw != nil:
		return p.Raw.String()
	case p.Path != nil:
		return p.Path.String()
	case p.Paren != nil:
		return "(" + p.Paren.String() + ")"
	default:
		return "<empty>"
	}
}

func (r *RawExpr) String() string {
	if r.Hint != "" {
		return r.Hint + ":" + r.Text
	}
	return r.Text
}

func (path *Path) String() string {
	parts := make([]string, len(path.Segments))
	for i, seg := range path.Segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

func (seg *PathSegment) String() string {
	if seg.Index != nil {
		return seg.Name + "[" + *seg.Index + "]"
	}
	return seg.Name
}

// NewParser constructs a participle parser for the dilemma expression
// grammar. UseLookahead(MaxLookahead) mirrors the teacher's DSL parser: many
// Predicate tail alternatives share a common Additive prefix, requiring the
// parser to speculatively try each and backtrack.
func NewParser() (*participle.Parser[Expr], error) {
	return participle.Build[Expr](
		participle.Lexer(exprLexer),
		participle.UseLookahead(participle.MaxLookahead),
	)
}

// Unquote turns a raw String token (still carrying its surrounding ' or "
// quotes) into its literal text, processing \\, \", \', \n, \t and \r
// escapes. Dilemma accepts both quote styles with multi-character bodies,
// which rules out participle's built-in Unquote (backed by strconv.Unquote,
// which only accepts a single-quoted STRING for a single rune).
func Unquote(raw string) (string, error) {
	if len(raw) < 2 {
		return "", fmt.Errorf("lang: %q is not a quoted string", raw)
	}
	quote := raw[0]
	if raw[len(raw)-1] != quote || (quote != '"' && quote != '\'') {
		return "", fmt.Errorf("lang: %q is not a properly quoted string", raw)
	}
	body := raw[1 : len(raw)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}
