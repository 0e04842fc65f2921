// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package eval

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/patrickcd/dilemma/internal/lang"
	"github.com/patrickcd/dilemma/internal/resolver"
	"github.com/patrickcd/dilemma/internal/value"
)

// GlobMemo is a concurrency-safe cache of compiled like-patterns, shared by
// every Evaluate call against the same CompiledExpression. Mirrors the
// teacher's CompiledPolicy.GlobCache, made safe for concurrent readers and
// writers since, unlike the teacher's policy cache (populated once up
// front by precompileGlobs), it is populated lazily the first time each
// like-pattern literal is matched.
type GlobMemo struct {
	mu sync.RWMutex
	m  map[string]glob.Glob
}

// NewGlobMemo constructs an empty, ready-to-use memo.
func NewGlobMemo() *GlobMemo {
	return &GlobMemo{m: make(map[string]glob.Glob)}
}

func (g *GlobMemo) get(pattern string) (glob.Glob, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.m[pattern]
	return v, ok
}

func (g *GlobMemo) put(pattern string, v glob.Glob) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m[pattern] = v
}

// State carries the one piece of mutable-but-call-scoped state an
// evaluation needs: the "now" instant (sampled once per top-level call,
// per spec §1.5), the resolver registry, and an optional glob memo.
// GlobCache may be nil, in which case like-patterns are compiled fresh on
// every evaluation; internal/compile supplies a persistent GlobMemo so
// repeated evaluation of the same CompiledExpression reuses compiled
// patterns, mirroring the teacher's CompiledPolicy.GlobCache.
type State struct {
	Now       time.Time
	Registry  *resolver.Registry
	GlobCache *GlobMemo
}

// Eval walks expr against context using st, returning the resulting value
// or an error from one of the categories in errors.go.
func Eval(expr *lang.Expr, context value.Value, st *State) (value.Value, error) {
	return evalExpr(expr, context, st)
}

func evalExpr(e *lang.Expr, ctx value.Value, st *State) (value.Value, error) {
	cur, err := evalAndExpr(e.Left, ctx, st)
	if err != nil {
		return value.Null, err
	}
	for _, rhs := range e.Or {
		if cur.Truthy() {
			return cur, nil
		}
		cur, err = evalAndExpr(rhs, ctx, st)
		if err != nil {
			return value.Null, err
		}
	}
	return cur, nil
}

func evalAndExpr(a *lang.AndExpr, ctx value.Value, st *State) (value.Value, error) {
	cur, err := evalNotExpr(a.Left, ctx, st)
	if err != nil {
		return value.Null, err
	}
	for _, rhs := range a.And {
		if !cur.Truthy() {
			return cur, nil
		}
		cur, err = evalNotExpr(rhs, ctx, st)
		if err != nil {
			return value.Null, err
		}
	}
	return cur, nil
}

func evalNotExpr(n *lang.NotExpr, ctx value.Value, st *State) (value.Value, error) {
	if n.Negated != nil {
		inner, err := evalNotExpr(n.Negated, ctx, st)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(!inner.Truthy()), nil
	}
	return evalPredicate(n.Pred, ctx, st)
}

func evalPredicate(p *lang.Predicate, ctx value.Value, st *State) (value.Value, error) {
	left, err := evalAdditive(p.Left, ctx, st)
	if err != nil {
		return value.Null, err
	}

	switch {
	case p.Comparison != nil:
		return evalComparison(p.Left, p.Comparison, left, ctx, st)
	case p.In != nil:
		right, err := evalAdditive(p.In.Right, ctx, st)
		if err != nil {
			return value.Null, err
		}
		ok, supported := value.In(left, right)
		if !supported {
			return value.Null, typeErrorf("in: %s is not a collection or string", right.Kind())
		}
		return value.Bool(ok), nil
	case p.Contains != nil:
		right, err := evalAdditive(p.Contains.Right, ctx, st)
		if err != nil {
			return value.Null, err
		}
		ok, supported := value.In(right, left)
		if !supported {
			return value.Null, typeErrorf("contains: %s is not a collection or string", left.Kind())
		}
		return value.Bool(ok), nil
	case p.Like != nil:
		return evalLike(left, p.Like, st)
	case p.DateOp != nil:
		return evalDateOp(left, p.DateOp, ctx, st)
	case p.Within != nil:
		return evalWithin(left, p.Within, ctx, st)
	case p.OlderThan != nil:
		return evalOlderThan(left, p.OlderThan, ctx, st)
	case p.Is != nil:
		return evalIs(left, p.Is, ctx, st)
	default:
		return left, nil
	}
}

func evalComparison(leftNode *lang.Additive, c *lang.ComparisonTail, left value.Value, ctx value.Value, st *State) (value.Value, error) {
	right, err := evalAdditive(c.Right, ctx, st)
	if err != nil {
		return value.Null, err
	}

	if (c.Op == "==" || c.Op == "!=") {
		if empty, matched := emptyComparison(leftNode, c.Right, left, right); matched {
			if c.Op == "!=" {
				empty = !empty
			}
			return value.Bool(empty), nil
		}
	}

	switch c.Op {
	case "==":
		return value.Bool(value.Equal(left, right)), nil
	case "!=":
		return value.Bool(!value.Equal(left, right)), nil
	}

	cmp, ok := value.Compare(left, right)
	if !ok {
		return value.Null, typeErrorf("%s is not defined for %s and %s", c.Op, left.Kind(), right.Kind())
	}
	switch c.Op {
	case "<":
		return value.Bool(cmp < 0), nil
	case "<=":
		return value.Bool(cmp <= 0), nil
	case ">":
		return value.Bool(cmp > 0), nil
	case ">=":
		return value.Bool(cmp >= 0), nil
	default:
		return value.Null, typeErrorf("unknown comparator %q", c.Op)
	}
}

// emptyComparison implements "x == $empty"/"x != $empty" using the
// emptiness rule (null, "", [], {}) instead of ordinary value equality,
// since a bare list/map literal is never == null under normal Equal.
func emptyComparison(leftNode, rightNode *lang.Additive, left, right value.Value) (empty bool, matched bool) {
	if sent, ok := bareSentinel(rightNode); ok && sent == "$empty" {
		return left.IsEmpty(), true
	}
	if sent, ok := bareSentinel(leftNode); ok && sent == "$empty" {
		return right.IsEmpty(), true
	}
	return false, false
}

// bareSentinel reports whether an Additive node reduces, with no
// surrounding arithmetic, to a single sentinel primary (e.g. "$empty").
func bareSentinel(a *lang.Additive) (string, bool) {
	if a == nil || len(a.Ops) != 0 {
		return "", false
	}
	m := a.Left
	if len(m.Ops) != 0 {
		return "", false
	}
	u := m.Left
	if u.Negated != nil {
		return "", false
	}
	if u.Primary == nil || u.Primary.Sentinel == nil {
		return "", false
	}
	return *u.Primary.Sentinel, true
}

func evalLike(left value.Value, l *lang.LikeTail, st *State) (value.Value, error) {
	str, ok := left.AsString()
	if !ok {
		return value.Null, typeErrorf("like requires a string operand, got %s", left.Kind())
	}
	pattern, err := lang.Unquote(l.Pattern)
	if err != nil {
		return value.Null, typeErrorf("invalid like pattern: %v", err)
	}
	pattern = strings.ToLower(pattern)

	var g glob.Glob
	if st != nil && st.GlobCache != nil {
		if cached, found := st.GlobCache.get(pattern); found {
			g = cached
		}
	}
	if g == nil {
		g, err = glob.Compile(pattern, 0)
		if err != nil {
			return value.Null, typeErrorf("invalid like pattern: %v", err)
		}
		if st != nil && st.GlobCache != nil {
			st.GlobCache.put(pattern, g)
		}
	}
	return value.Bool(g.Match(strings.ToLower(str))), nil
}

func evalDateOp(left value.Value, d *lang.DateOpTail, ctx value.Value, st *State) (value.Value, error) {
	right, err := evalAdditive(d.Right, ctx, st)
	if err != nil {
		return value.Null, err
	}
	leftInstant, ok := value.AsInstant(left)
	if !ok {
		return value.Null, typeErrorf("%s: %s is not a date", d.Op, left.Kind())
	}
	rightInstant, ok := value.AsInstant(right)
	if !ok {
		return value.Null, typeErrorf("%s: %s is not a date", d.Op, right.Kind())
	}
	switch d.Op {
	case "before":
		return value.Bool(leftInstant.Before(rightInstant)), nil
	case "after":
		return value.Bool(leftInstant.After(rightInstant)), nil
	case "same_day_as":
		return value.Bool(value.SameCalendarDay(leftInstant, rightInstant)), nil
	default:
		return value.Null, typeErrorf("unknown date operator %q", d.Op)
	}
}

func evalWithin(left value.Value, w *lang.WithinTail, ctx value.Value, st *State) (value.Value, error) {
	leftInstant, ok := value.AsInstant(left)
	if !ok {
		return value.Null, typeErrorf("within: %s is not a date", left.Kind())
	}
	n, err := evalAdditive(w.N, ctx, st)
	if err != nil {
		return value.Null, err
	}
	nFloat, ok := n.ToFloat()
	if !ok {
		return value.Null, typeErrorf("within: bound must be numeric, got %s", n.Kind())
	}
	secPerUnit, err := value.UnitSecondsFor(w.Unit)
	if err != nil {
		return value.Null, typeErrorf("%v", err)
	}
	diff := math.Abs(st.Now.Sub(leftInstant).Seconds())
	return value.Bool(diff <= nFloat*secPerUnit), nil
}

func evalOlderThan(left value.Value, o *lang.OlderThanTail, ctx value.Value, st *State) (value.Value, error) {
	leftInstant, ok := value.AsInstant(left)
	if !ok {
		return value.Null, typeErrorf("older than: %s is not a date", left.Kind())
	}
	n, err := evalAdditive(o.N, ctx, st)
	if err != nil {
		return value.Null, err
	}
	nFloat, ok := n.ToFloat()
	if !ok {
		return value.Null, typeErrorf("older than: bound must be numeric, got %s", n.Kind())
	}
	secPerUnit, err := value.UnitSecondsFor(o.Unit)
	if err != nil {
		return value.Null, typeErrorf("%v", err)
	}
	diff := st.Now.Sub(leftInstant).Seconds()
	return value.Bool(!leftInstant.After(st.Now) && diff > nFloat*secPerUnit), nil
}

func evalIs(left value.Value, is *lang.IsTail, ctx value.Value, st *State) (value.Value, error) {
	switch {
	case is.Keyword != "":
		leftInstant, ok := value.AsInstant(left)
		if !ok {
			return value.Null, typeErrorf("is %s: %s is not a date", is.Keyword, left.Kind())
		}
		switch is.Keyword {
		case "today":
			return value.Bool(value.SameCalendarDay(leftInstant, st.Now)), nil
		case "past":
			return value.Bool(leftInstant.Before(st.Now)), nil
		case "future":
			return value.Bool(leftInstant.After(st.Now)), nil
		default:
			return value.Null, typeErrorf("unknown is-keyword %q", is.Keyword)
		}
	case is.Sentinel != "":
		if is.Sentinel == "$empty" {
			return value.Bool(left.IsEmpty()), nil
		}
		// §1.11: a non-$empty sentinel right-hand side falls back to "==".
		rhs, err := evalSentinelValue(is.Sentinel, st.Now)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(value.Equal(left, rhs)), nil
	default:
		// §1.11: "is" with any other right-hand side is treated as "==".
		rhs, err := evalAdditive(is.Fallback, ctx, st)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(value.Equal(left, rhs)), nil
	}
}

func evalAdditive(a *lang.Additive, ctx value.Value, st *State) (value.Value, error) {
	cur, err := evalMultiplicative(a.Left, ctx, st)
	if err != nil {
		return value.Null, err
	}
	for _, op := range a.Ops {
		right, err := evalMultiplicative(op.Right, ctx, st)
		if err != nil {
			return value.Null, err
		}
		switch op.Op {
		case "+":
			cur, err = value.Add(cur, right)
		case "-":
			cur, err = value.Sub(cur, right)
		}
		if err != nil {
			return value.Null, typeErrorf("%v", err)
		}
	}
	return cur, nil
}

func evalMultiplicative(m *lang.Multiplicative, ctx value.Value, st *State) (value.Value, error) {
	cur, err := evalUnary(m.Left, ctx, st)
	if err != nil {
		return value.Null, err
	}
	for _, op := range m.Ops {
		right, err := evalUnary(op.Right, ctx, st)
		if err != nil {
			return value.Null, err
		}
		switch op.Op {
		case "*":
			cur, err = value.Mul(cur, right)
		case "/":
			cur, err = value.Div(cur, right)
		}
		if err != nil {
			if errors.Is(err, value.ErrDivisionByZero) {
				return value.Null, divisionByZeroErr()
			}
			return value.Null, typeErrorf("%v", err)
		}
	}
	return cur, nil
}

func evalUnary(u *lang.Unary, ctx value.Value, st *State) (value.Value, error) {
	if u.Negated != nil {
		inner, err := evalUnary(u.Negated, ctx, st)
		if err != nil {
			return value.Null, err
		}
		out, err := value.Negate(inner)
		if err != nil {
			return value.Null, typeErrorf("%v", err)
		}
		return out, nil
	}
	return evalPrimary(u.Primary, ctx, st)
}

func evalPrimary(p *lang.Primary, ctx value.Value, st *State) (value.Value, error) {
	switch {
	case p.Number != nil:
		return parseNumber(*p.Number)
	case p.Str != nil:
		s, err := lang.Unquote(*p.Str)
		if err != nil {
			return value.Null, typeErrorf("invalid string literal: %v", err)
		}
		return value.String(s), nil
	case p.Sentinel != nil:
		return evalSentinelValue(*p.Sentinel, st.Now)
	case p.Raw != nil:
		return evalRaw(p.Raw, ctx, st)
	case p.Path != nil:
		return evalPath(p.Path, ctx, st)
	case p.Paren != nil:
		return evalExpr(p.Paren, ctx, st)
	default:
		return value.Null, nil
	}
}

func parseNumber(s string) (value.Value, error) {
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Null, typeErrorf("invalid number literal %q", s)
		}
		return value.Float(f), nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return value.Null, typeErrorf("invalid number literal %q", s)
	}
	return value.Int(i), nil
}

// evalSentinelValue resolves a sentinel token to its value. $past and
// $future stand in for "the earliest/latest representable instant" when
// used as ordinary values (outside an "is past|future" check, which
// instead compares directly against now); this is a deliberate
// approximation, not a literal reading of any particular calendar bound.
func evalSentinelValue(text string, now time.Time) (value.Value, error) {
	switch text {
	case "$now":
		return value.Date(now), nil
	case "$today":
		y, m, d := now.UTC().Date()
		return value.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), nil
	case "$past":
		return value.Date(time.Unix(0, 0).UTC()), nil
	case "$future":
		return value.Date(time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)), nil
	case "$empty":
		return value.Null, nil
	default:
		return value.Null, unknownSentinelErr(text)
	}
}

func evalRaw(r *lang.RawExpr, ctx value.Value, st *State) (value.Value, error) {
	var res resolver.Resolver
	if r.Hint != "" {
		found, ok := st.Registry.Resolver(r.Hint)
		if !ok {
			return value.Null, resolverErrorf("unknown resolver hint %q", r.Hint)
		}
		res = found
	} else {
		res = st.Registry.Default()
	}
	if res == nil {
		return value.Null, resolverErrorf("no resolver registered")
	}
	if !res.SupportsRaw() {
		return value.Null, resolverErrorf("resolver %q does not support raw queries", res.Name())
	}
	query := strings.Trim(r.Text, "`")
	v, ok, err := res.ResolveRaw(query, ctx)
	if err != nil {
		return value.Null, err
	}
	if !ok {
		return value.Null, nil
	}
	return v, nil
}

func evalPath(p *lang.Path, ctx value.Value, st *State) (value.Value, error) {
	// The bare identifiers true and false are the boolean literals.
	if len(p.Segments) == 1 && p.Segments[0].Index == nil {
		switch p.Segments[0].Name {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		}
	}
	segments, err := pathToSegments(p)
	if err != nil {
		return value.Null, err
	}
	res := st.Registry.Default()
	if res == nil {
		return value.Null, resolverErrorf("no resolver registered")
	}
	v, ok := res.Resolve(segments, ctx)
	if !ok {
		return value.Null, nil
	}
	return v, nil
}

func pathToSegments(p *lang.Path) ([]resolver.Segment, error) {
	segments := make([]resolver.Segment, 0, len(p.Segments))
	for _, seg := range p.Segments {
		segments = append(segments, resolver.Segment{Name: seg.Name})
		if seg.Index != nil {
			idx, err := strconv.Atoi(*seg.Index)
			if err != nil {
				return nil, typeErrorf("invalid path index %q", *seg.Index)
			}
			segments = append(segments, resolver.Segment{HasIndex: true, Index: idx})
		}
	}
	return segments, nil
}
