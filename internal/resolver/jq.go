// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package resolver

import (
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/samber/oops"

	"github.com/patrickcd/dilemma/internal/value"
)

// Jq is the JQ-backed resolver: segments are translated into a JQ path
// (".a.b[0]") and raw queries are run as full JQ programs. Not present as
// executable code anywhere in the retrieval pack (only as an indirect
// go.mod entry); implemented from github.com/itchyny/gojq's documented
// public API (gojq.Parse + (*Code).Run) because it is the real, idiomatic
// pure-Go JQ engine and is exactly the capability spec §1.6 calls for.
type Jq struct{}

// NewJq constructs a Jq resolver.
func NewJq() *Jq { return &Jq{} }

func (*Jq) Name() string      { return "jq" }
func (*Jq) SupportsRaw() bool { return true }

// Resolve builds a JQ path string from segments and runs it.
func (j *Jq) Resolve(segments []Segment, context value.Value) (value.Value, bool) {
	v, ok, err := j.ResolveRaw(segmentsToJqPath(segments), context)
	if err != nil {
		return value.Null, false
	}
	return v, ok
}

// ResolveRaw parses query as a JQ program and runs it against context.
func (*Jq) ResolveRaw(query string, context value.Value) (value.Value, bool, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return value.Null, false, oops.Code("resolver_error").
			With("resolver", "jq").With("query", query).Wrapf(err, "parsing jq query")
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return value.Null, false, oops.Code("resolver_error").
			With("resolver", "jq").With("query", query).Wrapf(err, "compiling jq query")
	}

	iter := code.Run(context.ToNative())
	result, hasNext := iter.Next()
	if !hasNext {
		return value.Null, false, nil
	}
	if err, isErr := result.(error); isErr {
		return value.Null, false, oops.Code("resolver_error").
			With("resolver", "jq").With("query", query).Wrapf(err, "running jq query")
	}
	if result == nil {
		return value.Null, false, nil
	}
	out, err := value.FromNative(result)
	if err != nil {
		return value.Null, false, oops.Code("resolver_error").
			With("resolver", "jq").Wrapf(err, "converting jq result")
	}
	return out, true, nil
}

// segmentsToJqPath renders segments as ".a.b[0]"-style JQ path syntax.
func segmentsToJqPath(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.HasIndex {
			fmt.Fprintf(&b, "[%d]", seg.Index)
			continue
		}
		b.WriteByte('.')
		b.WriteString(seg.Name)
	}
	if b.Len() == 0 {
		return "."
	}
	return b.String()
}
