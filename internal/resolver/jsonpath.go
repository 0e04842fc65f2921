// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package resolver

import (
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/samber/oops"

	"github.com/patrickcd/dilemma/internal/value"
)

// JSONPath is the portable, pure-Go resolver: segments become a
// "$.a.b[0]"-style JSONPath expression, and raw queries are JSONPath
// programs run directly. Also absent from the retrieval pack as executable
// code; implemented from github.com/PaesslerAG/jsonpath's documented public
// API (jsonpath.Get), which depends transitively on
// github.com/PaesslerAG/gval.
type JSONPath struct{}

// NewJSONPath constructs a JSONPath resolver.
func NewJSONPath() *JSONPath { return &JSONPath{} }

func (*JSONPath) Name() string      { return "jsonpath" }
func (*JSONPath) SupportsRaw() bool { return true }

func (jp *JSONPath) Resolve(segments []Segment, context value.Value) (value.Value, bool) {
	v, ok, err := jp.ResolveRaw(segmentsToJSONPath(segments), context)
	if err != nil {
		return value.Null, false
	}
	return v, ok
}

func (*JSONPath) ResolveRaw(query string, context value.Value) (value.Value, bool, error) {
	result, err := jsonpath.Get(query, context.ToNative())
	if err != nil {
		if isNotFoundErr(err) {
			return value.Null, false, nil
		}
		return value.Null, false, oops.Code("resolver_error").
			With("resolver", "jsonpath").With("query", query).Wrapf(err, "running jsonpath query")
	}
	if result == nil {
		return value.Null, false, nil
	}
	out, err := value.FromNative(result)
	if err != nil {
		return value.Null, false, oops.Code("resolver_error").
			With("resolver", "jsonpath").Wrapf(err, "converting jsonpath result")
	}
	return out, true, nil
}

// isNotFoundErr treats jsonpath's "unknown key"/"index out of range" style
// errors as a missing path (ok=false, no error) rather than a query error,
// matching spec §1.5's "missing segments yield null, not an error".
func isNotFoundErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown key") ||
		strings.Contains(msg, "out of range") ||
		strings.Contains(msg, "not found")
}

// segmentsToJSONPath renders segments as "$.a.b[0]"-style JSONPath syntax.
func segmentsToJSONPath(segments []Segment) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range segments {
		if seg.HasIndex {
			fmt.Fprintf(&b, "[%d]", seg.Index)
			continue
		}
		b.WriteByte('.')
		b.WriteString(seg.Name)
	}
	return b.String()
}
