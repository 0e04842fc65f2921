// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package resolver

import (
	"github.com/patrickcd/dilemma/internal/value"
)

// Basic is the minimal, dependency-free resolver: top-level keys and
// simple dotted/indexed traversal only, no raw-query support. Grounded on
// the teacher's plain map[string]any bag traversal in
// dsl/evaluator.go's resolveAttrRef/getBag.
type Basic struct{}

// NewBasic constructs a Basic resolver.
func NewBasic() *Basic { return &Basic{} }

func (*Basic) Name() string        { return "basic" }
func (*Basic) SupportsRaw() bool   { return false }

func (*Basic) ResolveRaw(string, value.Value) (value.Value, bool, error) {
	return value.Null, false, errResolverCapability("basic", "raw queries")
}

// Resolve walks context one segment at a time. A name segment indexes into
// a map; an index segment indexes into a list. Any missing key, wrong
// container kind, or out-of-range index yields (Null, false), per spec
// §1.5 ("missing segments yield null, not an error").
func (*Basic) Resolve(segments []Segment, context value.Value) (value.Value, bool) {
	current := context
	for _, seg := range segments {
		if seg.HasIndex {
			list, ok := current.AsList()
			if !ok || seg.Index < 0 || seg.Index >= len(list) {
				return value.Null, false
			}
			current = list[seg.Index]
			continue
		}
		m, ok := current.AsMap()
		if !ok {
			return value.Null, false
		}
		v, found := m[seg.Name]
		if !found {
			return value.Null, false
		}
		current = v
	}
	return current, true
}
