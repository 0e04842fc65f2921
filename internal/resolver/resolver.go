// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package resolver implements the dilemma path-resolver subsystem: the
// Resolver contract, the built-in JqResolver/JsonPathResolver/BasicResolver,
// and the process-wide Registry that selects among them. The registry
// design — a registration-order-tracked map plus an explicit default
// pointer and capability self-probing at startup — is grounded on the
// teacher's internal/access/policy/attribute/resolver.go
// (Resolver.RegisterProvider) and attribute/schema.go (SchemaRegistry),
// adapted from "many namespaced attribute providers feeding one bag" to
// "one active path resolver selected from several, by priority probe".
package resolver

import (
	"github.com/patrickcd/dilemma/internal/value"
)

// Segment is one step of a Path: either a map/field name or a list index.
// The evaluator only ever speaks to resolvers in terms of segment lists;
// converting a segment to a native lookup key is the resolver's job.
type Segment struct {
	Name     string
	Index    int
	HasIndex bool
}

// Resolver maps a path (segment list) or a raw sub-expression to a value
// within a context. Resolve returns ok=false for any path that does not
// exist in context — not an error; callers (the evaluator) treat that as
// null per spec §1.5.
type Resolver interface {
	// Name is the resolver's registry key (e.g. "jq", "jsonpath", "basic").
	Name() string

	// Resolve looks up segments within context.
	Resolve(segments []Segment, context value.Value) (value.Value, bool)

	// SupportsRaw reports whether ResolveRaw is implemented. A resolver
	// without raw-query support causes the evaluator to return a
	// resolver-capability error when a RawPath hints at it (or it is the
	// active default).
	SupportsRaw() bool

	// ResolveRaw evaluates a raw query string (the contents of a backtick
	// block) against context. ok=false with a nil error means "not found";
	// a non-nil error means the query itself was malformed.
	ResolveRaw(query string, context value.Value) (v value.Value, ok bool, err error)
}
