// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package resolver

import (
	"sync"
	"sync/atomic"

	"github.com/samber/oops"

	"github.com/patrickcd/dilemma/internal/value"
)

// Registry is the process-wide name→resolver map plus a current-default
// pointer. Registration and default-pointer changes become visible
// atomically to readers (spec §1.8): the default is stored behind
// atomic.Pointer so concurrent Evaluate calls never observe a torn update.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
	order     []string // registration order, for deterministic listing
	def       atomic.Pointer[Resolver]
}

// NewRegistry builds an empty registry. Use NewDefaultRegistry to get one
// pre-populated and self-initialized per spec §1.6.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register adds (or replaces) a resolver under name. If makeDefault is true,
// or if no default has been set yet, it becomes the active default.
func (r *Registry) Register(name string, res Resolver, makeDefault bool) error {
	if name == "" {
		return oops.Code("resolver_error").Errorf("resolver name must not be empty")
	}
	r.mu.Lock()
	_, existed := r.resolvers[name]
	r.resolvers[name] = res
	if !existed {
		r.order = append(r.order, name)
	}
	r.mu.Unlock()

	if makeDefault || r.def.Load() == nil {
		r.def.Store(&res)
	}
	return nil
}

// Resolver looks up a resolver by name.
func (r *Registry) Resolver(name string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resolvers[name]
	return res, ok
}

// Default returns the current default resolver, or nil if none is
// registered.
func (r *Registry) Default() Resolver {
	p := r.def.Load()
	if p == nil {
		return nil
	}
	return *p
}

// SetDefault forces the default to the named resolver, if registered.
func (r *Registry) SetDefault(name string) error {
	res, ok := r.Resolver(name)
	if !ok {
		return oops.Code("resolver_error").With("resolver", name).Errorf("no resolver registered under %q", name)
	}
	r.def.Store(&res)
	return nil
}

// Names returns every registered resolver name, in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// NewDefaultRegistry builds a registry with all three built-ins always
// registered (selectable by name even when not default), self-initialized
// by probing JQ, then JSONPath, then Basic in priority order per spec
// §1.6. The first successful probe becomes the default.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	jq := NewJq()
	jsonPath := NewJSONPath()
	basic := NewBasic()

	jqOK := probe(jq)
	jsonPathOK := probe(jsonPath)

	// Always register all built-ins, regardless of probe outcome, so callers
	// can still select them by name.
	_ = r.Register(jq.Name(), jq, false)
	_ = r.Register(jsonPath.Name(), jsonPath, false)
	_ = r.Register(basic.Name(), basic, false)

	switch {
	case jqOK:
		_ = r.SetDefault(jq.Name())
	case jsonPathOK:
		_ = r.SetDefault(jsonPath.Name())
	default:
		_ = r.SetDefault(basic.Name())
	}
	return r
}

// probe runs a trivial query through a resolver to check it is usable in
// this process (e.g. the JQ/JSONPath engine compiles and runs correctly).
// Failure causes the registry to skip it as a default candidate, matching
// the teacher's "skip if capability is unavailable at startup" language.
func probe(res Resolver) bool {
	ctxVal, err := value.FromNative(map[string]any{"__probe__": true})
	if err != nil {
		return false
	}
	_, _, err = res.ResolveRaw(".", ctxVal)
	return err == nil
}
