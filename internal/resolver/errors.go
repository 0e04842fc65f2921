// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package resolver

import (
	"github.com/samber/oops"
)

// errResolverCapability builds the ResolverError category (spec §1.9) for a
// resolver asked to do something it does not support.
func errResolverCapability(name, capability string) error {
	return oops.Code("resolver_error").
		With("resolver", name).
		With("capability", capability).
		Errorf("resolver %q does not support %s", name, capability)
}
