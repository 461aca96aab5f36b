// Package equal is the structural equality check shared by request
// deduplication and selector subscriptions.
package equal

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var opts = cmp.Options{cmpopts.EquateEmpty()}

// Equal reports whether a and b hold the same value. Nil and empty slices or
// maps compare equal; times compare by instant.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, opts...)
}
