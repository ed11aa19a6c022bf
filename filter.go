// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import "io"

// ContentFilter inspects the content of an entry and can veto its extraction,
// independent of the selectors. Drivers call it once they have a readable
// stream for the entry.
type ContentFilter interface {
	Include(r io.Reader, name string) (bool, error)
}

// ContentFilterFunc adapts a function to the [ContentFilter] interface.
type ContentFilterFunc func(r io.Reader, name string) (bool, error)

// Include calls f(r, name).
func (f ContentFilterFunc) Include(r io.Reader, name string) (bool, error) {
	return f(r, name)
}
