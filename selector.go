// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"io/fs"
	"time"
)

// Resource describes an archive entry to the selection pipeline.
type Resource interface {
	// Name is the path of the entry inside the archive, separated by '/'
	Name() string

	// Size is the uncompressed size of the entry
	Size() int64

	// Mode contains the type and permission bits of the entry
	Mode() fs.FileMode

	// ModTime is the modification time of the entry
	ModTime() time.Time

	// IsDir returns true if the entry is a directory
	IsDir() bool

	// IsRegular returns true if the entry is a regular file
	IsRegular() bool

	// IsSymlink returns true if the entry is a symlink
	IsSymlink() bool
}

// Selector decides whether an entry is extracted. An error aborts the extraction.
type Selector interface {
	IsSelected(r Resource) (bool, error)
}

// SelectorFunc adapts a function to the [Selector] interface.
type SelectorFunc func(r Resource) (bool, error)

// IsSelected calls f(r).
func (f SelectorFunc) IsSelected(r Resource) (bool, error) {
	return f(r)
}

// isSelected evaluates selectors in registration order. The first rejecting
// selector ends the evaluation. Without selectors every entry is selected.
func isSelected(selectors []Selector, name string, r Resource) (bool, error) {
	for _, s := range selectors {
		ok, err := s.IsSelected(r)
		if err != nil {
			return false, &ExtractionError{Op: "select", Entry: resourceName(name, r), Err: err}
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// resourceName prefers the name reported by the resource.
func resourceName(name string, r Resource) string {
	if r != nil && len(r.Name()) > 0 {
		return r.Name()
	}
	return name
}
