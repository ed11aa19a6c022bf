// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-unarchive"
)

// SizeSelector selects regular files by their uncompressed size. Other entries
// are always selected.
type SizeSelector struct {
	min int64
	max int64
}

// Size selects regular files with minSize <= size <= maxSize. A negative maxSize
// disables the upper bound.
func Size(minSize, maxSize int64) *SizeSelector {
	return &SizeSelector{min: minSize, max: maxSize}
}

// IsSelected implements [unarchive.Selector].
func (s *SizeSelector) IsSelected(r unarchive.Resource) (bool, error) {
	if !r.IsRegular() || r.Size() < 0 {
		return true, nil
	}
	if r.Size() < s.min {
		return false, nil
	}
	return s.max < 0 || r.Size() <= s.max, nil
}

// String implements fmt.Stringer.
func (s *SizeSelector) String() string {
	if s.max < 0 {
		return fmt.Sprintf("size(>=%s)", humanize.IBytes(uint64(s.min)))
	}
	return fmt.Sprintf("size(%s-%s)", humanize.IBytes(uint64(s.min)), humanize.IBytes(uint64(s.max)))
}

// FilesOnly selects regular files.
var FilesOnly = unarchive.SelectorFunc(func(r unarchive.Resource) (bool, error) {
	return r.IsRegular(), nil
})

// DirectoriesOnly selects directories.
var DirectoriesOnly = unarchive.SelectorFunc(func(r unarchive.Resource) (bool, error) {
	return r.IsDir(), nil
})

// NoSymlinks rejects symlinks.
var NoSymlinks = unarchive.SelectorFunc(func(r unarchive.Resource) (bool, error) {
	return !r.IsSymlink(), nil
})

// ModifiedAfter selects entries modified after t. Entries without modification
// time are selected.
func ModifiedAfter(t time.Time) unarchive.Selector {
	return unarchive.SelectorFunc(func(r unarchive.Resource) (bool, error) {
		if r.ModTime().IsZero() {
			return true, nil
		}
		return r.ModTime().After(t), nil
	})
}

// Not inverts s. Errors of s are passed through.
func Not(s unarchive.Selector) unarchive.Selector {
	return unarchive.SelectorFunc(func(r unarchive.Resource) (bool, error) {
		ok, err := s.IsSelected(r)
		if err != nil {
			return false, err
		}
		return !ok, nil
	})
}

// Any selects an entry if one of selectors selects it. Without selectors no
// entry is selected.
func Any(selectors ...unarchive.Selector) unarchive.Selector {
	return unarchive.SelectorFunc(func(r unarchive.Resource) (bool, error) {
		for _, s := range selectors {
			ok, err := s.IsSelected(r)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	})
}
