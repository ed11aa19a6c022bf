// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filter

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/hashicorp/go-unarchive"
)

// Chain includes an entry only if every filter includes it. Filters are asked in
// order; each one sees the full head of the entry.
func Chain(filters ...unarchive.ContentFilter) unarchive.ContentFilter {
	return unarchive.ContentFilterFunc(func(r io.Reader, name string) (bool, error) {
		switch len(filters) {
		case 0:
			return true, nil
		case 1:
			return filters[0].Include(r, name)
		}

		head, err := io.ReadAll(r)
		if err != nil {
			return false, err
		}
		for _, f := range filters {
			ok, err := f.Include(bytes.NewReader(head), name)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}

// NamePattern vetoes entries whose name matches expr.
func NamePattern(expr string) (unarchive.ContentFilter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern: %w", err)
	}
	return unarchive.ContentFilterFunc(func(_ io.Reader, name string) (bool, error) {
		return !re.MatchString(name), nil
	}), nil
}

// MagicBytes vetoes entries whose content starts with one of prefixes.
func MagicBytes(prefixes ...[]byte) unarchive.ContentFilter {
	longest := 0
	for _, p := range prefixes {
		if len(p) > longest {
			longest = len(p)
		}
	}
	return unarchive.ContentFilterFunc(func(r io.Reader, _ string) (bool, error) {
		head := make([]byte, longest)
		n, err := io.ReadFull(r, head)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return false, err
		}
		return !hasPrefix(head[:n], prefixes), nil
	})
}

// hasPrefix returns true if data starts with one of prefixes.
func hasPrefix(data []byte, prefixes [][]byte) bool {
	for _, p := range prefixes {
		if len(p) > 0 && bytes.HasPrefix(data, p) {
			return true
		}
	}
	return false
}
