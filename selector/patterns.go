// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"fmt"
	"path"
	"strings"

	"github.com/hashicorp/go-unarchive"
)

// PatternOption adjusts a [PatternSelector].
type PatternOption func(*PatternSelector)

// PatternSelector selects entries by include and exclude patterns.
//
// Patterns use '/' as separator and support '*' and '?' within one path element
// and '**' for any number of path elements. A pattern that ends with '/'
// matches everything below that directory. Without include patterns every entry
// is included. An entry that matches an exclude pattern is never selected.
type PatternSelector struct {
	includes        []string
	excludes        []string
	caseInsensitive bool
}

// WithCaseInsensitive matches patterns without regard to case.
func WithCaseInsensitive(b bool) PatternOption {
	return func(p *PatternSelector) {
		p.caseInsensitive = b
	}
}

// WithExcludes adds exclude patterns.
func WithExcludes(patterns ...string) PatternOption {
	return func(p *PatternSelector) {
		p.excludes = append(p.excludes, patterns...)
	}
}

// WithIncludes adds include patterns.
func WithIncludes(patterns ...string) PatternOption {
	return func(p *PatternSelector) {
		p.includes = append(p.includes, patterns...)
	}
}

// Patterns creates a selector from include and exclude patterns. Malformed
// patterns are reported when the selector is created.
func Patterns(opts ...PatternOption) (*PatternSelector, error) {
	p := &PatternSelector{}
	for _, opt := range opts {
		opt(p)
	}

	p.includes = normalizePatterns(p.includes, p.caseInsensitive)
	p.excludes = normalizePatterns(p.excludes, p.caseInsensitive)

	for _, pattern := range append(append([]string{}, p.includes...), p.excludes...) {
		if _, err := matchPattern(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}
	return p, nil
}

// IsSelected implements [unarchive.Selector].
func (p *PatternSelector) IsSelected(r unarchive.Resource) (bool, error) {
	name := normalizeName(r.Name(), p.caseInsensitive)

	if len(p.includes) > 0 {
		included, err := matchAny(p.includes, name)
		if err != nil || !included {
			return false, err
		}
	}

	excluded, err := matchAny(p.excludes, name)
	if err != nil {
		return false, err
	}
	return !excluded, nil
}

// String implements fmt.Stringer.
func (p *PatternSelector) String() string {
	return fmt.Sprintf("patterns(includes=%v, excludes=%v)", p.includes, p.excludes)
}

// normalizePatterns expands directory patterns and applies case folding.
func normalizePatterns(patterns []string, fold bool) []string {
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.ReplaceAll(pattern, "\\", "/")
		pattern = strings.TrimPrefix(pattern, "./")
		pattern = strings.TrimPrefix(pattern, "/")
		if strings.HasSuffix(pattern, "/") {
			pattern += "**"
		}
		if fold {
			pattern = strings.ToLower(pattern)
		}
		if len(pattern) > 0 {
			result = append(result, pattern)
		}
	}
	return result
}

// normalizeName prepares an entry name for matching.
func normalizeName(name string, fold bool) string {
	name = strings.TrimPrefix(name, "./")
	name = strings.Trim(name, "/")
	if fold {
		name = strings.ToLower(name)
	}
	return name
}

// matchAny returns true if one of patterns matches name.
func matchAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := matchPattern(pattern, name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// matchPattern matches name element by element against pattern.
func matchPattern(pattern string, name string) (bool, error) {
	var names []string
	if len(name) > 0 {
		names = strings.Split(name, "/")
	}
	return matchElements(strings.Split(pattern, "/"), names)
}

// matchElements matches the path elements of a name. '**' consumes zero or
// more elements.
func matchElements(patterns []string, names []string) (bool, error) {
	for len(patterns) > 0 {
		if patterns[0] == "**" {
			// collapse consecutive '**'
			for len(patterns) > 1 && patterns[1] == "**" {
				patterns = patterns[1:]
			}
			if len(patterns) == 1 {
				return true, nil
			}
			for i := 0; i <= len(names); i++ {
				ok, err := matchElements(patterns[1:], names[i:])
				if err != nil || ok {
					return ok, err
				}
			}
			return false, nil
		}

		if len(names) == 0 {
			// validate the remaining patterns
			for _, p := range patterns {
				if _, err := path.Match(p, ""); err != nil {
					return false, err
				}
			}
			return false, nil
		}

		ok, err := path.Match(patterns[0], names[0])
		if err != nil || !ok {
			return false, err
		}
		patterns = patterns[1:]
		names = names[1:]
	}
	return len(names) == 0, nil
}
