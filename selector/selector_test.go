// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package selector_test

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/hashicorp/go-unarchive"
	"github.com/hashicorp/go-unarchive/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resource is a static unarchive.Resource
type resource struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (r resource) Name() string       { return r.name }
func (r resource) Size() int64        { return r.size }
func (r resource) Mode() fs.FileMode  { return r.mode }
func (r resource) ModTime() time.Time { return r.modTime }
func (r resource) IsDir() bool        { return r.mode.IsDir() }
func (r resource) IsRegular() bool    { return r.mode.IsRegular() }
func (r resource) IsSymlink() bool    { return r.mode&fs.ModeSymlink != 0 }

func regular(name string, size int64) resource {
	return resource{name: name, size: size, mode: 0644}
}

func TestPatterns(t *testing.T) {
	cases := []struct {
		name   string
		opts   []selector.PatternOption
		entry  string
		expect bool
	}{
		{name: "no patterns", entry: "a/b.txt", expect: true},
		{name: "simple include", opts: []selector.PatternOption{selector.WithIncludes("*.txt")}, entry: "b.txt", expect: true},
		{name: "star does not cross directories", opts: []selector.PatternOption{selector.WithIncludes("*.txt")}, entry: "a/b.txt", expect: false},
		{name: "double star crosses directories", opts: []selector.PatternOption{selector.WithIncludes("**/*.txt")}, entry: "a/b/c.txt", expect: true},
		{name: "double star matches zero directories", opts: []selector.PatternOption{selector.WithIncludes("**/*.txt")}, entry: "c.txt", expect: true},
		{name: "double star in the middle", opts: []selector.PatternOption{selector.WithIncludes("a/**/c.txt")}, entry: "a/x/y/c.txt", expect: true},
		{name: "trailing slash matches below directory", opts: []selector.PatternOption{selector.WithIncludes("a/")}, entry: "a/b/c.txt", expect: true},
		{name: "trailing slash matches directory entry", opts: []selector.PatternOption{selector.WithIncludes("a/")}, entry: "a/", expect: true},
		{name: "question mark", opts: []selector.PatternOption{selector.WithIncludes("?.txt")}, entry: "b.txt", expect: true},
		{name: "exclude wins", opts: []selector.PatternOption{selector.WithIncludes("**"), selector.WithExcludes("**/*.bin")}, entry: "a/b.bin", expect: false},
		{name: "exclude only", opts: []selector.PatternOption{selector.WithExcludes("*.bin")}, entry: "a.txt", expect: true},
		{name: "case sensitive by default", opts: []selector.PatternOption{selector.WithIncludes("*.TXT")}, entry: "b.txt", expect: false},
		{name: "case insensitive", opts: []selector.PatternOption{selector.WithIncludes("*.TXT"), selector.WithCaseInsensitive(true)}, entry: "b.txt", expect: true},
		{name: "leading dot slash", opts: []selector.PatternOption{selector.WithIncludes("a/*.txt")}, entry: "./a/b.txt", expect: true},
		{name: "windows separators in pattern", opts: []selector.PatternOption{selector.WithIncludes("a\\*.txt")}, entry: "a/b.txt", expect: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := selector.Patterns(tc.opts...)
			require.NoError(t, err)
			ok, err := s.IsSelected(regular(tc.entry, 1))
			require.NoError(t, err)
			assert.Equal(t, tc.expect, ok)
		})
	}
}

func TestPatternsInvalid(t *testing.T) {
	cases := []struct {
		name string
		opts []selector.PatternOption
	}{
		{name: "include", opts: []selector.PatternOption{selector.WithIncludes("[")}},
		{name: "exclude", opts: []selector.PatternOption{selector.WithExcludes("a/[")}},
		{name: "after double star", opts: []selector.PatternOption{selector.WithIncludes("**/[")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := selector.Patterns(tc.opts...)
			assert.Error(t, err)
		})
	}
}

func TestSize(t *testing.T) {
	cases := []struct {
		name     string
		min, max int64
		resource resource
		expect   bool
	}{
		{name: "inside", min: 1, max: 10, resource: regular("a", 5), expect: true},
		{name: "too small", min: 6, max: 10, resource: regular("a", 5), expect: false},
		{name: "too big", min: 1, max: 4, resource: regular("a", 5), expect: false},
		{name: "no upper bound", min: 1, max: -1, resource: regular("a", 1<<40), expect: true},
		{name: "unknown size", min: 1, max: 4, resource: regular("a", -1), expect: true},
		{name: "directory", min: 1, max: 4, resource: resource{name: "d", mode: fs.ModeDir | 0755}, expect: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := selector.Size(tc.min, tc.max).IsSelected(tc.resource)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, ok)
		})
	}
}

func TestSizeString(t *testing.T) {
	assert.Equal(t, "size(1.0 KiB-1.0 MiB)", selector.Size(1024, 1<<20).String())
	assert.Equal(t, "size(>=0 B)", selector.Size(0, -1).String())
}

func TestTypeSelectors(t *testing.T) {
	file := regular("a", 1)
	dir := resource{name: "d", mode: fs.ModeDir | 0755}
	link := resource{name: "l", mode: fs.ModeSymlink | 0777}

	cases := []struct {
		name     string
		selector unarchive.Selector
		resource resource
		expect   bool
	}{
		{name: "files only, file", selector: selector.FilesOnly, resource: file, expect: true},
		{name: "files only, dir", selector: selector.FilesOnly, resource: dir, expect: false},
		{name: "directories only, dir", selector: selector.DirectoriesOnly, resource: dir, expect: true},
		{name: "directories only, file", selector: selector.DirectoriesOnly, resource: file, expect: false},
		{name: "no symlinks, link", selector: selector.NoSymlinks, resource: link, expect: false},
		{name: "no symlinks, file", selector: selector.NoSymlinks, resource: file, expect: true},
		{name: "not", selector: selector.Not(selector.FilesOnly), resource: file, expect: false},
		{name: "any", selector: selector.Any(selector.FilesOnly, selector.DirectoriesOnly), resource: dir, expect: true},
		{name: "any without selectors", selector: selector.Any(), resource: file, expect: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := tc.selector.IsSelected(tc.resource)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, ok)
		})
	}
}

func TestModifiedAfter(t *testing.T) {
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := selector.ModifiedAfter(ref)

	cases := []struct {
		name    string
		modTime time.Time
		expect  bool
	}{
		{name: "newer", modTime: ref.Add(time.Second), expect: true},
		{name: "older", modTime: ref.Add(-time.Second), expect: false},
		{name: "equal", modTime: ref, expect: false},
		{name: "no time", expect: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := s.IsSelected(resource{name: "a", mode: 0644, modTime: tc.modTime})
			require.NoError(t, err)
			assert.Equal(t, tc.expect, ok)
		})
	}
}

func TestNotPassesErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := unarchive.SelectorFunc(func(unarchive.Resource) (bool, error) { return true, boom })

	ok, err := selector.Not(failing).IsSelected(regular("a", 1))
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}
