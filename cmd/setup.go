// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-unarchive"
	"github.com/hashicorp/go-unarchive/driver"
	"github.com/hashicorp/go-unarchive/filter"
	"github.com/hashicorp/go-unarchive/selector"
)

// newDriver returns the format driver for name.
func newDriver(name string, password string) (unarchive.Driver, error) {
	switch name {
	case "", "auto":
		return &driver.Auto{Password: password}, nil
	case "zip":
		return driver.NewZip(), nil
	case "tar":
		return driver.NewTar(), nil
	case "rar":
		return &driver.Rar{Password: password}, nil
	case "7z":
		return &driver.SevenZip{Password: password}, nil
	case "decompress":
		return driver.NewDecompressor(), nil
	}
	return nil, fmt.Errorf("unknown driver %q", name)
}

// selectors builds the selection pipeline of the cli parameters.
func (cli *CLI) selectors() ([]unarchive.Selector, error) {
	var selectors []unarchive.Selector

	if len(cli.Include) > 0 || len(cli.Exclude) > 0 {
		p, err := selector.Patterns(
			selector.WithIncludes(cli.Include...),
			selector.WithExcludes(cli.Exclude...),
			selector.WithCaseInsensitive(cli.IgnoreCase),
		)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, p)
	}

	if len(cli.MaxEntrySize) > 0 {
		size, err := humanize.ParseBytes(cli.MaxEntrySize)
		if err != nil {
			return nil, fmt.Errorf("invalid entry size %q: %w", cli.MaxEntrySize, err)
		}
		if size > math.MaxInt64 {
			size = math.MaxInt64
		}
		selectors = append(selectors, selector.Size(0, int64(size)))
	}

	return selectors, nil
}

// contentFilter loads the content filter rules, if configured.
func (cli *CLI) contentFilter() (unarchive.ContentFilter, error) {
	if len(cli.Rules) == 0 {
		return nil, nil
	}
	rules, err := filter.LoadRules(cli.Rules)
	if err != nil {
		return nil, err
	}
	return rules.Filter()
}

// destinationFor returns the destination of src. If several archives are
// extracted, each gets a sub directory named after the archive.
func destinationFor(dst string, src string, archives int) string {
	if archives <= 1 {
		return dst
	}
	return filepath.Join(dst, stem(src))
}

// stem returns the file name of src without its archive extensions.
func stem(src string) string {
	name := filepath.Base(src)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimSuffix(name, ".tar")
	if len(name) == 0 {
		return "archive"
	}
	return name
}

// syncWriter serializes writes of concurrent extractions.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// Write implements io.Writer.
func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
