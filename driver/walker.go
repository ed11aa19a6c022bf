// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"io/fs"
	"strings"

	"github.com/hashicorp/go-unarchive"
	"github.com/pkg/errors"
)

// SniffSize is the number of leading bytes of an entry that the content filter gets to see.
const SniffSize = 512

// archiveWalker is an interface that represents a file walker in an archive
type archiveWalker interface {
	Type() string
	Next() (archiveEntry, error)
}

// archiveEntry is an interface that represents a file in an archive
type archiveEntry interface {
	unarchive.Resource
	Linkname() (string, error)
	Open() (io.ReadCloser, error)
}

// matcher decides whether an entry is part of the requested extraction.
type matcher func(name string) bool

// matchAll matches every entry.
func matchAll(string) bool {
	return true
}

// matchEntry matches the entry path and all entries below it.
func matchEntry(path string) matcher {
	p := cleanName(path)
	return func(name string) bool {
		n := cleanName(name)
		return n == p || strings.HasPrefix(n, p+"/")
	}
}

// cleanName removes leading "./" and "/" and trailing "/" from an entry name.
func cleanName(name string) string {
	name = strings.TrimPrefix(name, "./")
	return strings.Trim(name, "/")
}

// validateEntry is the default argument check of a single entry extraction.
func validateEntry(path string, outputDirectory string) error {
	if len(cleanName(path)) == 0 {
		return errors.New("empty entry path")
	}
	if len(outputDirectory) == 0 {
		return errors.New("empty output directory")
	}
	return nil
}

// entryError attaches the entry name to err.
func entryError(x *unarchive.Extraction, name string, msg string, err error) error {
	return &unarchive.ExtractionError{Op: "extract", Archive: x.SourceFile, Entry: name, Err: errors.Wrap(err, msg)}
}

// dirMode remembers the permissions of a directory entry until all entries are written.
type dirMode struct {
	path string
	mode fs.FileMode
}

// walk checks ctx for cancellation, while it reads the entries from src and extracts
// the entries accepted by match to dst.
func walk(ctx context.Context, x *unarchive.Extraction, src archiveWalker, dst string, match matcher) error {
	cfg := x.Config()
	td := x.Telemetry
	td.ExtractedType = src.Type()

	if err := ensureDestination(cfg, dst); err != nil {
		return err
	}

	cfg.Logger().Info("start extraction", "type", src.Type(), "destination", dst)
	var objectCounter int64
	var matched bool
	var dirs []dirMode

	for {
		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return err
		}

		ae, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "error reading archive")
		}
		if ae == nil {
			continue
		}

		if !match(ae.Name()) {
			continue
		}
		matched = true

		// check if maximum of objects is exceeded
		objectCounter++
		if err := cfg.CheckMaxFiles(objectCounter); err != nil {
			return entryError(x, ae.Name(), "max objects check failed", err)
		}

		selected, err := x.IsSelected(ae.Name(), ae)
		if err != nil {
			return err
		}
		if !selected {
			cfg.Logger().Debug("skipping entry (not selected)", "name", ae.Name())
			continue
		}

		cfg.Logger().Debug("extract", "name", ae.Name())
		switch {

		case ae.IsDir():
			path, err := createDir(cfg, dst, ae.Name(), cfg.CustomCreateDirMode())
			if err != nil {
				return entryError(x, ae.Name(), "failed to create safe directory", err)
			}
			// the destination keeps the permissions of the caller
			if path == dst {
				continue
			}
			dirs = append(dirs, dirMode{path: path, mode: ae.Mode()})
			td.ExtractedDirs++

		case ae.IsRegular():
			if err := cfg.CheckExtractionSize(td.ExtractionSize + ae.Size()); err != nil {
				return entryError(x, ae.Name(), "max extraction size exceeded", err)
			}
			n, err := extractFile(x, dst, ae)
			if err != nil {
				return err
			}
			td.ExtractionSize += n

		case ae.IsSymlink():
			if cfg.DenySymlinkExtraction() {
				if err := unsupported(x, ae); err != nil {
					return err
				}
				continue
			}
			target, err := ae.Linkname()
			if err != nil {
				return entryError(x, ae.Name(), "cannot read symlink target", err)
			}
			created, err := createSymlink(cfg, dst, ae.Name(), target)
			if err != nil {
				return entryError(x, ae.Name(), "failed to create symlink", err)
			}
			if created {
				td.ExtractedSymlinks++
			}

		default:
			if err := unsupported(x, ae); err != nil {
				return err
			}
		}
	}

	// directories might be read-only, so their permissions are applied last
	for i := len(dirs) - 1; i >= 0; i-- {
		if dirs[i].mode.Perm() == 0 {
			continue
		}
		if err := x.ApplyPermissions(dirs[i].path, dirs[i].mode); err != nil {
			return entryError(x, dirs[i].path, "cannot apply permissions", err)
		}
	}

	if !matched && len(x.Entry) > 0 {
		return entryError(x, x.Entry, "cannot extract entry", unarchive.ErrEntryNotFound)
	}
	return nil
}

// unsupported skips ae or fails, depending on the configuration.
func unsupported(x *unarchive.Extraction, ae archiveEntry) error {
	cfg := x.Config()
	if cfg.ContinueOnUnsupportedFiles() {
		cfg.Logger().Info("skipped unsupported entry", "name", ae.Name(), "mode", ae.Mode().String())
		x.Telemetry.UnsupportedFiles++
		x.Telemetry.LastUnsupportedFile = ae.Name()
		return nil
	}
	return entryError(x, ae.Name(), "cannot extract entry", unarchive.ErrUnsupportedFile)
}

// extractFile runs the content filter on the head of ae and writes it to dst.
func extractFile(x *unarchive.Extraction, dst string, ae archiveEntry) (int64, error) {
	fin, err := ae.Open()
	if err != nil {
		return 0, entryError(x, ae.Name(), "failed to open file", err)
	}
	defer fin.Close()

	src, include, err := filterContent(x, fin, ae.Name())
	if err != nil || !include {
		return 0, err
	}

	n, written, err := createFile(x, dst, ae.Name(), src, ae.Mode(), ae.ModTime(), remaining(x))
	if err != nil {
		return n, entryError(x, ae.Name(), "failed to create file", err)
	}
	if written {
		x.Telemetry.ExtractedFiles++
	}
	return n, nil
}

// filterContent hands the first [SniffSize] bytes of r to the content filter and
// returns a reader that still yields all bytes of r.
func filterContent(x *unarchive.Extraction, r io.Reader, name string) (io.Reader, bool, error) {
	if !x.HasContentFilter() {
		return r, true, nil
	}

	br := bufio.NewReaderSize(r, SniffSize)
	head, err := br.Peek(SniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, false, entryError(x, name, "cannot read entry", err)
	}

	include, err := x.Include(bytes.NewReader(head), name)
	if err != nil {
		return nil, false, err
	}
	if !include {
		x.Config().Logger().Debug("skipping entry (filtered)", "name", name)
	}
	return br, include, nil
}

// remaining returns how many bytes may still be written, or -1 if unlimited.
func remaining(x *unarchive.Extraction) int64 {
	limit := x.Config().MaxExtractionSize()
	if limit < 0 {
		return -1
	}
	return limit - x.Telemetry.ExtractionSize
}
