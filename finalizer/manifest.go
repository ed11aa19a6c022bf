// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package finalizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/hashicorp/go-unarchive"
)

// ManifestEntry describes one file of the destination.
type ManifestEntry struct {
	Path     string      `json:"path"`
	Size     int64       `json:"size"`
	Mode     fs.FileMode `json:"mode"`
	Symlink  string      `json:"symlink,omitempty"`
	Checksum string      `json:"xxhash64,omitempty"`
}

// ManifestDocument is the JSON document written by [Manifest].
type ManifestDocument struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Entry       string          `json:"entry,omitempty"`
	Created     time.Time       `json:"created"`
	Entries     []ManifestEntry `json:"entries"`
}

// Manifest writes a JSON manifest of the extracted tree with an xxhash64
// checksum per regular file. The tree is the destination file, the destination
// directory or, for a single entry extraction, the extracted entry.
type Manifest struct {
	path string
}

// NewManifest creates a finalizer that writes the manifest to path.
func NewManifest(path string) *Manifest {
	return &Manifest{path: path}
}

// FinalizeExtraction implements [unarchive.Finalizer].
func (m *Manifest) FinalizeExtraction(ctx context.Context, x *unarchive.Extraction) error {
	doc, err := BuildManifest(ctx, x)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode manifest: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0640); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}
	x.Config().Logger().Info("wrote manifest", "path", m.path, "entries", len(doc.Entries))
	return nil
}

// String implements fmt.Stringer.
func (m *Manifest) String() string {
	return "manifest(" + m.path + ")"
}

// BuildManifest walks the extracted tree of x. Paths are relative to the
// destination and use '/' as separator.
func BuildManifest(ctx context.Context, x *unarchive.Extraction) (*ManifestDocument, error) {
	doc := &ManifestDocument{
		ID:          x.ID,
		Source:      x.SourceFile,
		Destination: destination(x),
		Entry:       x.Entry,
		Created:     time.Now().UTC(),
		Entries:     []ManifestEntry{},
	}

	base := doc.Destination
	root := base
	if len(x.DestFile) > 0 {
		base = filepath.Dir(x.DestFile)
	} else if len(x.Entry) > 0 {
		root = filepath.Join(base, filepath.FromSlash(x.Entry))
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		// nothing was extracted
		if path == root && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == base {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		e := ManifestEntry{
			Path: filepath.ToSlash(rel),
			Size: info.Size(),
			Mode: info.Mode(),
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			if e.Symlink, err = os.Readlink(path); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if e.Checksum, err = checksum(path); err != nil {
				return err
			}
		}
		doc.Entries = append(doc.Entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot build manifest: %w", err)
	}

	sort.Slice(doc.Entries, func(i, j int) bool {
		return doc.Entries[i].Path < doc.Entries[j].Path
	})
	return doc, nil
}

// checksum returns the hex encoded xxhash64 of the file path.
func checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New64()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}
