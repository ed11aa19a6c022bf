// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"context"
	"io"
	"io/fs"
	"time"

	"github.com/hashicorp/go-unarchive"
	"github.com/nwaples/rardecode"
	"github.com/pkg/errors"
)

// fileExtensionRar is the file extension for rar files.
const fileExtensionRar = "rar"

// magicBytesRar are the magic bytes for rar files.
var magicBytesRar = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},       // rar 1.5
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, // rar 5.0
}

// isRar checks if the header matches the magic bytes for rar files.
func isRar(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesRar)
}

// Rar extracts rar archives. Symlinks stored in rar archives are not supported.
type Rar struct {
	// Password decrypts encrypted archives
	Password string
}

// NewRar creates a rar driver.
func NewRar() *Rar {
	return &Rar{}
}

// ExtractAll extracts the whole rar archive.
func (r *Rar) ExtractAll(ctx context.Context, x *unarchive.Extraction) error {
	return r.extract(ctx, x, archiveDestination(x), matchAll)
}

// ExtractEntry extracts the entry path, or all entries below it, into outputDirectory.
func (r *Rar) ExtractEntry(ctx context.Context, x *unarchive.Extraction, path string, outputDirectory string) error {
	return r.extract(ctx, x, outputDirectory, matchEntry(path))
}

// ValidateEntry implements [unarchive.EntryValidator].
func (r *Rar) ValidateEntry(path string, outputDirectory string) error {
	return validateEntry(path, outputDirectory)
}

// extract opens the archive and walks its entries.
func (r *Rar) extract(ctx context.Context, x *unarchive.Extraction, dst string, match matcher) error {
	x.Config().Logger().Info("extracting rar")

	f, _, err := openSource(x)
	if err != nil {
		return err
	}
	defer f.Close()

	rr, err := rardecode.NewReader(f, r.Password)
	if err != nil {
		return errors.Wrap(err, "cannot create rar decoder")
	}
	return walk(ctx, x, &rarWalker{rr}, dst, match)
}

// rarWalker is an archiveWalker for rar files.
type rarWalker struct {
	r *rardecode.Reader
}

// Type returns the file extension for rar files.
func (rw *rarWalker) Type() string {
	return fileExtensionRar
}

// Next returns the next entry in the rar file.
func (rw *rarWalker) Next() (archiveEntry, error) {
	fh, err := rw.r.Next()
	if err != nil {
		return nil, err
	}
	return &rarEntry{fh, rw.r}, nil
}

// rarEntry is an archiveEntry for rar files.
type rarEntry struct {
	f *rardecode.FileHeader
	r io.Reader
}

// Name returns the name of the file.
func (r *rarEntry) Name() string {
	return r.f.Name
}

// Size returns the size of the file.
func (r *rarEntry) Size() int64 {
	return r.f.UnPackedSize
}

// Mode returns the mode of the file.
func (r *rarEntry) Mode() fs.FileMode {
	return r.f.Mode()
}

// ModTime returns the modification time of the file.
func (r *rarEntry) ModTime() time.Time {
	return r.f.ModificationTime
}

// Linkname symlinks are not supported.
func (r *rarEntry) Linkname() (string, error) {
	return "", nil
}

// IsRegular returns true if the file is a regular file.
func (r *rarEntry) IsRegular() bool {
	return !r.f.IsDir && r.f.Mode().IsRegular()
}

// IsDir returns true if the file is a directory.
func (r *rarEntry) IsDir() bool {
	return r.f.IsDir
}

// IsSymlink returns false, symlinks are reported as unsupported entries.
func (r *rarEntry) IsSymlink() bool {
	return false
}

// Open returns a reader for the file.
func (r *rarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(r.r), nil
}
