// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"context"
	"io"
	"io/fs"
	"time"

	"github.com/hashicorp/go-unarchive"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// fileExtensionZip is the file extension for zip files.
const fileExtensionZip = "zip"

// maxLinknameLength limits the symlink target read from a zip entry.
const maxLinknameLength = 4096

// magicBytesZip contains the magic bytes for a zip archive.
// reference: https://golang.org/pkg/archive/zip/
var magicBytesZip = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
}

// isZip checks if data is a zip archive.
func isZip(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesZip)
}

// Zip extracts zip archives.
type Zip struct{}

// NewZip creates a zip driver.
func NewZip() *Zip {
	return &Zip{}
}

// ExtractAll extracts the whole zip archive.
func (z *Zip) ExtractAll(ctx context.Context, x *unarchive.Extraction) error {
	return z.extract(ctx, x, archiveDestination(x), matchAll)
}

// ExtractEntry extracts the entry path, or all entries below it, into outputDirectory.
func (z *Zip) ExtractEntry(ctx context.Context, x *unarchive.Extraction, path string, outputDirectory string) error {
	return z.extract(ctx, x, outputDirectory, matchEntry(path))
}

// ValidateEntry implements [unarchive.EntryValidator].
func (z *Zip) ValidateEntry(path string, outputDirectory string) error {
	return validateEntry(path, outputDirectory)
}

// extract opens the archive and walks its entries.
func (z *Zip) extract(ctx context.Context, x *unarchive.Extraction, dst string, match matcher) error {
	x.Config().Logger().Info("extracting zip")

	f, size, err := openSource(x)
	if err != nil {
		return err
	}
	defer f.Close()

	reader, err := zip.NewReader(f, size)
	if err != nil {
		return errors.Wrap(err, "cannot create zip reader")
	}
	return walk(ctx, x, &zipWalker{zr: reader}, dst, match)
}

// zipWalker is a walker for zip files
type zipWalker struct {
	zr *zip.Reader
	fp int
}

// Type returns the file extension for zip files
func (z *zipWalker) Type() string {
	return fileExtensionZip
}

// Next returns the next entry in the zip archive
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.zr.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &zipEntry{z.zr.File[z.fp]}, nil
}

// zipEntry is an entry in a zip archive
type zipEntry struct {
	zf *zip.File
}

// Name returns the name of the entry
func (z *zipEntry) Name() string {
	return z.zf.FileHeader.Name
}

// Size returns the uncompressed size of the entry
func (z *zipEntry) Size() int64 {
	return int64(z.zf.FileHeader.UncompressedSize64)
}

// Mode returns the mode of the entry
func (z *zipEntry) Mode() fs.FileMode {
	return z.zf.FileHeader.Mode()
}

// ModTime returns the modification time of the entry
func (z *zipEntry) ModTime() time.Time {
	return z.zf.FileHeader.Modified
}

// Linkname returns the target of a symlink, which zip stores as content
func (z *zipEntry) Linkname() (string, error) {
	rc, err := z.zf.Open()
	if err != nil {
		return "", errors.Wrap(err, "cannot open symlink entry")
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxLinknameLength))
	if err != nil {
		return "", errors.Wrap(err, "cannot read symlink entry")
	}
	return string(data), nil
}

// IsRegular returns true if the entry is a regular file
func (z *zipEntry) IsRegular() bool {
	return z.zf.FileHeader.Mode().Type() == 0
}

// IsDir returns true if the entry is a directory
func (z *zipEntry) IsDir() bool {
	return z.zf.FileHeader.Mode().IsDir()
}

// IsSymlink returns true if the entry is a symlink
func (z *zipEntry) IsSymlink() bool {
	return z.zf.FileHeader.Mode().Type() == fs.ModeSymlink
}

// Open returns a reader for the entry
func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.zf.Open()
}
