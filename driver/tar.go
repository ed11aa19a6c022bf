// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"archive/tar"
	"context"
	"io"
	"io/fs"
	"time"

	"github.com/hashicorp/go-unarchive"
	"github.com/pkg/errors"
)

// fileExtensionTar is the file extension for tar files
const fileExtensionTar = "tar"

// offsetTar is the offset where the magic bytes are located in the file
const offsetTar = 257

// magicBytesTar are the magic bytes for tar files
var magicBytesTar = [][]byte{
	[]byte("ustar\x00tar\x00"),
	[]byte("ustar\x00"),
	[]byte("ustar  \x00"),
}

// isTar checks if the header matches the magic bytes for tar files
func isTar(data []byte) bool {
	return matchesMagicBytes(data, offsetTar, magicBytesTar)
}

// Tar extracts tar archives. Compressed tar archives (gzip, bzip2, xz, zstd,
// lz4, snappy, zlib and, identified by the file name, brotli) are decompressed
// on the fly.
type Tar struct{}

// NewTar creates a tar driver.
func NewTar() *Tar {
	return &Tar{}
}

// ExtractAll extracts the whole tar archive.
func (t *Tar) ExtractAll(ctx context.Context, x *unarchive.Extraction) error {
	return t.extract(ctx, x, archiveDestination(x), matchAll)
}

// ExtractEntry extracts the entry path, or all entries below it, into outputDirectory.
func (t *Tar) ExtractEntry(ctx context.Context, x *unarchive.Extraction, path string, outputDirectory string) error {
	return t.extract(ctx, x, outputDirectory, matchEntry(path))
}

// ValidateEntry implements [unarchive.EntryValidator].
func (t *Tar) ValidateEntry(path string, outputDirectory string) error {
	return validateEntry(path, outputDirectory)
}

// extract opens and, if needed, decompresses the archive and walks its entries.
func (t *Tar) extract(ctx context.Context, x *unarchive.Extraction, dst string, match matcher) error {
	f, _, err := openSource(x)
	if err != nil {
		return err
	}
	defer f.Close()

	hr, err := newHeaderReader(f, maxHeaderLength)
	if err != nil {
		return err
	}

	var src io.Reader = hr
	typ := fileExtensionTar
	header := hr.PeekHeader()
	if d := findDecompressor(header, x.SourceFile); d != nil && !isTar(header) {
		dr, err := d.open(hr)
		if err != nil {
			return errors.Wrapf(err, "cannot start %s decompression", d.ext)
		}
		if c, ok := dr.(io.Closer); ok {
			defer c.Close()
		}
		src = dr
		typ = fileExtensionTar + "." + d.ext
	}

	x.Config().Logger().Info("extracting tar", "type", typ)
	return walk(ctx, x, &tarWalker{tr: tar.NewReader(src), typ: typ}, dst, match)
}

// tarWalker is a walker for tar files
type tarWalker struct {
	tr  *tar.Reader
	typ string
}

// Type returns the file extension for tar files
func (t *tarWalker) Type() string {
	return t.typ
}

// Next returns the next entry in the tar archive. Global pax headers carry no
// file and are skipped.
func (t *tarWalker) Next() (archiveEntry, error) {
	for {
		hdr, err := t.tr.Next()
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		return &tarEntry{hdr, t.tr}, nil
	}
}

// tarEntry is an entry in a tar archive
type tarEntry struct {
	hdr *tar.Header
	tr  *tar.Reader
}

// Name returns the name of the entry
func (t *tarEntry) Name() string {
	return t.hdr.Name
}

// Size returns the size of the entry
func (t *tarEntry) Size() int64 {
	return t.hdr.Size
}

// Mode returns the mode of the entry
func (t *tarEntry) Mode() fs.FileMode {
	return t.hdr.FileInfo().Mode()
}

// ModTime returns the modification time of the entry
func (t *tarEntry) ModTime() time.Time {
	return t.hdr.ModTime
}

// Linkname returns the linkname of the entry
func (t *tarEntry) Linkname() (string, error) {
	return t.hdr.Linkname, nil
}

// IsRegular returns true if the entry is a regular file
func (t *tarEntry) IsRegular() bool {
	return t.hdr.Typeflag == tar.TypeReg
}

// IsDir returns true if the entry is a directory
func (t *tarEntry) IsDir() bool {
	return t.hdr.Typeflag == tar.TypeDir
}

// IsSymlink returns true if the entry is a symlink
func (t *tarEntry) IsSymlink() bool {
	return t.hdr.Typeflag == tar.TypeSymlink
}

// Open returns a reader for the entry
func (t *tarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(t.tr), nil
}
