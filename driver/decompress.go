// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/golang/snappy"
	"github.com/hashicorp/go-unarchive"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// decompressor describes a single stream compression format.
type decompressor struct {
	ext        string
	suffixes   []string
	magicBytes [][]byte
	open       func(io.Reader) (io.Reader, error)
}

// decompressors are checked in order, formats without magic bytes are only
// identified by the file name.
var decompressors = []decompressor{
	{
		ext:        "gz",
		suffixes:   []string{".gz", ".tgz"},
		magicBytes: [][]byte{{0x1f, 0x8b}},
		open: func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		},
	},
	{
		ext:        "bz2",
		suffixes:   []string{".bz2", ".tbz2", ".tbz"},
		magicBytes: [][]byte{{0x42, 0x5A, 0x68}},
		open: func(r io.Reader) (io.Reader, error) {
			return bzip2.NewReader(r, nil)
		},
	},
	{
		ext:        "xz",
		suffixes:   []string{".xz", ".txz"},
		magicBytes: [][]byte{{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}},
		open: func(r io.Reader) (io.Reader, error) {
			return xz.NewReader(r)
		},
	},
	{
		ext:        "zst",
		suffixes:   []string{".zst", ".zstd", ".tzst"},
		magicBytes: [][]byte{{0x28, 0xB5, 0x2F, 0xFD}},
		open: func(r io.Reader) (io.Reader, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
	},
	{
		ext:        "lz4",
		suffixes:   []string{".lz4"},
		magicBytes: [][]byte{{0x04, 0x22, 0x4D, 0x18}},
		open: func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		},
	},
	{
		ext:        "sz",
		suffixes:   []string{".sz", ".snappy"},
		magicBytes: [][]byte{{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}},
		open: func(r io.Reader) (io.Reader, error) {
			return snappy.NewReader(r), nil
		},
	},
	{
		ext:      "zz",
		suffixes: []string{".zz", ".zlib"},
		magicBytes: [][]byte{
			{0x78, 0x01},
			{0x78, 0x5e},
			{0x78, 0x9c},
			{0x78, 0xda},
		},
		open: func(r io.Reader) (io.Reader, error) {
			return zlib.NewReader(r)
		},
	},
	{
		ext:      "br",
		suffixes: []string{".br", ".tbr"},
		open: func(r io.Reader) (io.Reader, error) {
			return brotli.NewReader(r), nil
		},
	},
}

// maxHeaderLength is the number of bytes needed to identify every known format
var maxHeaderLength int

// init calculates the maximum header length
func init() {
	maxHeaderLength = offsetTar + len(magicBytesTar[0])
	for _, d := range decompressors {
		for _, mb := range d.magicBytes {
			if len(mb) > maxHeaderLength {
				maxHeaderLength = len(mb)
			}
		}
	}
}

// findDecompressor identifies a compression format by the magic bytes in header
// and, for formats without magic bytes, by the suffix of name.
func findDecompressor(header []byte, name string) *decompressor {
	for i := range decompressors {
		if matchesMagicBytes(header, 0, decompressors[i].magicBytes) {
			return &decompressors[i]
		}
	}
	lower := strings.ToLower(name)
	for i := range decompressors {
		if len(decompressors[i].magicBytes) > 0 {
			continue
		}
		for _, s := range decompressors[i].suffixes {
			if strings.HasSuffix(lower, s) {
				return &decompressors[i]
			}
		}
	}
	return nil
}

// Decompressor writes the decompressed content of a single compressed stream
// (gzip, bzip2, xz, zstd, lz4, snappy, zlib or brotli) to the destination file.
// If the destination is a directory, the file is named after the source without
// its compression suffix.
type Decompressor struct{}

// NewDecompressor creates a decompression driver.
func NewDecompressor() *Decompressor {
	return &Decompressor{}
}

// ExtractAll decompresses the source into x.DestFile or into x.DestDirectory.
func (d *Decompressor) ExtractAll(ctx context.Context, x *unarchive.Extraction) error {
	if len(x.DestFile) > 0 {
		return d.extract(ctx, x, x.DestFile)
	}
	return d.extract(ctx, x, filepath.Join(x.DestDirectory, d.outputName(x.SourceFile)))
}

// ExtractEntry decompresses the source into outputDirectory. The only entry of a
// compressed stream is named after the source without its compression suffix.
func (d *Decompressor) ExtractEntry(ctx context.Context, x *unarchive.Extraction, path string, outputDirectory string) error {
	name := d.outputName(x.SourceFile)
	if cleanName(path) != name {
		return entryError(x, path, "cannot extract entry", unarchive.ErrEntryNotFound)
	}
	if err := ensureDestination(x.Config(), outputDirectory); err != nil {
		return err
	}
	return d.extract(ctx, x, filepath.Join(outputDirectory, name))
}

// ValidateEntry implements [unarchive.EntryValidator].
func (d *Decompressor) ValidateEntry(path string, outputDirectory string) error {
	return validateEntry(path, outputDirectory)
}

// extract decompresses the source into the file dst.
func (d *Decompressor) extract(ctx context.Context, x *unarchive.Extraction, dst string) error {
	cfg := x.Config()

	f, _, err := openSource(x)
	if err != nil {
		return err
	}
	defer f.Close()

	hr, err := newHeaderReader(f, maxHeaderLength)
	if err != nil {
		return err
	}
	dec := findDecompressor(hr.PeekHeader(), x.SourceFile)
	if dec == nil {
		return fmt.Errorf("unknown compression format")
	}
	x.Telemetry.ExtractedType = dec.ext
	cfg.Logger().Info("decompress", "fileExt", dec.ext, "destination", dst)

	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return err
	}

	var modTime time.Time
	if stat, err := f.Stat(); err == nil {
		modTime = stat.ModTime()
	}
	res := &streamResource{
		name:    filepath.Base(dst),
		mode:    cfg.CustomDecompressFileMode(),
		modTime: modTime,
	}

	selected, err := x.IsSelected(res.name, res)
	if err != nil || !selected {
		return err
	}

	stream, err := dec.open(hr)
	if err != nil {
		return errors.Wrapf(err, "cannot start %s decompression", dec.ext)
	}
	if c, ok := stream.(io.Closer); ok {
		defer c.Close()
	}

	src, include, err := filterContent(x, stream, res.name)
	if err != nil || !include {
		return err
	}

	if cfg.CreateDestination() {
		if err := os.MkdirAll(filepath.Dir(dst), cfg.CustomCreateDirMode().Perm()); err != nil {
			return errors.Wrap(err, "failed to create destination directory")
		}
	}

	n, written, err := writeFile(x, dst, src, res.mode, modTime, cfg.MaxExtractionSize())
	x.Telemetry.ExtractionSize = n
	if err != nil {
		return entryError(x, res.name, "cannot create file", err)
	}
	if written {
		x.Telemetry.ExtractedFiles++
	}
	return nil
}

// outputName derives the name of the decompressed file from the source name.
func (d *Decompressor) outputName(src string) string {
	name := filepath.Base(src)
	lower := strings.ToLower(name)
	for _, dec := range decompressors {
		for _, s := range dec.suffixes {
			if !strings.HasSuffix(lower, s) {
				continue
			}
			trimmed := name[:len(name)-len(s)]
			// .tgz, .tbz2, ... are compressed tar archives
			if strings.HasPrefix(s, ".t") {
				trimmed += ".tar"
			}
			if len(trimmed) > 0 {
				return trimmed
			}
		}
	}
	return name + ".decompressed"
}

// streamResource describes the content of a compressed stream to the selectors.
type streamResource struct {
	name    string
	mode    os.FileMode
	modTime time.Time
}

func (s *streamResource) Name() string       { return s.name }
func (s *streamResource) Size() int64        { return -1 }
func (s *streamResource) Mode() os.FileMode  { return s.mode }
func (s *streamResource) ModTime() time.Time { return s.modTime }
func (s *streamResource) IsDir() bool        { return false }
func (s *streamResource) IsRegular() bool    { return true }
func (s *streamResource) IsSymlink() bool    { return false }
