// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-unarchive"
	"github.com/pkg/errors"
)

// ErrUnknownFormat is returned if the format of an archive cannot be identified.
var ErrUnknownFormat = errors.New("unknown archive format")

// Detect identifies the format of the archive src by its magic bytes and, for
// brotli, by its file name and returns a matching driver. Compressed streams
// are inspected after decompression to tell a compressed tar archive from a
// single compressed file.
func Detect(src string, password string) (unarchive.Driver, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open archive")
	}
	defer f.Close()

	hr, err := newHeaderReader(f, maxHeaderLength)
	if err != nil {
		return nil, err
	}
	header := hr.PeekHeader()

	switch {
	case isZip(header):
		return NewZip(), nil
	case isRar(header):
		return &Rar{Password: password}, nil
	case is7zip(header):
		return &SevenZip{Password: password}, nil
	case isTar(header):
		return NewTar(), nil
	}

	d := findDecompressor(header, src)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, src)
	}

	stream, err := d.open(hr)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot start %s decompression", d.ext)
	}
	if c, ok := stream.(io.Closer); ok {
		defer c.Close()
	}
	inner, err := newHeaderReader(stream, maxHeaderLength)
	if err != nil {
		return nil, err
	}
	if isTar(inner.PeekHeader()) {
		return NewTar(), nil
	}
	return NewDecompressor(), nil
}

// Auto picks the driver for each extraction with [Detect].
type Auto struct {
	// Password is handed to the rar and 7zip drivers
	Password string
}

// NewAuto creates a driver that detects the archive format.
func NewAuto() *Auto {
	return &Auto{}
}

// ExtractAll detects the format of the source and extracts it.
func (a *Auto) ExtractAll(ctx context.Context, x *unarchive.Extraction) error {
	d, err := Detect(x.SourceFile, a.Password)
	if err != nil {
		return err
	}
	return d.ExtractAll(ctx, x)
}

// ExtractEntry detects the format of the source and extracts the entry path.
func (a *Auto) ExtractEntry(ctx context.Context, x *unarchive.Extraction, path string, outputDirectory string) error {
	d, err := Detect(x.SourceFile, a.Password)
	if err != nil {
		return err
	}
	return d.ExtractEntry(ctx, x, path, outputDirectory)
}

// ValidateEntry implements [unarchive.EntryValidator].
func (a *Auto) ValidateEntry(path string, outputDirectory string) error {
	return validateEntry(path, outputDirectory)
}
