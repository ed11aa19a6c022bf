// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"context"
	"io"
	"io/fs"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/hashicorp/go-unarchive"
	"github.com/pkg/errors"
)

// fileExtension7zip is the file extension for 7zip files
const fileExtension7zip = "7z"

// magicBytes7zip are the magic bytes for 7zip files
var magicBytes7zip = [][]byte{
	{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C},
}

// is7zip checks if the header matches the magic bytes for 7zip files
func is7zip(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytes7zip)
}

// SevenZip extracts 7zip archives.
type SevenZip struct {
	// Password decrypts encrypted archives
	Password string
}

// NewSevenZip creates a 7zip driver.
func NewSevenZip() *SevenZip {
	return &SevenZip{}
}

// ExtractAll extracts the whole 7zip archive.
func (s *SevenZip) ExtractAll(ctx context.Context, x *unarchive.Extraction) error {
	return s.extract(ctx, x, archiveDestination(x), matchAll)
}

// ExtractEntry extracts the entry path, or all entries below it, into outputDirectory.
func (s *SevenZip) ExtractEntry(ctx context.Context, x *unarchive.Extraction, path string, outputDirectory string) error {
	return s.extract(ctx, x, outputDirectory, matchEntry(path))
}

// ValidateEntry implements [unarchive.EntryValidator].
func (s *SevenZip) ValidateEntry(path string, outputDirectory string) error {
	return validateEntry(path, outputDirectory)
}

// extract opens the archive and walks its entries.
func (s *SevenZip) extract(ctx context.Context, x *unarchive.Extraction, dst string, match matcher) error {
	x.Config().Logger().Info("extracting 7zip")

	f, size, err := openSource(x)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader *sevenzip.Reader
	if len(s.Password) > 0 {
		reader, err = sevenzip.NewReaderWithPassword(f, size, s.Password)
	} else {
		reader, err = sevenzip.NewReader(f, size)
	}
	if err != nil {
		return errors.Wrap(err, "cannot create 7zip reader")
	}
	return walk(ctx, x, &sevenZipWalker{r: reader}, dst, match)
}

// sevenZipWalker is a walker for 7zip files
type sevenZipWalker struct {
	r  *sevenzip.Reader
	fp int
}

// Type returns the file extension for 7zip files
func (z *sevenZipWalker) Type() string {
	return fileExtension7zip
}

// Next returns the next entry in the 7zip file
func (z *sevenZipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.r.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &sevenZipEntry{z.r.File[z.fp]}, nil
}

// sevenZipEntry is an entry in a 7zip file
type sevenZipEntry struct {
	f *sevenzip.File
}

func (z *sevenZipEntry) Name() string {
	return z.f.Name
}

func (z *sevenZipEntry) Size() int64 {
	return z.f.FileInfo().Size()
}

func (z *sevenZipEntry) Mode() fs.FileMode {
	return z.f.FileInfo().Mode()
}

func (z *sevenZipEntry) ModTime() time.Time {
	return z.f.Modified
}

// Linkname returns an empty string, 7zip archives carry no symlinks
func (z *sevenZipEntry) Linkname() (string, error) {
	return "", nil
}

func (z *sevenZipEntry) IsRegular() bool {
	return z.f.FileInfo().Mode().IsRegular()
}

func (z *sevenZipEntry) IsDir() bool {
	return z.f.FileInfo().Mode().IsDir()
}

func (z *sevenZipEntry) IsSymlink() bool {
	return false
}

func (z *sevenZipEntry) Open() (io.ReadCloser, error) {
	return z.f.Open()
}
