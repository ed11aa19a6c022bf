// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// fixtureTime is the modification time of every entry in a generated archive
var fixtureTime = time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

// fixtureEntry describes one entry of a generated archive
type fixtureEntry struct {
	name     string
	content  string
	linkname string
	mode     fs.FileMode
}

// file returns a regular file entry
func file(name, content string) fixtureEntry {
	return fixtureEntry{name: name, content: content, mode: 0644}
}

// dir returns a directory entry
func dir(name string) fixtureEntry {
	return fixtureEntry{name: name, mode: fs.ModeDir | 0755}
}

// symlink returns a symlink entry
func symlink(name, target string) fixtureEntry {
	return fixtureEntry{name: name, linkname: target, mode: fs.ModeSymlink | 0777}
}

// fifo returns a named pipe entry
func fifo(name string) fixtureEntry {
	return fixtureEntry{name: name, mode: fs.ModeNamedPipe | 0644}
}

var (
	normalEntries = []fixtureEntry{
		dir("sub"),
		file("sub/a.txt", "alpha"),
		file("sub/b.bin", "bravo"),
		file("c.txt", "charlie"),
	}
	traversalEntries = []fixtureEntry{
		file("../evil.txt", "evil"),
	}
	symlinkEntries = []fixtureEntry{
		file("target.txt", "target"),
		symlink("link", "target.txt"),
	}
	symlinkTraversalEntries = []fixtureEntry{
		symlink("link", "../../etc/passwd"),
	}
	symlinkAbsoluteEntries = []fixtureEntry{
		symlink("link", "/etc/passwd"),
	}
	fifoEntries = []fixtureEntry{
		file("c.txt", "charlie"),
		fifo("pipe"),
	}
)

// writeTar writes entries as tar stream to w
func writeTar(t *testing.T, w io.Writer, entries []fixtureEntry) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:    e.name,
			Mode:    int64(e.mode.Perm()),
			ModTime: fixtureTime,
		}
		switch {
		case e.mode.IsDir():
			hdr.Typeflag = tar.TypeDir
		case e.mode&fs.ModeSymlink != 0:
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.linkname
		case e.mode&fs.ModeNamedPipe != 0:
			hdr.Typeflag = tar.TypeFifo
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.content))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
}

// createTar creates a tar archive in a temporary directory
func createTar(t *testing.T, entries []fixtureEntry) string {
	t.Helper()
	var buf bytes.Buffer
	writeTar(t, &buf, entries)
	return writeFixture(t, "archive.tar", buf.Bytes())
}

// createTarGz creates a gzip compressed tar archive in a temporary directory
func createTarGz(t *testing.T, entries []fixtureEntry) string {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	writeTar(t, gw, entries)
	require.NoError(t, gw.Close())
	return writeFixture(t, "archive.tar.gz", buf.Bytes())
}

// createTarZst creates a zstd compressed tar archive in a temporary directory
func createTarZst(t *testing.T, entries []fixtureEntry) string {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	writeTar(t, zw, entries)
	require.NoError(t, zw.Close())
	return writeFixture(t, "archive.tar.zst", buf.Bytes())
}

// createZip creates a zip archive in a temporary directory
func createZip(t *testing.T, entries []fixtureEntry) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: fixtureTime,
		}
		if e.mode.IsDir() && e.name[len(e.name)-1] != '/' {
			hdr.Name += "/"
		}
		hdr.SetMode(e.mode)
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		switch {
		case e.mode&fs.ModeSymlink != 0:
			_, err = w.Write([]byte(e.linkname))
		case e.mode.IsRegular():
			_, err = w.Write([]byte(e.content))
		}
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return writeFixture(t, "archive.zip", buf.Bytes())
}

// rarFixture is a rar5 archive with the entries dir/foo, file, link (symlink to
// dir/foo) and dir
const rarFixture = "UmFyIRoHAQAzkrXlCgEFBgAFAQGAgAADk1YoJQIDC50ABJ0ApIMClAgA9IAAAQdkaXIvZm9vCgMTQPjXZsjBSQhNaSAgNCBTZXAgMjAyNCAwODowMzo0NCBDRVNUCpQdu+oiAgMLnQAEnQCkgwI+z7uqgAABBGZpbGUKAxPEDddmxHsQDkRpICAzIFNlcCAyMDI0IDE1OjIzOjE2IENFU1QKe1xvKCwCAxcABAftwwIAAAAAgAABBGxpbmsKAxNM+NdmSCZHGAsFAQAHZGlyL2Zvb0A2hh0bAgMLAAEA7YMBgAABA2RpcgoDE0D412Z533kHHXdWUQMFBAA="

// sevenZipFixture is a 7zip archive with the entries test and test/data
const sevenZipFixture = "377abcaf271c00049af18e7973000000000000002000000000000000a7e80f9801000b48656c6c6f20576f726c6421000000813307ae0fcef2b20c07c8437f41b1fafddb88b6d7636b8bd58a0e24a2f717a5f156e37f41fd00833298421d5d088c0cf987b30c0473663599e4d2f21cb69620038f10458109662135c3024189f42799abe3227b174a853e824f808b2efaab000017061001096300070b01000123030101055d001000000c760a015bcfa0a70000"

// createRar stores the rar fixture in a temporary directory
func createRar(t *testing.T) string {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(rarFixture)
	require.NoError(t, err)
	return writeFixture(t, "archive.rar", data)
}

// createSevenZip stores the 7zip fixture in a temporary directory
func createSevenZip(t *testing.T) string {
	t.Helper()
	data, err := hex.DecodeString(sevenZipFixture)
	require.NoError(t, err)
	return writeFixture(t, "archive.7z", data)
}

// createGzip creates a gzip compressed file in a temporary directory
func createGzip(t *testing.T, name string, content string) string {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return writeFixture(t, name, buf.Bytes())
}

// writeFixture stores data as name in a temporary directory
func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// readFile returns the content of path, or an empty string if it does not exist
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// exists reports whether path exists, without following symlinks
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
