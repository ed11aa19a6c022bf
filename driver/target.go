// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-unarchive"
	"github.com/pkg/errors"
)

// defaultFileMode is used to create files before their permissions are applied (respecting umask)
const defaultFileMode = 0644

// ensureDestination checks that dst is a directory. A missing dst is created if
// the configuration allows it.
func ensureDestination(cfg *unarchive.Config, dst string) error {
	stat, err := os.Stat(dst)
	if err == nil {
		if !stat.IsDir() {
			return fmt.Errorf("destination %s is not a directory", dst)
		}
		return nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "invalid destination")
	}

	if !cfg.CreateDestination() {
		return fmt.Errorf("destination %s does not exist", dst)
	}

	if err := os.MkdirAll(dst, cfg.CustomCreateDirMode().Perm()); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}
	cfg.Logger().Info("created destination directory", "path", dst)
	return nil
}

// toOSPath converts an entry name with '/' separators to a platform specific path.
func toOSPath(name string) string {
	parts := strings.Split(name, "/")
	return filepath.Join(parts...)
}

// createDir creates the directory name below dst and returns its path.
//
// If the path contains path traversal or a symlink, the function returns an error.
func createDir(cfg *unarchive.Config, dst string, name string, mode fs.FileMode) (string, error) {
	name = toOSPath(name)

	// no action needed
	if name == "." || len(name) == 0 {
		return dst, nil
	}

	// perform security check to ensure that the path is safe to write to
	if err := securityCheck(dst, name); err != nil {
		return "", errors.Wrap(err, "security check path failed")
	}

	path := filepath.Join(dst, name)
	if err := os.MkdirAll(path, mode.Perm()|0700); err != nil {
		return "", errors.Wrap(err, "failed to create directory")
	}
	return path, nil
}

// createFile creates the file name below dst with src as content. Missing parent
// directories are created with [unarchive.Config.CustomCreateDirMode].
//
// If the path contains path traversal or a symlink, the function returns an error.
//
// The function returns the number of written bytes and whether the file was written
// at all. An existing file is kept if overwrite is disabled and the file is not older
// than modTime.
func createFile(x *unarchive.Extraction, dst string, name string, src io.Reader, mode fs.FileMode, modTime time.Time, maxSize int64) (int64, bool, error) {
	if len(name) == 0 {
		return 0, false, fmt.Errorf("cannot create file without name")
	}
	cfg := x.Config()
	name = toOSPath(name)

	// ensure that the directory exists and is safe to write to
	if _, err := createDir(cfg, dst, filepath.Dir(name), cfg.CustomCreateDirMode()); err != nil {
		return 0, false, errors.Wrap(err, "cannot create directory")
	}

	// ensure that if the file exist that it is not a symlink
	if err := securityCheck(dst, name); err != nil {
		return 0, false, errors.Wrap(err, "security check path failed")
	}

	return writeFile(x, filepath.Join(dst, name), src, mode, modTime, maxSize)
}

// writeFile writes src to path and applies mode and modTime. If maxSize < 0, the
// file size is not limited.
func writeFile(x *unarchive.Extraction, path string, src io.Reader, mode fs.FileMode, modTime time.Time, maxSize int64) (int64, bool, error) {
	cfg := x.Config()

	// check for file existence and if it should be overwritten
	if stat, err := os.Lstat(path); err == nil {
		if stat.IsDir() {
			return 0, false, fmt.Errorf("%s is a directory", path)
		}
		if !cfg.Overwrite() && !stat.ModTime().Before(modTime) {
			cfg.Logger().Debug("skipping file (up to date)", "path", path)
			x.Telemetry.SkippedUpToDate++
			return 0, false, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return 0, false, errors.Wrap(err, "invalid path")
	}

	dstFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaultFileMode)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to create file")
	}

	n, err := io.Copy(limitWriter(dstFile, maxSize), src)
	if cerr := dstFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if errors.Is(err, io.ErrShortWrite) {
			return n, true, unarchive.ErrMaxExtractionSizeExceeded
		}
		return n, true, errors.Wrap(err, "failed to write file")
	}

	if !modTime.IsZero() {
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			return n, true, errors.Wrap(err, "failed to set file times")
		}
	}

	if mode.Perm() != 0 {
		if err := x.ApplyPermissions(path, mode); err != nil {
			return n, true, errors.Wrap(err, "cannot apply permissions")
		}
	}

	return n, true, nil
}

// createSymlink creates the symlink name below dst pointing to linkTarget.
//
// Absolute link targets and link targets outside of dst are rejected. An existing
// file is replaced if overwrite is enabled and kept otherwise. The function reports
// whether the symlink was created.
func createSymlink(cfg *unarchive.Config, dst string, name string, linkTarget string) (bool, error) {
	if len(name) == 0 {
		return false, fmt.Errorf("empty name")
	}

	// check if link target is absolute path
	if filepath.IsAbs(linkTarget) || strings.HasPrefix(linkTarget, "/") {
		return false, fmt.Errorf("symlink with absolute path as target: %s", linkTarget)
	}

	name = toOSPath(name)
	linkDirectory := filepath.Dir(name)

	// create target dir && check for traversal in file name
	if _, err := createDir(cfg, dst, linkDirectory, cfg.CustomCreateDirMode()); err != nil {
		return false, errors.Wrapf(err, "cannot create directory (%s) for symlink", linkDirectory)
	}

	// check link target for traversal
	if err := securityCheck(dst, filepath.Join(linkDirectory, linkTarget)); err != nil {
		return false, errors.Wrap(err, "symlink target security check path failed")
	}

	path := filepath.Join(dst, name)
	if _, err := os.Lstat(path); err == nil {
		if !cfg.Overwrite() {
			cfg.Logger().Debug("skipping symlink (exists)", "path", path)
			return false, nil
		}
		if err := os.Remove(path); err != nil {
			return false, errors.Wrap(err, "failed to overwrite file")
		}
	}

	if err := os.Symlink(linkTarget, path); err != nil {
		return false, errors.Wrap(err, "failed to create symlink")
	}
	return true, nil
}

// securityCheck checks if path, relative to dst, contains path traversal and
// if any existing element of the path is a symlink.
func securityCheck(dst string, path string) error {
	// without a base, the path must not be absolute
	if len(dst) == 0 && filepath.IsAbs(path) {
		return fmt.Errorf("absolute path detected")
	}

	// get relative path from base to new directory target
	rel, err := filepath.Rel(dst, filepath.Join(dst, path))
	if err != nil {
		return errors.Wrap(err, "failed to get relative path")
	}
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("path traversal detected")
	}

	// check each element of the path
	elements := strings.Split(rel, string(os.PathSeparator))
	for i := range elements {
		checkPath := filepath.Join(dst, filepath.Join(elements[0:i+1]...))
		isLink, err := isSymlink(checkPath)
		if err != nil {
			return err
		}
		if isLink {
			return fmt.Errorf("symlink in path")
		}
	}

	return nil
}

// isSymlink checks if path is a symlink. Missing paths are no symlinks.
func isSymlink(path string) (bool, error) {
	stat, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to check path")
	}
	return stat.Mode()&os.ModeSymlink == os.ModeSymlink, nil
}
