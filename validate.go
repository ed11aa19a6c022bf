// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"errors"
	"io/fs"
	"os"
)

// Resolved is the normalized result of a successful validation. Exactly one of
// DestDirectory and DestFile is set.
type Resolved struct {
	// SourceFile is the path of the archive
	SourceFile string

	// DestDirectory is the directory the archive is extracted into
	DestDirectory string

	// DestFile is the file the archive content is written to
	DestFile string
}

// IsDirectory returns true if the destination resolved to a directory.
func (r Resolved) IsDirectory() bool {
	return len(r.DestDirectory) > 0
}

// Destination returns the resolved destination path.
func (r Resolved) Destination() string {
	if r.IsDirectory() {
		return r.DestDirectory
	}
	return r.DestFile
}

// Validate checks the preconditions of a whole archive extraction and returns
// the resolved destination. The orchestrator is not modified, so validating the
// same unchanged configuration twice yields the same result.
//
// A [*ConfigurationError] is returned if no source is configured, the source is a
// directory or does not exist, no destination is configured or both a destination
// directory and a destination file are configured.
func (u *Unarchiver) Validate() (*Resolved, error) {
	if u.driver == nil {
		return nil, &ConfigurationError{Field: "driver", Err: ErrNoDriver}
	}

	if err := validateSource(u.sourceFile); err != nil {
		return nil, err
	}

	if len(u.destDirectory) == 0 && len(u.destFile) == 0 {
		return nil, &ConfigurationError{Field: "destination", Err: ErrDestinationNotDefined}
	}

	if len(u.destDirectory) > 0 && len(u.destFile) > 0 {
		return nil, &ConfigurationError{Field: "destination", Value: u.destDirectory + ", " + u.destFile, Err: ErrAmbiguousDestination}
	}

	dir, file := resolveDestination(u.destDirectory, u.destFile)
	return &Resolved{
		SourceFile:    u.sourceFile,
		DestDirectory: dir,
		DestFile:      file,
	}, nil
}

// validateSource ensures that src is an existing regular file or at least not a directory.
func validateSource(src string) error {
	if len(src) == 0 {
		return &ConfigurationError{Field: "sourceFile", Err: ErrSourceNotDefined}
	}

	stat, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ConfigurationError{Field: "sourceFile", Value: src, Err: ErrSourceNotFound}
		}
		return &ConfigurationError{Field: "sourceFile", Value: src, Err: err}
	}

	if stat.IsDir() {
		return &ConfigurationError{Field: "sourceFile", Value: src, Err: ErrSourceIsDirectory}
	}

	return nil
}

// resolveDestination reconciles the configured destination with the file system.
// A directory that does not exist as directory becomes a file and a file that is
// an existing directory becomes a directory.
func resolveDestination(dir string, file string) (string, string) {
	if len(dir) > 0 && !isDirectory(dir) {
		file = dir
		dir = ""
	}

	if len(file) > 0 && isDirectory(file) {
		dir = file
		file = ""
	}

	return dir, file
}

// isDirectory returns true if path is an existing directory. Symlinks are followed.
func isDirectory(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return stat.IsDir()
}
