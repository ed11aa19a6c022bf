// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"io"
	"io/fs"

	"github.com/google/uuid"
	"github.com/hashicorp/go-unarchive/telemetry"
)

// Extraction is the state of one run of an entry point. It is handed to the
// driver and to every finalizer.
type Extraction struct {
	// ID identifies the run
	ID string

	// SourceFile is the path of the archive
	SourceFile string

	// DestDirectory is the resolved destination directory
	DestDirectory string

	// DestFile is the resolved destination file
	DestFile string

	// Entry is the requested entry of a single entry extraction
	Entry string

	// Telemetry collects the telemetry data of the run
	Telemetry *telemetry.Data

	unarchiver *Unarchiver
}

// newExtraction snapshots the state of u for one run.
func newExtraction(u *Unarchiver, res Resolved, entry string) *Extraction {
	return &Extraction{
		ID:            uuid.New().String(),
		SourceFile:    res.SourceFile,
		DestDirectory: res.DestDirectory,
		DestFile:      res.DestFile,
		Entry:         entry,
		Telemetry:     &telemetry.Data{},
		unarchiver:    u,
	}
}

// Unarchiver returns the orchestrator that started the run.
func (x *Extraction) Unarchiver() *Unarchiver {
	return x.unarchiver
}

// Config returns the configuration of the orchestrator.
func (x *Extraction) Config() *Config {
	return x.unarchiver.Config()
}

// Resolved returns the destination of the run.
func (x *Extraction) Resolved() Resolved {
	return Resolved{SourceFile: x.SourceFile, DestDirectory: x.DestDirectory, DestFile: x.DestFile}
}

// IsSelected runs the selection pipeline for the entry name described by r.
func (x *Extraction) IsSelected(name string, r Resource) (bool, error) {
	ok, err := isSelected(x.unarchiver.selectors, name, r)
	if err != nil {
		if ee, isEE := err.(*ExtractionError); isEE {
			ee.Archive = x.SourceFile
		}
		return false, err
	}
	if !ok {
		x.Telemetry.SelectorMismatches++
	}
	return ok, nil
}

// Include asks the content filter whether the entry should be extracted. Without
// a content filter every entry is included.
func (x *Extraction) Include(r io.Reader, name string) (bool, error) {
	f := x.unarchiver.contentFilter
	if f == nil {
		return true, nil
	}
	ok, err := f.Include(r, name)
	if err != nil {
		return false, &ExtractionError{Op: "filter", Archive: x.SourceFile, Entry: name, Err: err}
	}
	if !ok {
		x.Telemetry.FilteredEntries++
	}
	return ok, nil
}

// HasContentFilter returns true if a content filter is configured.
func (x *Extraction) HasContentFilter() bool {
	return x.unarchiver.contentFilter != nil
}

// ApplyPermissions applies the permission bits of mode to path with the mechanism
// selected by [Config.UseNativePermissions]. Nothing is done if
// [Config.IgnorePermissions] is set.
func (x *Extraction) ApplyPermissions(path string, mode fs.FileMode) error {
	cfg := x.Config()
	if cfg.IgnorePermissions() {
		return nil
	}
	return cfg.PermissionApplier().Chmod(path, mode)
}
