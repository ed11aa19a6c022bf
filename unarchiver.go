// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"context"
	"errors"
	"time"
)

// now is a function point that returns time.Now to the caller.
var now = time.Now

// Unarchiver orchestrates the extraction of one archive with a format [Driver].
//
// It is configured with setters and can be extracted one or more times. The
// selectors, the content filter and the finalizers are held by reference and not
// copied. Validation does not modify the orchestrator, but the setters are not
// synchronized: don't reconfigure an instance while an extraction is running.
type Unarchiver struct {
	config        *Config
	contentFilter ContentFilter
	destDirectory string
	destFile      string
	driver        Driver
	finalizers    []Finalizer
	selectors     []Selector
	sourceFile    string
}

// New creates an orchestrator for driver. If cfg is nil, the default
// configuration is used.
func New(driver Driver, cfg *Config) *Unarchiver {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Unarchiver{
		config: cfg,
		driver: driver,
	}
}

// NewForSource creates an orchestrator for driver that is bound to the archive src.
func NewForSource(driver Driver, src string, cfg *Config) *Unarchiver {
	u := New(driver, cfg)
	u.sourceFile = src
	return u
}

// AddFinalizer appends f to the finalizer chain.
func (u *Unarchiver) AddFinalizer(f Finalizer) {
	u.finalizers = append(u.finalizers, f)
}

// AddSelector appends s to the selection pipeline.
func (u *Unarchiver) AddSelector(s Selector) {
	u.selectors = append(u.selectors, s)
}

// Config returns the configuration.
func (u *Unarchiver) Config() *Config {
	return u.config
}

// ContentFilter returns the content filter, or nil.
func (u *Unarchiver) ContentFilter() ContentFilter {
	return u.contentFilter
}

// DestDirectory returns the configured destination directory.
func (u *Unarchiver) DestDirectory() string {
	return u.destDirectory
}

// DestFile returns the configured destination file.
func (u *Unarchiver) DestFile() string {
	return u.destFile
}

// Driver returns the format driver.
func (u *Unarchiver) Driver() Driver {
	return u.driver
}

// Finalizers returns the finalizer chain.
func (u *Unarchiver) Finalizers() []Finalizer {
	return u.finalizers
}

// Selectors returns the selection pipeline.
func (u *Unarchiver) Selectors() []Selector {
	return u.selectors
}

// SetContentFilter sets the content filter. nil disables content filtering.
func (u *Unarchiver) SetContentFilter(f ContentFilter) {
	u.contentFilter = f
}

// SetDestDirectory sets the destination directory.
func (u *Unarchiver) SetDestDirectory(dir string) {
	u.destDirectory = dir
}

// SetDestFile sets the destination file.
func (u *Unarchiver) SetDestFile(file string) {
	u.destFile = file
}

// SetFinalizers replaces the finalizer chain.
func (u *Unarchiver) SetFinalizers(f ...Finalizer) {
	u.finalizers = f
}

// SetSelectors replaces the selection pipeline.
func (u *Unarchiver) SetSelectors(s ...Selector) {
	u.selectors = s
}

// SetSourceFile sets the archive that is extracted.
func (u *Unarchiver) SetSourceFile(src string) {
	u.sourceFile = src
}

// SourceFile returns the archive that is extracted.
func (u *Unarchiver) SourceFile() string {
	return u.sourceFile
}

// Extract validates the configuration, extracts the whole archive with the driver
// and runs the finalizers. A failing step ends the extraction; partial results of
// the driver are not rolled back.
func (u *Unarchiver) Extract(ctx context.Context) error {
	res, err := u.Validate()
	if err != nil {
		return err
	}

	x := newExtraction(u, *res, "")
	u.config.Logger().Info("extracting archive", "id", x.ID, "source", x.SourceFile, "destination", res.Destination())

	if err := u.execute(ctx, x, func() error {
		return u.driver.ExtractAll(ctx, x)
	}); err != nil {
		return err
	}

	return runFinalizers(ctx, u.finalizers, x)
}

// ExtractEntry extracts the entry path, or all entries below path, into
// outputDirectory and runs the finalizers. Only the optional [EntryValidator]
// of the driver validates the arguments.
func (u *Unarchiver) ExtractEntry(ctx context.Context, path string, outputDirectory string) error {
	if u.driver == nil {
		return &ConfigurationError{Field: "driver", Err: ErrNoDriver}
	}

	if v, ok := u.driver.(EntryValidator); ok {
		if err := v.ValidateEntry(path, outputDirectory); err != nil {
			if IsConfigurationError(err) {
				return err
			}
			return &ConfigurationError{Field: "entry", Value: path, Err: err}
		}
	}

	x := newExtraction(u, Resolved{SourceFile: u.sourceFile, DestDirectory: outputDirectory}, path)
	u.config.Logger().Info("extracting entry", "id", x.ID, "source", x.SourceFile, "entry", path, "destination", outputDirectory)

	if err := u.execute(ctx, x, func() error {
		return u.driver.ExtractEntry(ctx, x, path, outputDirectory)
	}); err != nil {
		return err
	}

	return runFinalizers(ctx, u.finalizers, x)
}

// execute runs the driver step, captures telemetry and converts errors into the
// error taxonomy of the package.
func (u *Unarchiver) execute(ctx context.Context, x *Extraction, run func() error) error {
	start := now()
	err := run()
	x.Telemetry.ExtractionDuration = now().Sub(start)
	if err != nil {
		x.Telemetry.ExtractionErrors++
		x.Telemetry.LastExtractionError = err
	}
	u.config.TelemetryHook()(ctx, x.Telemetry)

	if err == nil {
		return nil
	}

	// keep errors that already carry context
	var ee *ExtractionError
	if errors.As(err, &ee) {
		if len(ee.Archive) == 0 {
			ee.Archive = x.SourceFile
		}
		return err
	}
	if IsConfigurationError(err) {
		return err
	}
	return &ExtractionError{Op: "extract", Archive: x.SourceFile, Entry: x.Entry, Err: err}
}
