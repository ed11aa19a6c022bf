// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"context"
	"io"
	"io/fs"
	"log/slog"

	"github.com/hashicorp/go-unarchive/telemetry"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config holds the flags and limits that a format driver has to honor while
// it performs an extraction. The configuration options can be adjusted using
// the option pattern style.
//
// The default configuration overwrites existing files, applies permissions
// from the archive with the native mechanism and limits the extraction to
// prevent resource exhaustion.
type Config struct {
	// continueOnUnsupportedFiles skips entries of unsupported types (e.g. FIFO, devices)
	continueOnUnsupportedFiles bool

	// createDestination creates a missing destination directory
	createDestination bool

	// customCreateDirMode is the file mode for directories that are not defined in the archive (respecting umask)
	customCreateDirMode fs.FileMode

	// customDecompressFileMode is the file mode for a decompressed file (respecting umask)
	customDecompressFileMode fs.FileMode

	// denySymlinkExtraction turns symlinks into unsupported entries
	denySymlinkExtraction bool

	// ignorePermissions skips the application of permission bits from the archive
	ignorePermissions bool

	// logger stream for extraction
	logger logger

	// maxExtractionSize is the maximum size over all extracted files.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum of entries (including folder and symlinks) in an archive.
	// Set value to -1 to disable the check.
	maxFiles int64

	// maxInputSize is the maximum size of the input.
	// Set value to -1 to disable the check.
	maxInputSize int64

	// nativePermissions applies permission bits when useNativePermissions is set
	nativePermissions PermissionApplier

	// overwrite defines if files should be overwritten in the destination
	overwrite bool

	// portablePermissions applies permission bits when useNativePermissions is not set
	portablePermissions PermissionApplier

	// telemetryHook consumes telemetry data after the driver finished
	telemetryHook telemetry.TelemetryHook

	// useNativePermissions selects the native permission mechanism
	useNativePermissions bool
}

// ContinueOnUnsupportedFiles returns true if unsupported entries, e.g., FIFO, block or
// character devices, should be skipped.
//
// If symlinks are not allowed and a symlink is found, it is considered an unsupported
// entry.
func (c *Config) ContinueOnUnsupportedFiles() bool {
	return c.continueOnUnsupportedFiles
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {

	// check if disabled
	if c.MaxFiles() == -1 {
		return nil
	}

	// check value
	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// CheckExtractionSize checks if size exceeds configured maximum. If the maximum is exceeded,
// a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(size int64) error {

	// check if disabled
	if c.MaxExtractionSize() == -1 {
		return nil
	}

	// check value
	if size > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

// CreateDestination returns true if a missing destination directory should be created.
func (c *Config) CreateDestination() bool {
	return c.createDestination
}

// CustomCreateDirMode returns the file mode for created directories,
// that are not defined in the archive. (respecting umask)
func (c *Config) CustomCreateDirMode() fs.FileMode {
	return c.customCreateDirMode
}

// CustomDecompressFileMode returns the file mode for a decompressed file.
// (respecting umask)
func (c *Config) CustomDecompressFileMode() fs.FileMode {
	return c.customDecompressFileMode
}

// DenySymlinkExtraction returns true if symlinks are NOT allowed.
func (c *Config) DenySymlinkExtraction() bool {
	return c.denySymlinkExtraction
}

// IgnorePermissions returns true if permission bits from the archive should not be
// applied. Ownership is never changed, regardless of this flag.
func (c *Config) IgnorePermissions() bool {
	return c.ignorePermissions
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size over all extracted files.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum of entries (including folder and symlinks) in an archive.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// MaxInputSize returns the maximum size of the input.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// Overwrite returns true if files should be overwritten in the destination.
func (c *Config) Overwrite() bool {
	return c.overwrite
}

// PermissionApplier returns the mechanism selected by [Config.UseNativePermissions].
func (c *Config) PermissionApplier() PermissionApplier {
	if c.useNativePermissions {
		return c.nativePermissions
	}
	return c.portablePermissions
}

// SetIgnorePermissions sets the ignorePermissions flag.
func (c *Config) SetIgnorePermissions(b bool) {
	c.ignorePermissions = b
}

// SetOverwrite sets the overwrite flag.
func (c *Config) SetOverwrite(b bool) {
	c.overwrite = b
}

// SetUseNativePermissions sets the useNativePermissions flag.
//
// The portable mechanism won't set group level permissions. Keep native
// permissions enabled if POSIX group permissions are required.
func (c *Config) SetUseNativePermissions(b bool) {
	c.useNativePermissions = b
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() telemetry.TelemetryHook {
	if c.telemetryHook == nil {
		return telemetry.NoopTelemetryHook
	}
	return c.telemetryHook
}

// UseNativePermissions returns true if the native permission mechanism is used.
func (c *Config) UseNativePermissions() bool {
	return c.useNativePermissions
}

const (
	defaultContinueOnUnsupportedFiles = false         // stop on unsupported files and return error
	defaultCreateDestination          = false         // don't create destination directory
	defaultCustomCreateDirMode        = 0750          // default directory permissions rwxr-x---
	defaultCustomDecompressFileMode   = 0640          // default decompression permissions rw-r-----
	defaultDenySymlinkExtraction      = false         // allow symlink extraction
	defaultIgnorePermissions          = false         // apply permissions from archive
	defaultMaxFiles                   = 100000        // 100k files
	defaultMaxExtractionSize          = 1 << (10 * 3) // 1 Gb
	defaultMaxInputSize               = 1 << (10 * 3) // 1 Gb
	defaultOverwrite                  = true          // overwrite existing files
	defaultUseNativePermissions       = true          // exact permission bits
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *telemetry.Data) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		continueOnUnsupportedFiles: defaultContinueOnUnsupportedFiles,
		createDestination:          defaultCreateDestination,
		customCreateDirMode:        defaultCustomCreateDirMode,
		customDecompressFileMode:   defaultCustomDecompressFileMode,
		denySymlinkExtraction:      defaultDenySymlinkExtraction,
		ignorePermissions:          defaultIgnorePermissions,
		logger:                     defaultLogger,
		maxFiles:                   defaultMaxFiles,
		maxExtractionSize:          defaultMaxExtractionSize,
		maxInputSize:               defaultMaxInputSize,
		nativePermissions:          NativePermissions(),
		overwrite:                  defaultOverwrite,
		portablePermissions:        PortablePermissions(),
		telemetryHook:              defaultTelemetryHook,
		useNativePermissions:       defaultUseNativePermissions,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithContinueOnUnsupportedFiles options pattern function to
// enable/disable skipping unsupported entries. If symlinks are not allowed
// and a symlink is found, it is considered an unsupported entry.
func WithContinueOnUnsupportedFiles(ctd bool) ConfigOption {
	return func(c *Config) {
		c.continueOnUnsupportedFiles = ctd
	}
}

// WithCreateDestination options pattern function to create
// destination directory if it does not exist.
func WithCreateDestination(create bool) ConfigOption {
	return func(c *Config) {
		c.createDestination = create
	}
}

// WithCustomCreateDirMode options pattern function to set the file mode
// for created directories, that are not defined in the archive. (respecting umask)
func WithCustomCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customCreateDirMode = mode
	}
}

// WithCustomDecompressFileMode options pattern function to set the file mode for a
// decompressed file. (respecting umask)
func WithCustomDecompressFileMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customDecompressFileMode = mode
	}
}

// WithDenySymlinkExtraction options pattern function to deny symlink extraction.
func WithDenySymlinkExtraction(deny bool) ConfigOption {
	return func(c *Config) {
		c.denySymlinkExtraction = deny
	}
}

// WithIgnorePermissions options pattern function to skip permission bits from the archive.
func WithIgnorePermissions(ignore bool) ConfigOption {
	return func(c *Config) {
		c.ignorePermissions = ignore
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set maximum size over all
// extracted files. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles options pattern function to set maximum number of extracted files,
// directories and symlinks during the extraction. (-1 to disable check)
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithMaxInputSize options pattern function to set MaxInputSize for the archive. (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithNativePermissionApplier replaces the native permission mechanism.
func WithNativePermissionApplier(p PermissionApplier) ConfigOption {
	return func(c *Config) {
		if p != nil {
			c.nativePermissions = p
		}
	}
}

// WithOverwrite options pattern function specify if files should be overwritten in the destination.
func WithOverwrite(enable bool) ConfigOption {
	return func(c *Config) {
		c.overwrite = enable
	}
}

// WithPortablePermissionApplier replaces the portable permission mechanism.
func WithPortablePermissionApplier(p PermissionApplier) ConfigOption {
	return func(c *Config) {
		if p != nil {
			c.portablePermissions = p
		}
	}
}

// WithTelemetryHook options pattern function to set a [telemetry.TelemetryHook], which is called
// after the driver finished.
func WithTelemetryHook(hook telemetry.TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}

// WithUseNativePermissions options pattern function to select the native (true) or
// portable (false) permission mechanism.
func WithUseNativePermissions(native bool) ConfigOption {
	return func(c *Config) {
		c.useNativePermissions = native
	}
}
