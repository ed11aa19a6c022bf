// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNotDefined is returned if no source archive is configured.
	ErrSourceNotDefined = errors.New("the source file isn't defined")

	// ErrSourceIsDirectory is returned if the source archive is a directory.
	ErrSourceIsDirectory = errors.New("the source must not be a directory")

	// ErrSourceNotFound is returned if the source archive does not exist.
	ErrSourceNotFound = errors.New("the source file doesn't exist")

	// ErrDestinationNotDefined is returned if neither a destination directory nor file is configured.
	ErrDestinationNotDefined = errors.New("the destination isn't defined")

	// ErrAmbiguousDestination is returned if a destination directory and file are configured.
	ErrAmbiguousDestination = errors.New("you must choose between a destination directory and a destination file")

	// ErrNoDriver is returned if the orchestrator has no format driver.
	ErrNoDriver = errors.New("no format driver configured")

	// ErrMaxFilesExceeded indicates that the maximum number of files is exceeded.
	ErrMaxFilesExceeded = errors.New("maximum files exceeded")

	// ErrMaxExtractionSizeExceeded indicates that the maximum size is exceeded.
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrMaxInputSizeExceeded indicates that the maximum input size is exceeded.
	ErrMaxInputSizeExceeded = errors.New("maximum input size exceeded")

	// ErrEntryNotFound is returned by a single entry extraction that matched no entry.
	ErrEntryNotFound = errors.New("entry not found in archive")

	// ErrUnsupportedFile is returned for entries of an unsupported type.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ConfigurationError is returned synchronously by the validation step. No driver
// work has started when it is returned, so the caller can fix the configuration
// and retry.
type ConfigurationError struct {
	// Field is the name of the offending configuration field
	Field string

	// Value is the configured value, if any
	Value string

	// Err is the underlying cause
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if len(e.Value) > 0 {
		return fmt.Sprintf("invalid configuration (%s=%s): %s", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid configuration (%s): %s", e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ExtractionError is returned if the driver, the selection pipeline, the content
// filter or a finalizer failed. Partial results on disk are not removed.
type ExtractionError struct {
	// Op is the step that failed, e.g. "extract", "select", "filter" or "finalize"
	Op string

	// Archive is the path of the source archive
	Archive string

	// Entry is the name of the affected entry, if any
	Entry string

	// Finalizer identifies the failed finalizer, if any
	Finalizer string

	// Err is the underlying cause
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" failed")
	if len(e.Archive) > 0 {
		fmt.Fprintf(&b, " (archive %s)", e.Archive)
	}
	if len(e.Entry) > 0 {
		fmt.Fprintf(&b, " (entry %s)", e.Entry)
	}
	if len(e.Finalizer) > 0 {
		fmt.Fprintf(&b, " (finalizer %s)", e.Finalizer)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a [ConfigurationError].
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsExtractionError reports whether err is or wraps an [ExtractionError].
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
