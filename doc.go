// Package unarchive provides a format agnostic orchestrator for archive extraction.
//
// An [Unarchiver] resolves the destination of an extraction, validates its
// preconditions, exposes the entry selection pipeline and the content filter to a
// format [Driver] and runs the registered [Finalizer] chain once the driver returned
// without an error. Concrete drivers for zip, tar, rar, 7zip and single stream
// compression formats are located in the driver package.
//
// Configuration is done using the [Config], which is a configuration struct that can be used to
// set the overwrite behavior, the permission handling, the logger, the telemetry hook and the
// extraction limits. Telemetry data is captured during the extraction process. The collection of
// telemetry data is done using the telemetry package.
package unarchive
