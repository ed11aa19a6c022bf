// Package telemetry provides a way to capture telemetry data during the extraction process.
//
// The package provides a struct type [Data] that holds all telemetry data of an extraction
// and a [TelemetryHook] that exports the data as prometheus metrics.
package telemetry
