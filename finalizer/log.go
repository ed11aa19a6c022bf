// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package finalizer

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-unarchive"
)

// Log writes a summary of the extraction to a slog logger.
type Log struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLog creates a finalizer that logs with level to logger. A nil logger uses
// slog.Default().
func NewLog(logger *slog.Logger, level slog.Level) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, level: level}
}

// FinalizeExtraction implements [unarchive.Finalizer].
func (l *Log) FinalizeExtraction(ctx context.Context, x *unarchive.Extraction) error {
	td := x.Telemetry
	l.logger.Log(ctx, l.level, "extraction finished",
		"id", x.ID,
		"source", x.SourceFile,
		"destination", destination(x),
		"type", td.ExtractedType,
		"files", td.ExtractedFiles,
		"dirs", td.ExtractedDirs,
		"symlinks", td.ExtractedSymlinks,
		"bytes", td.ExtractionSize,
		"duration", td.ExtractionDuration,
	)
	return nil
}

// String implements fmt.Stringer.
func (l *Log) String() string {
	return "log"
}

// destination returns the path the extraction wrote to.
func destination(x *unarchive.Extraction) string {
	if len(x.DestFile) > 0 {
		return x.DestFile
	}
	return x.DestDirectory
}
