// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"context"
	"fmt"
)

// Finalizer is a hook that runs once after a driver finished an extraction
// without error. It receives the finished [Extraction], which references the
// orchestrator and the resolved destination.
type Finalizer interface {
	FinalizeExtraction(ctx context.Context, x *Extraction) error
}

// FinalizerFunc adapts a function to the [Finalizer] interface.
type FinalizerFunc func(ctx context.Context, x *Extraction) error

// FinalizeExtraction calls f(ctx, x).
func (f FinalizerFunc) FinalizeExtraction(ctx context.Context, x *Extraction) error {
	return f(ctx, x)
}

// runFinalizers calls the finalizers in registration order and stops at the first
// failure. Finalizers that already ran are not rolled back.
func runFinalizers(ctx context.Context, finalizers []Finalizer, x *Extraction) error {
	for i, f := range finalizers {
		x.Config().Logger().Debug("run finalizer", "finalizer", finalizerName(i, f))
		if err := f.FinalizeExtraction(ctx, x); err != nil {
			return &ExtractionError{Op: "finalize", Archive: x.SourceFile, Finalizer: finalizerName(i, f), Err: err}
		}
		x.Telemetry.FinalizersRun++
	}
	return nil
}

// finalizerName identifies a finalizer by its position and String() or type.
func finalizerName(i int, f Finalizer) string {
	if s, ok := f.(fmt.Stringer); ok {
		return fmt.Sprintf("#%d %s", i, s.String())
	}
	return fmt.Sprintf("#%d %T", i, f)
}
