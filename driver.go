// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import "context"

//go:generate mockgen -destination=internal/mocks/mocks.go -package=mocks . Driver,EntryValidator,Selector,ContentFilter,Finalizer,PermissionApplier

// Driver decodes one archive format. It is invoked only after validation succeeded
// and must honor the resolved destination, the overwrite flag and the permission
// flags of the [Config]. For each discovered entry, it consults
// [Extraction.IsSelected] and, once it has a readable stream, [Extraction.Include].
type Driver interface {
	// ExtractAll extracts the whole archive x.SourceFile into x.DestDirectory or x.DestFile.
	ExtractAll(ctx context.Context, x *Extraction) error

	// ExtractEntry extracts the entry path, or all entries below path, into outputDirectory.
	ExtractEntry(ctx context.Context, x *Extraction, path string, outputDirectory string) error
}

// EntryValidator can be implemented by a [Driver] to validate the arguments of a
// single entry extraction before any work starts.
type EntryValidator interface {
	ValidateEntry(path string, outputDirectory string) error
}
