// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package driver

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-unarchive"
	"github.com/pkg/errors"
)

// openSource opens the archive of x and checks its size against the input limit.
func openSource(x *unarchive.Extraction) (*os.File, int64, error) {
	f, err := os.Open(x.SourceFile)
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot open archive")
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, errors.Wrap(err, "cannot stat archive")
	}

	size := stat.Size()
	x.Telemetry.InputSize = size
	if limit := x.Config().MaxInputSize(); limit != -1 && size > limit {
		f.Close()
		return nil, 0, unarchive.ErrMaxInputSizeExceeded
	}

	return f, size, nil
}

// archiveDestination returns the directory an archive is extracted into. A
// destination that resolved to a file is a directory that does not exist yet.
func archiveDestination(x *unarchive.Extraction) string {
	if len(x.DestDirectory) > 0 {
		return x.DestDirectory
	}
	return filepath.Clean(x.DestFile)
}
