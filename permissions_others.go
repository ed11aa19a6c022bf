// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package unarchive

import (
	"fmt"
	"io/fs"
	"os"
)

// nativeChmod falls back to os.Chmod on platforms without chmod(2).
func nativeChmod(name string, mode fs.FileMode) error {
	if err := os.Chmod(name, mode.Perm()); err != nil {
		return fmt.Errorf("chmod failed: %w", err)
	}
	return nil
}
