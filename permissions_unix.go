// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package unarchive

import (
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"
)

// nativeChmod sets the exact permission bits with chmod(2).
func nativeChmod(name string, mode fs.FileMode) error {
	if err := unix.Chmod(name, uint32(mode.Perm())); err != nil {
		return fmt.Errorf("chmod failed: %w", err)
	}
	return nil
}
