// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive

import (
	"fmt"
	"io/fs"
	"os"
)

// PermissionApplier applies permission bits to an extracted file or directory.
type PermissionApplier interface {
	Chmod(name string, mode fs.FileMode) error
}

// PermissionApplierFunc adapts a function to the [PermissionApplier] interface.
type PermissionApplierFunc func(name string, mode fs.FileMode) error

// Chmod calls f(name, mode).
func (f PermissionApplierFunc) Chmod(name string, mode fs.FileMode) error {
	return f(name, mode)
}

// PortablePermissions returns the portable permission mechanism. It can only grant
// a permission to the owner or to everybody, so group bits can't be set on their
// own: a bit set for others is set for owner, group and others, a bit set only for
// the owner is set for the owner.
func PortablePermissions() PermissionApplier {
	return PermissionApplierFunc(func(name string, mode fs.FileMode) error {
		if err := os.Chmod(name, portableMode(mode)); err != nil {
			return fmt.Errorf("chmod failed: %w", err)
		}
		return nil
	})
}

// NativePermissions returns the native permission mechanism of the platform, which
// applies the exact permission bits.
func NativePermissions() PermissionApplier {
	return PermissionApplierFunc(nativeChmod)
}

// portableMode computes the permission bits the portable mechanism is able to set.
func portableMode(mode fs.FileMode) fs.FileMode {
	var perm fs.FileMode
	for _, bit := range []fs.FileMode{4, 2, 1} {
		switch {
		case mode&bit != 0:
			perm |= bit<<6 | bit<<3 | bit
		case mode&(bit<<6) != 0:
			perm |= bit << 6
		}
	}
	return perm
}
