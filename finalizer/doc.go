// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package finalizer contains implementations of [unarchive.Finalizer] that run
// after a successful extraction: logging, checksum manifests, an SQLite history
// of extractions and EventBridge notifications.
package finalizer
