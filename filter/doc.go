// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package filter contains implementations of [unarchive.ContentFilter]. A content
// filter sees the name and the first bytes of a regular file and may veto its
// extraction.
package filter
