// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package selector contains reusable implementations of [unarchive.Selector].
//
// Selectors only look at the metadata of an entry. Combine them by registering
// several selectors on an [unarchive.Unarchiver]: an entry is extracted only if
// every selector accepts it.
package selector
