// Package driver implements [unarchive.Driver] for concrete archive formats.
//
// [Zip], [Tar], [Rar] and [SevenZip] extract archives into a directory,
// [Decompressor] writes a single compressed stream into a file, and [Auto]
// detects the format from the magic bytes of the source and delegates to one of
// them. All archive drivers share the same walk over the entries, which consults
// the selection pipeline and the content filter of the [unarchive.Extraction],
// protects against path traversal and symlink attacks, honors the overwrite flag
// and applies the permission bits through [unarchive.Extraction.ApplyPermissions].
package driver
