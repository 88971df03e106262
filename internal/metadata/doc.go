// Package metadata extracts EXIF-style capture tags from an image buffer and
// normalizes them into typed values.
//
// Extraction runs a primary strategy over the whole buffer and, when that
// yields nothing useful, a fallback over the first complete embedded JPEG
// preview. Missing metadata is never an error: the result is an empty,
// checked Map whose Source is SourceNone.
package metadata
