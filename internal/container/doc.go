// Package container inspects raw image byte buffers before any pixel decoding.
//
// It answers three cheap questions about a buffer of unknown provenance:
//
//   - Which standard format does the signature claim? (Sniff)
//   - Does the byte layout look like a TIFF/DNG container, and how many
//     embedded JPEG previews does it carry? (Analyze)
//   - Where are the embedded JPEG and PNG streams? (JPEGSpans, FirstJPEGSpan, PNGOffset)
//
// # Diagnostics Only
//
// Nothing in this package decides whether a buffer can be decoded. Sniff only
// lets callers skip structural analysis for ordinary photos, and Structure is
// reported for logging. None of the functions return errors or panic, whatever
// the input. Malformed markers are treated as "nothing found here".
//
// # Marker Conventions
//
// A JPEG span starts at an SOI marker (FF D8) and ends just after the first
// EOI marker (FF D9) that follows it. Spans are returned as half-open byte
// ranges [Start, End) into the original buffer; the buffer is never copied
// or modified.
package container
