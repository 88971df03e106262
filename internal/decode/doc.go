// Package decode turns an image byte buffer of uncertain format into a
// decoded pixel surface by trying a fixed, ordered list of strategies.
//
// # Strategy Chain
//
// The default chain, in order:
//
//  1. StandardDecode: any registered container (JPEG, PNG, GIF, WebP, BMP, TIFF)
//  2. TiffDecode: the TIFF decoder alone, for containers the generic sniffing rejects
//  3. SingleEmbeddedPreviewExtract: the first complete FF D8 .. FF D9 span as JPEG
//  4. MultiEmbeddedPreviewExtract: every complete span, keeping the largest
//  5. PngPreviewDecode: a PNG stream starting at the first PNG signature
//  6. RawJpegDecode: the whole buffer through an independent JPEG decoder
//
// A strategy succeeds only with a non-nil image of positive width and height.
// Anything else (an error, a nil image, a zero-area image, even a panic inside
// a third-party decoder) is recorded as an Attempt with a Reason and the next
// strategy runs. Reasons classify failures ("unsupported_compression" versus
// "no_data_found") but never stop the chain early.
//
// # Errors
//
// When every strategy fails, Decode returns an *Error holding the complete
// ordered trail, one Attempt per strategy. It matches ErrExhausted with
// errors.Is. A zero-length buffer is rejected with ErrEmptyInput before any
// strategy runs. Decoding is deterministic, so failures are never retried.
package decode
