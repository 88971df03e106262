// Package imaging holds the decoded pixel surface and the helpers that work
// directly on it.
//
// A Surface is the single hand-off point between decoding and measurement:
// decoders may produce any image.Image color model, and NewSurface normalizes
// it once to non-premultiplied 8-bit RGB so the statistics engine reads every
// pixel the same way, whatever the source format.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Surfaces created from images with a non-zero origin are rebased to (0,0).
//
// # Thread Safety
//
// Surfaces are read-only after construction and may be read concurrently.
// Nothing in this package keeps state between calls; in particular ReadFile
// does not cache file contents.
//
// # Color Representation
//
// SummarizeColor reports a color as:
//   - Hex: 6-character format "#rrggbb"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - CIE xyY: chromaticity and relative luminance for an sRGB/D65 source
package imaging
