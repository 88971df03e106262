package container

import "bytes"

var (
	markerSOI = []byte{0xFF, 0xD8}
	markerEOI = []byte{0xFF, 0xD9}

	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// Span is a half-open byte range [Start, End) within a buffer.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Slice returns the span's bytes from buf without copying.
func (s Span) Slice(buf []byte) []byte { return buf[s.Start:s.End] }

// nextJPEGSpan finds the first complete SOI..EOI span starting at or after from.
// It returns the span and the offset scanning should resume from.
func nextJPEGSpan(buf []byte, from int) (Span, int, bool) {
	for from < len(buf)-1 {
		i := bytes.Index(buf[from:], markerSOI)
		if i < 0 {
			return Span{}, len(buf), false
		}
		start := from + i
		j := bytes.Index(buf[start+2:], markerEOI)
		if j < 0 {
			// Unmatched SOI: no preview at this offset. Without an EOI past
			// this point no later SOI can close either.
			return Span{}, len(buf), false
		}
		end := start + 2 + j + 2
		return Span{Start: start, End: end}, end, true
	}
	return Span{}, len(buf), false
}

// FirstJPEGSpan returns the first complete embedded JPEG span in buf.
func FirstJPEGSpan(buf []byte) (Span, bool) {
	s, _, ok := nextJPEGSpan(buf, 0)
	return s, ok
}

// JPEGSpans returns every complete, non-overlapping SOI..EOI span in buf in
// the order they occur. An SOI without a following EOI is skipped.
func JPEGSpans(buf []byte) []Span {
	var spans []Span
	from := 0
	for {
		s, next, ok := nextJPEGSpan(buf, from)
		if !ok {
			return spans
		}
		spans = append(spans, s)
		from = next
	}
}

// CountJPEGMarkers counts every occurrence of the SOI byte pair in buf,
// including ones inside other streams.
func CountJPEGMarkers(buf []byte) int {
	return bytes.Count(buf, markerSOI)
}

// PNGOffset returns the offset of the first full PNG signature in buf, or -1.
func PNGOffset(buf []byte) int {
	return bytes.Index(buf, pngSignature)
}
