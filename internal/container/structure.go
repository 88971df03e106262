package container

import "bytes"

// DNGVersion tag ID (0xC612) as it appears in an IFD entry for each byte order.
var (
	dngTagLE = []byte{0x12, 0xC6}
	dngTagBE = []byte{0xC6, 0x12}

	tiffLE = []byte{'I', 'I', 0x2A, 0x00}
	tiffBE = []byte{'M', 'M', 0x00, 0x2A}
)

// Hints reported in Structure.Hint.
const (
	HintTIFF     = "tiff container"
	HintPreviews = "embedded previews"
	HintOpaque   = "opaque"
)

// Structure is a diagnostic summary of a buffer's container layout.
type Structure struct {
	// ValidTIFF reports a TIFF byte-order marker and magic number at offset 0.
	ValidTIFF bool `json:"valid_tiff"`

	// ByteOrder is "II" (little endian), "MM" (big endian), or empty.
	ByteOrder string `json:"byte_order,omitempty"`

	// LikelyDNG reports that the DNGVersion tag ID appears in the buffer.
	// It is a byte-pattern heuristic, not an IFD walk, so it may also fire on
	// coincidental data.
	LikelyDNG bool `json:"likely_dng"`

	// JPEGMarkers counts every FF D8 pair in the buffer.
	JPEGMarkers int `json:"jpeg_markers"`

	// CompletePreviews counts the FF D8 .. FF D9 spans found by JPEGSpans.
	CompletePreviews int `json:"complete_previews"`

	// Hint is a short human-readable classification used in logs.
	Hint string `json:"hint"`
}

// Analyze inspects the TIFF/DNG layout of buf. It never fails; an empty or
// garbage buffer simply yields a Structure with everything false or zero.
func Analyze(buf []byte) Structure {
	var st Structure

	switch {
	case bytes.HasPrefix(buf, tiffLE):
		st.ValidTIFF = true
		st.ByteOrder = "II"
		st.LikelyDNG = bytes.Contains(buf, dngTagLE)
	case bytes.HasPrefix(buf, tiffBE):
		st.ValidTIFF = true
		st.ByteOrder = "MM"
		st.LikelyDNG = bytes.Contains(buf, dngTagBE)
	default:
		st.LikelyDNG = bytes.Contains(buf, dngTagLE) || bytes.Contains(buf, dngTagBE)
	}

	st.JPEGMarkers = CountJPEGMarkers(buf)
	st.CompletePreviews = len(JPEGSpans(buf))

	switch {
	case st.ValidTIFF:
		st.Hint = HintTIFF
	case st.CompletePreviews > 0:
		st.Hint = HintPreviews
	default:
		st.Hint = HintOpaque
	}
	return st
}
