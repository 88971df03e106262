package imaging

import "github.com/anthonynsimon/bild/histogram"

// ChannelClipping reports how much of one channel sits at the ends of the
// 8-bit range.
type ChannelClipping struct {
	// Shadows is the fraction of pixels (0-1) with the channel at 0.
	Shadows float64 `json:"shadows"`
	// Highlights is the fraction of pixels (0-1) with the channel at 255.
	Highlights float64 `json:"highlights"`
}

// ClippingResult contains per-channel clipping fractions for a surface.
type ClippingResult struct {
	R ChannelClipping `json:"r"`
	G ChannelClipping `json:"g"`
	B ChannelClipping `json:"b"`
}

// Clipping builds a channel histogram of s and reports the fraction of pixels
// clipped to black or white per channel. Saturated highlights make the
// chromaticity of bright regions unreliable, so this is reported alongside the
// color statistics when enabled.
//
// It is a separate pass over the pixels and does not participate in the
// statistics engine. Histogram bins hold premultiplied values, which only
// differs from the surface for translucent pixels. An empty surface reports
// all zeros.
func Clipping(s *NRGBASurface) ClippingResult {
	total := s.Width() * s.Height()
	if total == 0 {
		return ClippingResult{}
	}

	h := histogram.NewRGBAHistogram(s.Image())
	frac := func(hist histogram.Histogram) ChannelClipping {
		return ChannelClipping{
			Shadows:    float64(hist.Bins[0]) / float64(total),
			Highlights: float64(hist.Bins[255]) / float64(total),
		}
	}

	return ClippingResult{R: frac(h.R), G: frac(h.G), B: frac(h.B)}
}
