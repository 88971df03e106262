package imaging

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// CIEColor is a color in CIE 1931 xyY coordinates, assuming sRGB input with
// a D65 white point.
type CIEColor struct {
	X float64 `json:"x"` // Chromaticity x (0-1)
	Y float64 `json:"y"` // Chromaticity y (0-1)
	L float64 `json:"Y"` // Relative luminance Y (0-1)
}

// ColorSummary describes one color in several representations.
//
// It complements the RGB-ratio chromaticity computed by the statistics
// engine: the CIE coordinates account for the sRGB transfer curve and the
// standard observer, so they are comparable across devices, while r/(r+g+b)
// is a raw channel ratio.
type ColorSummary struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // Rounded 8-bit components
	HSL HSLColor `json:"hsl"` // HSL representation
	CIE CIEColor `json:"cie_xyy"`
}

// SummarizeColor describes the color with the given 0-255 components.
// Fractional input (such as a mean over many pixels) is accepted; values are
// clamped to the 0-255 range.
func SummarizeColor(r, g, b float64) ColorSummary {
	c := colorful.Color{R: clamp255(r) / 255, G: clamp255(g) / 255, B: clamp255(b) / 255}

	r8, g8, b8 := c.RGB255()
	h, s, l := c.Hsl()
	x, y, lum := c.Xyy()

	return ColorSummary{
		Hex: c.Hex(),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSL: HSLColor{H: int(h) % 360, S: int(s * 100), L: int(l * 100)},
		CIE: CIEColor{X: round4(x), Y: round4(y), L: round4(lum)},
	}
}

func clamp255(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
