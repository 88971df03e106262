package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Surface is a decoded pixel surface with 8-bit RGB access.
//
// Coordinates are 0-based with the origin at the top-left corner:
//   - Valid X range: 0 to Width()-1
//   - Valid Y range: 0 to Height()-1
//
// A 0x0 surface is valid and simply has no pixels.
type Surface interface {
	Width() int
	Height() int
	// RGB returns the color at (x, y) as 8-bit, non-premultiplied components.
	// Behavior for coordinates outside the surface is undefined.
	RGB(x, y int) (r, g, b uint8)
}

// NRGBASurface is a Surface backed by a non-premultiplied 8-bit image.
//
// The alpha channel is ignored: a semi-transparent pixel reports the color it
// was stored with, not the color it would composite to.
type NRGBASurface struct {
	img *image.NRGBA
}

// NewSurface wraps img as a Surface.
//
// Images that are already *image.NRGBA with a zero origin are used as-is.
// Every other color model (YCbCr, paletted, 16-bit, gray, CMYK) is converted
// once with imaging.Clone, so later pixel reads are plain slice lookups. A nil
// image yields a 0x0 surface.
func NewSurface(img image.Image) *NRGBASurface {
	if img == nil {
		return &NRGBASurface{img: image.NewNRGBA(image.Rect(0, 0, 0, 0))}
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return &NRGBASurface{img: n}
	}
	return &NRGBASurface{img: imaging.Clone(img)}
}

// Width returns the surface width in pixels.
func (s *NRGBASurface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *NRGBASurface) Height() int { return s.img.Rect.Dy() }

// RGB returns the 8-bit color components at (x, y).
func (s *NRGBASurface) RGB(x, y int) (r, g, b uint8) {
	i := y*s.img.Stride + x*4
	p := s.img.Pix[i : i+3 : i+3]
	return p[0], p[1], p[2]
}

// Row returns the packed RGBA bytes of row y (4 bytes per pixel).
// The slice aliases the surface and must not be modified.
func (s *NRGBASurface) Row(y int) []uint8 {
	start := y * s.img.Stride
	return s.img.Pix[start : start+s.Width()*4]
}

// Image returns the backing image. It must not be modified.
func (s *NRGBASurface) Image() *image.NRGBA { return s.img }
