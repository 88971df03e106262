package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
)

// PreviewResult contains a rendered preview of a decoded surface.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderPreview downsizes s to fit within maxSize x maxSize (aspect ratio
// preserved, never enlarged) and encodes it as base64 PNG.
//
// This is what lets a human see which embedded preview the decoder settled
// on for a RAW container.
func RenderPreview(s *NRGBASurface, maxSize int) (*PreviewResult, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid preview size %d: must be positive", maxSize)
	}
	if s.Width() == 0 || s.Height() == 0 {
		return nil, fmt.Errorf("cannot preview empty %dx%d surface", s.Width(), s.Height())
	}

	img := imaging.Fit(s.Image(), maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
