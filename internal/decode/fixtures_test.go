package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/tiff"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h, c), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h, c)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// tiffWithCompression encodes an uncompressed TIFF and rewrites its
// Compression tag to value.
func tiffWithCompression(t *testing.T, value byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, solid(4, 4, color.NRGBA{0x80, 0x80, 0x80, 0xff}), nil); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}
	data := buf.Bytes()
	// tag 0x0103, type SHORT, count 1, value 1 (none)
	entry := []byte{0x03, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00}
	i := bytes.Index(data, entry)
	if i < 0 {
		t.Fatal("compression entry not found in encoded tiff")
	}
	data[i+8] = value
	return data
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

var (
	red   = color.NRGBA{0xff, 0, 0, 0xff}
	blue  = color.NRGBA{0, 0, 0xff, 0xff}
	green = color.NRGBA{0, 0xff, 0, 0xff}
	junk  = []byte("this buffer holds no image signature at all")
)
