package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegn"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ironsheep/chroma-analyzer/internal/container"
)

// Strategy names, as they appear in results and failure trails.
const (
	NameStandard      = "StandardDecode"
	NameTiff          = "TiffDecode"
	NameSinglePreview = "SingleEmbeddedPreviewExtract"
	NameMultiPreview  = "MultiEmbeddedPreviewExtract"
	NamePngPreview    = "PngPreviewDecode"
	NameRawJpeg       = "RawJpegDecode"
)

// TieBreak picks between embedded previews of equal area.
type TieBreak int

const (
	// TieFirst keeps the earliest preview in buffer order.
	TieFirst TieBreak = iota
	// TieLast keeps the latest preview in buffer order.
	TieLast
)

// ParseTieBreak parses "first" or "last".
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "first":
		return TieFirst, nil
	case "last":
		return TieLast, nil
	}
	return TieFirst, fmt.Errorf("unknown preview tie-break %q (want first or last)", s)
}

func (t TieBreak) String() string {
	if t == TieLast {
		return "last"
	}
	return "first"
}

// DefaultStrategies returns the standard six-step chain.
func DefaultStrategies(tie TieBreak) []Strategy {
	return []Strategy{
		StandardDecode{},
		TiffDecode{},
		SingleEmbeddedPreviewExtract{},
		MultiEmbeddedPreviewExtract{TieBreak: tie},
		PngPreviewDecode{},
		RawJpegDecode{},
	}
}

// StandardDecode decodes any container registered with the image package.
type StandardDecode struct{}

func (StandardDecode) Name() string { return NameStandard }

func (StandardDecode) Decode(_ context.Context, buf []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(buf))
}

// TiffDecode decodes the buffer as a TIFF container. Camera raw files built
// on TIFF usually fail here with an unsupported compression.
type TiffDecode struct{}

func (TiffDecode) Name() string { return NameTiff }

func (TiffDecode) Decode(_ context.Context, buf []byte) (image.Image, error) {
	return tiff.Decode(bytes.NewReader(buf))
}

// SingleEmbeddedPreviewExtract decodes the first complete JPEG span.
type SingleEmbeddedPreviewExtract struct{}

func (SingleEmbeddedPreviewExtract) Name() string { return NameSinglePreview }

func (SingleEmbeddedPreviewExtract) Decode(_ context.Context, buf []byte) (image.Image, error) {
	span, ok := container.FirstJPEGSpan(buf)
	if !ok {
		return nil, fail(ReasonNoPreview, "no complete JPEG span found")
	}
	img, err := jpeg.Decode(bytes.NewReader(span.Slice(buf)))
	if err != nil {
		return nil, fmt.Errorf("preview at %d..%d: %w", span.Start, span.End, err)
	}
	return img, nil
}

// MultiEmbeddedPreviewExtract decodes every complete JPEG span and keeps the
// one with the largest pixel area.
type MultiEmbeddedPreviewExtract struct {
	TieBreak TieBreak
}

func (MultiEmbeddedPreviewExtract) Name() string { return NameMultiPreview }

func (m MultiEmbeddedPreviewExtract) Decode(ctx context.Context, buf []byte) (image.Image, error) {
	spans := container.JPEGSpans(buf)
	if len(spans) == 0 {
		return nil, fail(ReasonNoPreview, "no complete JPEG span found")
	}

	var (
		best     image.Image
		bestArea int
		lastErr  error
	)
	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := jpeg.Decode(bytes.NewReader(span.Slice(buf)))
		if err != nil {
			lastErr = err
			continue
		}
		b := img.Bounds()
		area := b.Dx() * b.Dy()
		if area <= 0 {
			continue
		}
		if best == nil || area > bestArea || (area == bestArea && m.TieBreak == TieLast) {
			best, bestArea = img, area
		}
	}

	if best == nil {
		if lastErr == nil {
			lastErr = errors.New("every span decoded to an empty image")
		}
		return nil, &ReasonError{
			Reason: ReasonMalformed,
			Err:    fmt.Errorf("none of %d spans decoded: %w", len(spans), lastErr),
		}
	}
	return best, nil
}

// PngPreviewDecode decodes a PNG stream starting at the first PNG signature.
type PngPreviewDecode struct{}

func (PngPreviewDecode) Name() string { return NamePngPreview }

func (PngPreviewDecode) Decode(_ context.Context, buf []byte) (image.Image, error) {
	off := container.PNGOffset(buf)
	if off < 0 {
		return nil, fail(ReasonNoData, "no PNG signature found")
	}
	img, err := png.Decode(bytes.NewReader(buf[off:]))
	if err != nil {
		return nil, fmt.Errorf("png at offset %d: %w", off, err)
	}
	return img, nil
}

// RawJpegDecode hands the whole buffer to an independent JPEG decoder.
// jpegn retries streams it does not support with image/jpeg itself, so
// its failures surface as jpeg.UnsupportedError or jpeg.FormatError as
// well as jpegn's own ErrNoJPEG and ErrSyntax.
type RawJpegDecode struct{}

func (RawJpegDecode) Name() string { return NameRawJpeg }

func (RawJpegDecode) Decode(_ context.Context, buf []byte) (image.Image, error) {
	return jpegn.Decode(bytes.NewReader(buf), &jpegn.Options{ToRGBA: true})
}
