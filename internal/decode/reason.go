package decode

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gen2brain/jpegn"
	"golang.org/x/image/tiff"
)

// Reason classifies why a strategy failed.
type Reason string

const (
	ReasonUnsupportedCompression Reason = "unsupported_compression"
	ReasonUnsupportedFeature     Reason = "unsupported_feature"
	ReasonMalformed              Reason = "malformed_data"
	ReasonNoData                 Reason = "no_data_found"
	ReasonNoPreview              Reason = "no_preview_found"
	ReasonEmptySurface           Reason = "empty_surface"
	ReasonUnknownFormat          Reason = "unknown_format"
	ReasonPanic                  Reason = "panic"
)

// ReasonError is an error that carries its own classification. Strategies
// return it when they know better than the generic classifier.
type ReasonError struct {
	Reason Reason
	Err    error
}

func (e *ReasonError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ReasonError) Unwrap() error { return e.Err }

func fail(reason Reason, format string, args ...any) error {
	return &ReasonError{Reason: reason, Err: fmt.Errorf(format, args...)}
}

// Classify maps a decoder error to a Reason.
func Classify(err error) Reason {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason
	}

	var (
		tiffUnsupported tiff.UnsupportedError
		tiffFormat      tiff.FormatError
		jpegUnsupported jpeg.UnsupportedError
		jpegFormat      jpeg.FormatError
		pngUnsupported  png.UnsupportedError
		pngFormat       png.FormatError
	)
	switch {
	case errors.Is(err, image.ErrFormat):
		return ReasonUnknownFormat
	case errors.As(err, &tiffUnsupported), errors.As(err, &jpegUnsupported), errors.As(err, &pngUnsupported):
		if strings.Contains(strings.ToLower(err.Error()), "compression") {
			return ReasonUnsupportedCompression
		}
		return ReasonUnsupportedFeature
	case errors.Is(err, jpegn.ErrNoJPEG):
		return ReasonNoData
	case errors.As(err, &tiffFormat), errors.As(err, &jpegFormat), errors.As(err, &pngFormat),
		errors.Is(err, jpegn.ErrSyntax), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return ReasonMalformed
	}
	return ReasonMalformed
}
