package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/ironsheep/chroma-analyzer/internal/container"
)

// ErrAbsent is returned by Result.Err when no tags were found.
var ErrAbsent = errors.New("metadata: no tags found")

// Source names where a Result's tags came from.
type Source string

const (
	SourcePrimary         Source = "primary"
	SourceEmbeddedPreview Source = "embedded_preview"
	SourceNone            Source = "none"
)

// Strategy names recorded in Attempt.
const (
	StrategyPrimary         = "PrimaryExif"
	StrategyEmbeddedPreview = "EmbeddedPreviewExif"
)

// ImportantTags are the capture tags that make a tag set worth keeping.
var ImportantTags = []string{
	"ISOSpeedRatings",
	"ISO",
	"FNumber",
	"ExposureTime",
	"Make",
	"Model",
	"DateTimeOriginal",
}

// Attempt records one strategy run.
type Attempt struct {
	Strategy  string `json:"strategy"`
	Tags      int    `json:"tags"`
	Important bool   `json:"important"`
	Error     string `json:"error,omitempty"`
}

// Result is the outcome of an extraction.
type Result struct {
	Tags     Map       `json:"tags"`
	Source   Source    `json:"source"`
	Attempts []Attempt `json:"attempts"`
}

// Absent reports whether no tags were found.
func (r *Result) Absent() bool { return len(r.Tags) == 0 }

// Err returns ErrAbsent when no tags were found, nil otherwise.
func (r *Result) Err() error {
	if r.Absent() {
		return ErrAbsent
	}
	return nil
}

// Extractor pulls EXIF tags out of image buffers. It is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger discards logs.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{logger: logger}
}

// Extract reads tags from buf.
//
// The primary strategy parses the whole buffer (TIFF/DNG headers, raw Exif
// blocks and JPEG APP1 segments). The embedded-preview strategy runs only
// when the primary result holds none of ImportantTags, and parses the first
// complete JPEG span instead.
//
// Returns:
//   - *Result: never nil; Tags is non-nil even when empty.
func (e *Extractor) Extract(buf []byte) *Result {
	res := &Result{Tags: Map{}, Source: SourceNone}

	primary, a := run(StrategyPrimary, buf)
	res.Attempts = append(res.Attempts, a)
	if a.Important {
		res.Tags, res.Source = primary, SourcePrimary
		e.logger.Debug("metadata.extracted", "source", res.Source, "tags", len(res.Tags))
		return res
	}

	var fallback Map
	if span, ok := container.FirstJPEGSpan(buf); ok {
		fallback, a = run(StrategyEmbeddedPreview, span.Slice(buf))
	} else {
		a = Attempt{Strategy: StrategyEmbeddedPreview, Error: "no complete JPEG span"}
	}
	res.Attempts = append(res.Attempts, a)

	if len(fallback) > 0 {
		res.Tags, res.Source = fallback, SourceEmbeddedPreview
	}

	e.logger.Debug("metadata.extracted", "source", res.Source, "tags", len(res.Tags))
	return res
}

func run(name string, buf []byte) (Map, Attempt) {
	a := Attempt{Strategy: name}
	tags, err := parse(buf)
	if err != nil {
		a.Error = err.Error()
	}
	a.Tags = len(tags)
	a.Important = tags.HasAny(ImportantTags...)
	return tags, a
}

// parse decodes EXIF from buf. A partial decode with a non-critical error
// returns both the tags and the error.
func parse(buf []byte) (tags Map, err error) {
	defer func() {
		if r := recover(); r != nil {
			tags, err = nil, fmt.Errorf("exif: recovered from panic: %v", r)
		}
	}()

	x, err := exif.Decode(bytes.NewReader(buf))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil {
			err = errors.New("exif: decoder returned nothing")
		}
		return nil, err
	}

	c := &collector{tags: Map{}}
	if werr := x.Walk(c); werr != nil {
		return c.tags, werr
	}
	return c.tags, err
}
