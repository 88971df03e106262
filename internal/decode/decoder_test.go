package decode

import (
	"context"
	"errors"
	"image"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func reasons(trail []Attempt) []Reason {
	out := make([]Reason, len(trail))
	for i, a := range trail {
		out[i] = a.Reason
	}
	return out
}

func TestDecodeStandardFormats(t *testing.T) {
	c := qt.New(t)
	d := New(Options{})

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"jpeg", jpegBytes(t, 8, 6, red)},
		{"png", pngBytes(t, 5, 3, blue)},
	} {
		c.Run(tc.name, func(c *qt.C) {
			res, err := d.Decode(context.Background(), tc.data)
			c.Assert(err, qt.IsNil)
			c.Assert(res.Strategy, qt.Equals, NameStandard)
			c.Assert(res.Trail, qt.HasLen, 0)
		})
	}

	res, err := d.Decode(context.Background(), pngBytes(t, 5, 3, blue))
	c.Assert(err, qt.IsNil)
	c.Assert(res.Surface.Width(), qt.Equals, 5)
	c.Assert(res.Surface.Height(), qt.Equals, 3)
	r, g, b := res.Surface.RGB(2, 1)
	c.Assert([]uint8{r, g, b}, qt.DeepEquals, []uint8{0, 0, 0xff})
}

func TestDecodeEmptyInput(t *testing.T) {
	c := qt.New(t)
	_, err := New(Options{}).Decode(context.Background(), nil)
	c.Assert(err, qt.ErrorIs, ErrEmptyInput)
}

func TestDecodeExhaustedTrail(t *testing.T) {
	c := qt.New(t)
	d := New(Options{})

	_, err := d.Decode(context.Background(), junk)
	c.Assert(err, qt.ErrorIs, ErrExhausted)

	var de *Error
	c.Assert(errors.As(err, &de), qt.IsTrue)
	c.Assert(de.Trail, qt.HasLen, 6)

	names := make([]string, len(de.Trail))
	for i, a := range de.Trail {
		names[i] = a.Strategy
	}
	c.Assert(names, qt.DeepEquals, d.StrategyNames())

	want := []Reason{
		ReasonUnknownFormat,
		ReasonMalformed,
		ReasonNoPreview,
		ReasonNoPreview,
		ReasonNoData,
		ReasonNoData,
	}
	if diff := cmp.Diff(want, reasons(de.Trail)); diff != "" {
		t.Errorf("trail reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeUnsupportedTiffCompression(t *testing.T) {
	c := qt.New(t)
	data := tiffWithCompression(t, 7)

	_, err := New(Options{}).Decode(context.Background(), data)
	var de *Error
	c.Assert(errors.As(err, &de), qt.IsTrue)
	c.Assert(de.Has(ReasonUnsupportedCompression), qt.IsTrue)
	c.Assert(de.Trail[1].Strategy, qt.Equals, NameTiff)
	c.Assert(de.Trail[1].Reason, qt.Equals, ReasonUnsupportedCompression)
	c.Assert(de.Trail[1].Detail, qt.Contains, "compression value 7")
}

func TestDecodeUncompressedTiff(t *testing.T) {
	c := qt.New(t)
	res, err := New(Options{}).Decode(context.Background(), tiffWithCompression(t, 1))
	c.Assert(err, qt.IsNil)
	c.Assert(res.Strategy, qt.Equals, NameStandard)
	c.Assert(res.Surface.Width(), qt.Equals, 4)
}

func TestDecodeEmbeddedPreview(t *testing.T) {
	c := qt.New(t)
	data := cat(junk, jpegBytes(t, 16, 8, green), junk)

	res, err := New(Options{}).Decode(context.Background(), data)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Strategy, qt.Equals, NameSinglePreview)
	c.Assert(res.Surface.Width(), qt.Equals, 16)
	c.Assert(res.Surface.Height(), qt.Equals, 8)
	c.Assert(reasons(res.Trail), qt.DeepEquals, []Reason{ReasonUnknownFormat, ReasonMalformed})
}

func TestDecodeFallsThroughToLargestPreview(t *testing.T) {
	c := qt.New(t)
	corrupt := []byte{0xff, 0xd8, 'b', 'a', 'd', 0xff, 0xd9}
	data := cat(junk, corrupt, jpegBytes(t, 8, 8, red), jpegBytes(t, 32, 16, blue))

	res, err := New(Options{}).Decode(context.Background(), data)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Strategy, qt.Equals, NameMultiPreview)
	c.Assert(res.Surface.Width(), qt.Equals, 32)
	c.Assert(res.Surface.Height(), qt.Equals, 16)
	c.Assert(res.Trail, qt.HasLen, 3)
	c.Assert(res.Trail[2].Reason, qt.Equals, ReasonMalformed)
}

func TestDecodeUnmatchedSOIContinues(t *testing.T) {
	c := qt.New(t)
	data := cat(junk, pngBytes(t, 3, 3, red), []byte{0xff, 0xd8}, junk)

	res, err := New(Options{}).Decode(context.Background(), data)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Strategy, qt.Equals, NamePngPreview)
	c.Assert(res.Trail[2].Reason, qt.Equals, ReasonNoPreview)
	c.Assert(res.Trail[3].Reason, qt.Equals, ReasonNoPreview)
}

type stubStrategy struct {
	name string
	fn   func() (image.Image, error)
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Decode(context.Context, []byte) (image.Image, error) { return s.fn() }

func TestDecodeStrategyBoundary(t *testing.T) {
	c := qt.New(t)
	ok := stubStrategy{"ok", func() (image.Image, error) { return solid(2, 2, red), nil }}

	for _, tc := range []struct {
		name   string
		first  stubStrategy
		reason Reason
	}{
		{"panic", stubStrategy{"boom", func() (image.Image, error) { panic("index out of range") }}, ReasonPanic},
		{"nil image", stubStrategy{"nil", func() (image.Image, error) { return nil, nil }}, ReasonEmptySurface},
		{"zero area", stubStrategy{"zero", func() (image.Image, error) {
			return image.NewNRGBA(image.Rect(0, 0, 0, 5)), nil
		}}, ReasonEmptySurface},
		{"tagged error", stubStrategy{"tagged", func() (image.Image, error) {
			return nil, fail(ReasonUnsupportedFeature, "interlaced")
		}}, ReasonUnsupportedFeature},
	} {
		c.Run(tc.name, func(c *qt.C) {
			d := New(Options{Strategies: []Strategy{tc.first, ok}})
			res, err := d.Decode(context.Background(), []byte{1})
			c.Assert(err, qt.IsNil)
			c.Assert(res.Strategy, qt.Equals, "ok")
			c.Assert(res.Trail, qt.HasLen, 1)
			c.Assert(res.Trail[0].Strategy, qt.Equals, tc.first.name)
			c.Assert(res.Trail[0].Reason, qt.Equals, tc.reason)
		})
	}
}

func TestDecodeCancelled(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	s := stubStrategy{"count", func() (image.Image, error) { calls++; return solid(1, 1, red), nil }}
	_, err := New(Options{Strategies: []Strategy{s}}).Decode(ctx, []byte{1})
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(calls, qt.Equals, 0)
}

func TestErrorMessage(t *testing.T) {
	c := qt.New(t)
	err := &Error{Trail: []Attempt{
		{Strategy: "A", Reason: ReasonNoData},
		{Strategy: "B", Reason: ReasonPanic},
	}}
	c.Assert(err.Error(), qt.Equals, "decode: all 2 strategies failed: A (no_data_found), B (panic)")
	c.Assert(err.Has(ReasonPanic), qt.IsTrue)
	c.Assert(err.Has(ReasonEmptySurface), qt.IsFalse)
}
