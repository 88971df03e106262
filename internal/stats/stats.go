package stats

import (
	"context"
	"math"
	"runtime"

	"github.com/ironsheep/chroma-analyzer/internal/imaging"
)

// Defaults for Options fields left at zero.
const (
	// DefaultChromaticityGuard is the minimum r+g+b for a pixel to contribute
	// to chromaticity. With 8-bit input any non-black pixel passes.
	DefaultChromaticityGuard = 0.001

	// DefaultYieldThreshold is the pixel count above which the pass yields.
	DefaultYieldThreshold = 2_000_000

	// DefaultYieldInterval is the number of rows between checkpoints.
	DefaultYieldInterval = 1
)

// Observer receives progress notifications at yield checkpoints.
// Progress is purely observational and is called on the computing goroutine.
type Observer interface {
	Progress(fraction float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(fraction float64)

// Progress calls f(fraction).
func (f ObserverFunc) Progress(fraction float64) { f(fraction) }

// Options tunes a statistics pass. The zero value uses the defaults.
type Options struct {
	// ChromaticityGuard overrides DefaultChromaticityGuard when positive.
	ChromaticityGuard float64

	// YieldThreshold overrides DefaultYieldThreshold when positive.
	YieldThreshold int

	// YieldInterval overrides DefaultYieldInterval when positive.
	YieldInterval int

	// Observer, if set, is notified at each checkpoint and once at the end.
	Observer Observer
}

func (o Options) withDefaults() Options {
	if o.ChromaticityGuard <= 0 {
		o.ChromaticityGuard = DefaultChromaticityGuard
	}
	if o.YieldThreshold <= 0 {
		o.YieldThreshold = DefaultYieldThreshold
	}
	if o.YieldInterval <= 0 {
		o.YieldInterval = DefaultYieldInterval
	}
	return o
}

// Statistics holds the color statistics of one surface.
type Statistics struct {
	MeanR float64 `json:"meanR"`
	MeanG float64 `json:"meanG"`
	MeanB float64 `json:"meanB"`

	MeanRChroma float64 `json:"meanRChroma"`
	MeanGChroma float64 `json:"meanGChroma"`
	StdRChroma  float64 `json:"stdRChroma"`
	StdGChroma  float64 `json:"stdGChroma"`

	MaxR float64 `json:"maxR"`
	MaxG float64 `json:"maxG"`
	MaxB float64 `json:"maxB"`

	// PixelCount is always Width*Height of the surface.
	PixelCount int64 `json:"pixelCount"`
	// ChromaticityCount is the number of pixels that passed the guard.
	ChromaticityCount int64 `json:"chromaticityCount"`
}

// accumulator is the running state of one pass.
type accumulator struct {
	guard float64

	sumR, sumG, sumB uint64
	maxR, maxG, maxB uint8
	pixels           int64

	sumRc, sumGc     float64
	sumRc2, sumGc2   float64
	chromaticityHits int64
}

func (a *accumulator) add(r, g, b uint8) {
	a.sumR += uint64(r)
	a.sumG += uint64(g)
	a.sumB += uint64(b)
	a.pixels++

	if r > a.maxR {
		a.maxR = r
	}
	if g > a.maxG {
		a.maxG = g
	}
	if b > a.maxB {
		a.maxB = b
	}

	s := float64(r) + float64(g) + float64(b)
	if s > a.guard {
		rc := float64(r) / s
		gc := float64(g) / s
		a.sumRc += rc
		a.sumGc += gc
		a.sumRc2 += rc * rc
		a.sumGc2 += gc * gc
		a.chromaticityHits++
	}
}

func (a *accumulator) result() Statistics {
	st := Statistics{
		MaxR:              float64(a.maxR),
		MaxG:              float64(a.maxG),
		MaxB:              float64(a.maxB),
		PixelCount:        a.pixels,
		ChromaticityCount: a.chromaticityHits,
	}

	if a.pixels > 0 {
		n := float64(a.pixels)
		st.MeanR = float64(a.sumR) / n
		st.MeanG = float64(a.sumG) / n
		st.MeanB = float64(a.sumB) / n
	}

	if a.chromaticityHits > 0 {
		n := float64(a.chromaticityHits)
		st.MeanRChroma = a.sumRc / n
		st.MeanGChroma = a.sumGc / n
		st.StdRChroma = math.Sqrt(math.Max(0, a.sumRc2/n-st.MeanRChroma*st.MeanRChroma))
		st.StdGChroma = math.Sqrt(math.Max(0, a.sumGc2/n-st.MeanGChroma*st.MeanGChroma))
	}
	return st
}

// rowSurface is implemented by surfaces that expose packed RGBA rows, such
// as *imaging.NRGBASurface. It lets the pass skip per-pixel interface calls.
type rowSurface interface {
	Row(y int) []uint8
}

// Compute runs a single statistics pass over s.
//
// Parameters:
//   - ctx: Checked for cancellation at every checkpoint of a large pass.
//   - s: The surface to measure. A 0x0 surface yields all-zero Statistics.
//   - opts: Guard, scheduling and observer settings; zero values use defaults.
//
// Returns:
//   - Statistics: The complete statistics for every pixel of s.
//   - error: Non-nil only if ctx was cancelled mid-pass; the partial
//     accumulator is discarded.
//
// Compute does not modify s and is deterministic: two passes over the same
// surface produce bit-identical results.
func Compute(ctx context.Context, s imaging.Surface, opts Options) (Statistics, error) {
	opts = opts.withDefaults()

	w, h := s.Width(), s.Height()
	acc := accumulator{guard: opts.ChromaticityGuard}

	cooperative := int64(w)*int64(h) > int64(opts.YieldThreshold)
	rows, fast := s.(rowSurface)

	for y := 0; y < h; y++ {
		if cooperative && y > 0 && y%opts.YieldInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Statistics{}, err
			}
			runtime.Gosched()
			if opts.Observer != nil {
				opts.Observer.Progress(float64(y) / float64(h))
			}
		}

		if fast {
			row := rows.Row(y)
			for i := 0; i+3 < len(row); i += 4 {
				acc.add(row[i], row[i+1], row[i+2])
			}
			continue
		}
		for x := 0; x < w; x++ {
			acc.add(s.RGB(x, y))
		}
	}

	if cooperative {
		if err := ctx.Err(); err != nil {
			return Statistics{}, err
		}
	}
	if opts.Observer != nil {
		opts.Observer.Progress(1)
	}
	return acc.result(), nil
}
