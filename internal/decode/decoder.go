package decode

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/ironsheep/chroma-analyzer/internal/imaging"
)

var (
	// ErrEmptyInput is returned for a zero-length buffer.
	ErrEmptyInput = errors.New("decode: empty input buffer")

	// ErrExhausted matches an *Error: every strategy was attempted and failed.
	ErrExhausted = errors.New("decode: all strategies failed")
)

// Strategy is one way of turning a buffer into an image.
type Strategy interface {
	// Name identifies the strategy in results and failure trails.
	Name() string
	// Decode attempts to decode buf. It must not modify buf.
	Decode(ctx context.Context, buf []byte) (image.Image, error)
}

// Attempt records one failed strategy.
type Attempt struct {
	Strategy string `json:"strategy"`
	Reason   Reason `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

// Error reports that every strategy failed.
type Error struct {
	// Trail holds one Attempt per strategy, in the order they ran.
	Trail []Attempt
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Trail))
	for i, a := range e.Trail {
		parts[i] = fmt.Sprintf("%s (%s)", a.Strategy, a.Reason)
	}
	return fmt.Sprintf("decode: all %d strategies failed: %s", len(e.Trail), strings.Join(parts, ", "))
}

// Is reports whether target is ErrExhausted.
func (e *Error) Is(target error) bool { return target == ErrExhausted }

// Has reports whether any attempt failed for reason r.
func (e *Error) Has(r Reason) bool {
	for _, a := range e.Trail {
		if a.Reason == r {
			return true
		}
	}
	return false
}

// Result is a successful decode.
type Result struct {
	// Surface holds the decoded pixels.
	Surface *imaging.NRGBASurface
	// Strategy is the name of the strategy that produced Surface.
	Strategy string
	// Trail lists the strategies that failed before Strategy succeeded.
	Trail []Attempt
}

// Options configures a Decoder.
type Options struct {
	// TieBreak selects which embedded preview wins when two share the
	// largest area. The zero value is TieFirst.
	TieBreak TieBreak

	// Strategies replaces the default chain. Intended for tests and callers
	// with their own container knowledge.
	Strategies []Strategy

	// Logger receives per-attempt debug logs. Nil discards them.
	Logger *slog.Logger
}

// Decoder runs a fixed chain of strategies. It holds no per-request state
// and is safe for concurrent use.
type Decoder struct {
	strategies []Strategy
	logger     *slog.Logger
}

// New creates a Decoder with the default strategy chain, or opts.Strategies
// if set.
func New(opts Options) *Decoder {
	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies(opts.TieBreak)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Decoder{strategies: strategies, logger: logger}
}

// StrategyNames returns the names of the chain in order.
func (d *Decoder) StrategyNames() []string {
	names := make([]string, len(d.strategies))
	for i, s := range d.strategies {
		names[i] = s.Name()
	}
	return names
}

// Decode runs the strategy chain over buf until one succeeds.
//
// Returns:
//   - *Result: the decoded surface and the name of the winning strategy.
//   - error: ErrEmptyInput for an empty buffer, *Error (matching
//     ErrExhausted) when all strategies fail, or the context error if ctx is
//     cancelled between strategies.
func (d *Decoder) Decode(ctx context.Context, buf []byte) (*Result, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyInput
	}

	var trail []Attempt
	for _, s := range d.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := attempt(ctx, s, buf)
		if err == nil {
			if img == nil {
				err = fail(ReasonEmptySurface, "decoder returned no image")
			} else if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
				err = fail(ReasonEmptySurface, "decoded image is %dx%d", b.Dx(), b.Dy())
			}
		}

		if err != nil {
			a := Attempt{Strategy: s.Name(), Reason: Classify(err), Detail: err.Error()}
			d.logger.Debug("decode.attempt.failed", "strategy", a.Strategy, "reason", a.Reason, "detail", a.Detail)
			trail = append(trail, a)
			continue
		}

		d.logger.Debug("decode.attempt.succeeded",
			"strategy", s.Name(),
			"width", img.Bounds().Dx(),
			"height", img.Bounds().Dy(),
		)
		return &Result{Surface: imaging.NewSurface(img), Strategy: s.Name(), Trail: trail}, nil
	}

	return nil, &Error{Trail: trail}
}

// attempt runs one strategy, converting a panic into a ReasonPanic error.
// Third-party decoders are not all hardened against hostile input.
func attempt(ctx context.Context, s Strategy, buf []byte) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = &ReasonError{Reason: ReasonPanic, Err: fmt.Errorf("%v", r)}
		}
	}()
	return s.Decode(ctx, buf)
}
