package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ironsheep/chroma-analyzer/internal/container"
	"github.com/ironsheep/chroma-analyzer/internal/decode"
	"github.com/ironsheep/chroma-analyzer/internal/exposure"
	"github.com/ironsheep/chroma-analyzer/internal/imaging"
	"github.com/ironsheep/chroma-analyzer/internal/metadata"
	"github.com/ironsheep/chroma-analyzer/internal/stats"
)

// ErrInvalidInput is returned for a zero-length buffer.
var ErrInvalidInput = errors.New("analysis: empty image buffer")

// Request is one image to analyze.
type Request struct {
	// Data is the complete file contents. It is never modified.
	Data []byte

	// FileName is a hint for reporting only. It never selects a decoder.
	FileName string

	// DeclaredSize is the size the caller expects Data to have. Zero skips
	// the check; a mismatch is logged, not rejected.
	DeclaredSize int64

	// Progress, if set, receives statistics-pass progress in [0, 1].
	Progress stats.Observer
}

// Options configures an Analyzer.
type Options struct {
	// TieBreak selects among equal-area embedded previews.
	TieBreak decode.TieBreak

	// Stats tunes the statistics pass. Its Observer is ignored; use
	// Request.Progress.
	Stats stats.Options

	// Clipping adds per-channel clipping fractions to each Result.
	Clipping bool

	// Logger receives pipeline logs. Nil discards them.
	Logger *slog.Logger

	// Now stamps AnalysisDate. Nil uses time.Now.
	Now func() time.Time
}

// Analyzer runs the pipeline. It is safe for concurrent use.
type Analyzer struct {
	decoder   *decode.Decoder
	extractor *metadata.Extractor
	stats     stats.Options
	clipping  bool
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	so := opts.Stats
	so.Observer = nil

	return &Analyzer{
		decoder:   decode.New(decode.Options{TieBreak: opts.TieBreak, Logger: logger}),
		extractor: metadata.NewExtractor(logger),
		stats:     so,
		clipping:  opts.Clipping,
		logger:    logger,
		now:       now,
	}
}

// Analyze runs both branches over req.Data and joins their results.
//
// Parameters:
//   - ctx: Cancels decoding between strategies and the statistics pass at its
//     yield checkpoints.
//   - req: The buffer and its reporting hints.
//
// Returns:
//   - *Result: The combined result; a decode failure is recorded in it.
//   - error: ErrInvalidInput for an empty buffer, or ctx.Err() on cancellation.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	if len(req.Data) == 0 {
		return nil, ErrInvalidInput
	}

	start := a.now()
	if req.DeclaredSize > 0 && req.DeclaredSize != int64(len(req.Data)) {
		a.logger.Warn("analysis.size.mismatch",
			"file", req.FileName,
			"declared", req.DeclaredSize,
			"actual", len(req.Data),
		)
	}

	res := &Result{
		FileName:      req.FileName,
		FileSizeBytes: int64(len(req.Data)),
		FileSize:      FormatFileSize(int64(len(req.Data))),
		ImageFormat:   imaging.Extension(req.FileName),
		AnalysisDate:  start.Format(time.RFC3339),
	}

	var (
		wg       sync.WaitGroup
		pixelErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pixelErr = a.pixels(ctx, req, res)
	}()
	go func() {
		defer wg.Done()
		md := a.extractor.Extract(req.Data)
		res.Metadata = md.Tags
		res.MetadataSource = md.Source
		res.MetadataAttempts = md.Attempts
		res.Values = exposure.FromMetadata(md.Tags)
	}()
	wg.Wait()

	if pixelErr != nil {
		return nil, pixelErr
	}

	a.logger.Info("analysis.done",
		"file", req.FileName,
		"format", res.FormatClass,
		"decoded", res.DecodeSucceeded,
		"strategy", strategyName(res),
		"metadata_source", res.MetadataSource,
		"tags", len(res.Metadata),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// pixels runs the sniff, decode and statistics branch, writing only the
// fields it owns.
func (a *Analyzer) pixels(ctx context.Context, req Request, res *Result) error {
	res.FormatClass = container.Sniff(req.Data)
	if res.FormatClass == container.Unclassified {
		st := container.Analyze(req.Data)
		res.Structure = &st
		a.logger.Debug("analysis.structure",
			"file", req.FileName,
			"valid_tiff", st.ValidTIFF,
			"likely_dng", st.LikelyDNG,
			"jpeg_markers", st.JPEGMarkers,
			"complete_previews", st.CompletePreviews,
			"hint", st.Hint,
		)
	}

	dec, err := a.decoder.Decode(ctx, req.Data)
	if err != nil {
		var de *decode.Error
		if !errors.As(err, &de) {
			return err
		}
		a.logger.Warn("analysis.decode.failed", "file", req.FileName, "error", de.Error())
		res.DecodeFailureTrail = de.Trail
		return nil
	}

	opts := a.stats
	opts.Observer = req.Progress
	st, err := stats.Compute(ctx, dec.Surface, opts)
	if err != nil {
		return err
	}

	name := dec.Strategy
	res.DecodeSucceeded = true
	res.DecodeStrategyUsed = &name
	res.DecodeFallbacks = dec.Trail
	res.Width = dec.Surface.Width()
	res.Height = dec.Surface.Height()
	res.Statistics = st
	summary := imaging.SummarizeColor(st.MeanR, st.MeanG, st.MeanB)
	res.MeanColor = &summary
	if a.clipping {
		c := imaging.Clipping(dec.Surface)
		res.Clipping = &c
	}
	res.surface = dec.Surface
	return nil
}

// Decode runs only the decoder.
func (a *Analyzer) Decode(ctx context.Context, data []byte) (*decode.Result, error) {
	if len(data) == 0 {
		return nil, ErrInvalidInput
	}
	return a.decoder.Decode(ctx, data)
}

// Metadata runs only the metadata branch.
func (a *Analyzer) Metadata(data []byte) (*metadata.Result, exposure.Values) {
	md := a.extractor.Extract(data)
	return md, exposure.FromMetadata(md.Tags)
}

func strategyName(r *Result) string {
	if r.DecodeStrategyUsed == nil {
		return ""
	}
	return *r.DecodeStrategyUsed
}
