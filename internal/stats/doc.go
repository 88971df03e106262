// Package stats computes whole-image color statistics in a single streaming
// pass over a decoded surface.
//
// Every pixel is visited exactly once; there is no sampling. For each pixel
// (r, g, b) the engine accumulates:
//
//   - channel sums and the pixel count (for mean R, G, B)
//   - channel maxima, unconditionally
//   - chromaticity rc = r/(r+g+b) and gc = g/(r+g+b), their sums and sums of
//     squares, for pixels whose r+g+b exceeds the chromaticity guard
//
// Channel sums are kept as integers so means are exact for any image size a
// uint64 can count. Chromaticity variance is computed as E[x²] - E[x]² and
// clamped at zero, since rounding can push a true zero slightly negative.
//
// # Cooperative Scheduling
//
// Surfaces larger than Options.YieldThreshold pixels are still a single
// logical sweep, but at every checkpoint (each Options.YieldInterval rows) the
// engine checks the context for cancellation, yields the processor with
// runtime.Gosched, and reports progress to the Observer. Checkpoints never
// change the numbers; a cancelled pass returns the context error and its
// partial accumulator is dropped.
package stats
