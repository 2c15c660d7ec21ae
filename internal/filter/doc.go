// Package filter implements the neighborhood operations behind aire's
// convolution, blur and morphology pipelines.
//
// Linear filters go through Convolve2D, which picks one of three strategies:
//   - direct: O(w*h*c*S²) with precomputed border index tables
//   - separable: two 1D passes through a float32 scratch plane, O(w*h*c*S)
//   - FFT: border-padded planes multiplied in the frequency domain
//
// Non-linear filters (median, bilateral, dilate, erode) have their own
// neighborhood loops. Every operation reads an immutable source raster,
// writes a fresh destination, and splits output rows into bands that run
// on a parallel.Pool. Results are clamped to [0, 255] and rounded half up.
package filter
