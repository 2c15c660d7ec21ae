package enhance

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gogpu/aire/raster"
)

// Wind describes a wind stagger: the rows are split into horizontal
// streams and every row is squeezed towards one edge by a random stream
// length shaped by a Gaussian across the stream, uncovering Clear behind
// it.
type Wind struct {
	// Strength is the longest stream as a fraction of the width, in
	// [-1, 1]. Positive values squeeze rows towards the left edge,
	// negative values towards the right edge.
	Strength float64
	// Streams is the number of row streams, at least 1.
	Streams int
	// Clear fills the uncovered samples, one value per channel. Missing
	// channels are zero.
	Clear []uint8
	// Seed makes the stream lengths reproducible.
	Seed uint64
}

// Validate reports whether the wind parameters are usable.
func (w Wind) Validate() error {
	if !(w.Strength >= -1 && w.Strength <= 1) {
		return fmt.Errorf("%w: wind strength %v outside [-1, 1]", ErrInvalidParameter, w.Strength)
	}
	if w.Streams < 1 {
		return fmt.Errorf("%w: wind streams %d must be positive", ErrInvalidParameter, w.Streams)
	}
	return nil
}

// WindStagger applies w to src. Rows past the last complete stream are
// copied unchanged.
func WindStagger(ctx context.Context, src *raster.Raster, w Wind) (*raster.Raster, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	width, height, c := src.Width(), src.Height(), src.Channels()
	if w.Streams > height {
		return nil, fmt.Errorf("%w: %d wind streams for %d rows", ErrInvalidParameter, w.Streams, height)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst := raster.NewLike(src)
	dst.Fill(w.Clear...)

	longest := min(int(float64(width)*math.Abs(w.Strength)), width-1)
	rows := height / w.Streams
	profile := streamProfile(rows)
	rng := rand.New(rand.NewPCG(w.Seed, w.Seed))

	y := 0
	for range w.Streams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := rng.IntN(longest + 1)
		for _, part := range profile {
			staggerRow(dst.Row(y), src.Row(y), c, int(part*float64(full)), w.Strength < 0)
			y++
		}
	}
	for ; y < height; y++ {
		copy(dst.Row(y), src.Row(y))
	}
	return dst, nil
}

// streamProfile returns n normalized Gaussian weights (sigma 1) centered
// on the stream.
func streamProfile(n int) []float64 {
	bell := distuv.Normal{Mu: float64(n-1) / 2, Sigma: 1}
	p := make([]float64, n)
	sum := 0.0
	for i := range p {
		p[i] = bell.Prob(float64(i))
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// staggerRow stretches src horizontally into width-n samples of dst with
// linear interpolation. The remaining n samples keep their clear value; they
// sit at the right end, or at the left end when toRight is set.
func staggerRow(dst, src []uint8, c, n int, toRight bool) {
	width := len(src) / c
	span := width - n
	scale := float64(width) / float64(span)
	offset := 0
	if toRight {
		offset = n
	}
	for i := 0; i < span; i++ {
		sx := float64(i) * scale
		x1 := min(int(sx), width-1)
		x2 := min(x1+1, width-1)
		f := sx - float64(x1)
		out := dst[(i+offset)*c : (i+offset+1)*c]
		for ch := range out {
			a, b := float64(src[x1*c+ch]), float64(src[x2*c+ch])
			out[ch] = clampSample(a + (b-a)*f)
		}
	}
}
