package filter

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// Bilateral applies an edge-preserving blur. Every neighbor is weighted by
//
//	exp(-(dx²+dy²) / 2σs²) · exp(-(v-v₀)² / 2σr²)
//
// per channel, and the sum is normalized per pixel because the weights
// depend on local content. The alpha channel of a 4-channel raster is
// copied unchanged. Samples outside the raster are skipped under
// BorderZero instead of being treated as black.
func Bilateral(ctx context.Context, src *raster.Raster, radius int, spatialSigma, rangeSigma float64, opts Options) (*raster.Raster, error) {
	switch {
	case radius < 1 || radius > kernel.MaxRadius:
		return nil, fmt.Errorf("%w: bilateral radius %d outside [1, %d]", ErrInvalidParameter, radius, kernel.MaxRadius)
	case !(spatialSigma > 0) || math.IsInf(spatialSigma, 0):
		return nil, fmt.Errorf("%w: bilateral spatial sigma %v", ErrInvalidParameter, spatialSigma)
	case !(rangeSigma > 0) || math.IsInf(rangeSigma, 0):
		return nil, fmt.Errorf("%w: bilateral range sigma %v", ErrInvalidParameter, rangeSigma)
	}

	w, h, c := src.Width(), src.Height(), src.Channels()
	win := 2*radius + 1
	spatial := make([]float32, win*win)
	ss := 2 * spatialSigma * spatialSigma
	for i := 0; i < win; i++ {
		for j := 0; j < win; j++ {
			dy, dx := float64(i-radius), float64(j-radius)
			spatial[i*win+j] = float32(math.Exp(-(dx*dx + dy*dy) / ss))
		}
	}
	var rangeLUT [256]float32
	rs := 2 * rangeSigma * rangeSigma
	for d := range rangeLUT {
		rangeLUT[d] = float32(math.Exp(-float64(d*d) / rs))
	}

	color := c
	if src.HasAlpha() {
		color = 3
	}
	xs := opts.Border.Axis(w, radius)
	ys := opts.Border.Axis(h, radius)
	in := src.Samples()
	stride := w * c
	dst := raster.NewLike(src)
	out := dst.Samples()

	err := opts.pool().Rows(ctx, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				center := y*stride + x*c
				for ch := 0; ch < color; ch++ {
					v0 := int(in[center+ch])
					var acc, norm float32
					for i := 0; i < win; i++ {
						sy := ys[y+i]
						if sy < 0 {
							continue
						}
						for j := 0; j < win; j++ {
							sx := xs[x+j]
							if sx < 0 {
								continue
							}
							v := int(in[sy*stride+sx*c+ch])
							d := v - v0
							if d < 0 {
								d = -d
							}
							wt := spatial[i*win+j] * rangeLUT[d]
							acc += wt * float32(v)
							norm += wt
						}
					}
					// The center always contributes weight 1, so norm > 0.
					out[center+ch] = toSample(acc / norm)
				}
				if color < c {
					out[center+3] = in[center+3]
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
