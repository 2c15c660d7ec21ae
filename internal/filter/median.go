package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// ErrInvalidParameter is returned for radii or sigmas outside their domain.
var ErrInvalidParameter = errors.New("filter: invalid parameter")

// Median replaces every sample with the median of its (2r+1)×(2r+1)
// neighborhood in the same channel.
//
// Each band keeps a 256-bin histogram per channel and slides it along the
// row, so moving one pixel costs 2(2r+1) histogram updates instead of a
// sort of the whole window. With BorderZero, outside samples count as 0.
func Median(ctx context.Context, src *raster.Raster, radius int, opts Options) (*raster.Raster, error) {
	if radius < 1 || radius > kernel.MaxRadius {
		return nil, fmt.Errorf("%w: median radius %d outside [1, %d]", ErrInvalidParameter, radius, kernel.MaxRadius)
	}

	w, h, c := src.Width(), src.Height(), src.Channels()
	xs := opts.Border.Axis(w, radius)
	ys := opts.Border.Axis(h, radius)
	in := src.Samples()
	stride := w * c
	win := 2*radius + 1
	rank := int32(win * win / 2)

	dst := raster.NewLike(src)
	out := dst.Samples()

	sample := func(sy, sx, ch int) uint8 {
		if sy < 0 || sx < 0 {
			return 0
		}
		return in[sy*stride+sx*c+ch]
	}

	err := opts.pool().Rows(ctx, h, func(y0, y1 int) {
		var hist [4][256]int32
		for y := y0; y < y1; y++ {
			rows := ys[y : y+win]
			for ch := 0; ch < c; ch++ {
				hst := &hist[ch]
				clear(hst[:])
				for _, sx := range xs[:win] {
					for _, sy := range rows {
						hst[sample(sy, sx, ch)]++
					}
				}

				for x := 0; x < w; x++ {
					out[y*stride+x*c+ch] = histRank(hst, rank)
					if x+1 == w {
						break
					}
					leave, enter := xs[x], xs[x+win]
					for _, sy := range rows {
						hst[sample(sy, leave, ch)]--
						hst[sample(sy, enter, ch)]++
					}
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// histRank returns the value whose cumulative count first exceeds rank.
func histRank(hist *[256]int32, rank int32) uint8 {
	var acc int32
	for v, n := range hist {
		acc += n
		if acc > rank {
			return uint8(v)
		}
	}
	return 255
}
