package tone

import (
	"context"

	"github.com/gogpu/aire/internal/parallel"
	"github.com/gogpu/aire/raster"
)

// Exposure scales linear light by exposure.
func Exposure(ctx context.Context, src *raster.Raster, exposure float64, pool *parallel.Pool) (*raster.Raster, error) {
	return Map(ctx, src, CurveExposure, exposure, pool)
}

// Threshold binarizes src on Rec. 601 luma: pixels whose luma is at least
// level become white, the rest black. Alpha is kept.
func Threshold(ctx context.Context, src *raster.Raster, level uint8, pool *parallel.Pool) (*raster.Raster, error) {
	c := src.Channels()
	dst := src.Clone()
	out := dst.Samples()
	stride := src.Stride()

	err := rows(ctx, pool, src.Height(), func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += c {
			px := out[i : i+c]
			l := px[0]
			if c >= 3 {
				l = raster.Luma(px[0], px[1], px[2])
			}
			v := uint8(0)
			if l >= level {
				v = 255
			}
			px[0] = v
			if c >= 3 {
				px[1], px[2] = v, v
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
