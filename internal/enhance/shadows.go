package enhance

import (
	"context"
	"fmt"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// Shadow removal parameters.
const (
	DefaultShadowKernelSize = 5
	MinShadowKernelSize     = 3
	MaxShadowKernelSize     = 9

	// backgroundMedianRadius smooths the dilated background estimate.
	backgroundMedianRadius = 10
)

// CheckShadowKernel validates the shadow removal kernel size.
func CheckShadowKernel(size int) error {
	if size < MinShadowKernelSize || size > MaxShadowKernelSize {
		return fmt.Errorf("%w: shadow kernel size %d outside [%d, %d]",
			ErrInvalidParameter, size, MinShadowKernelSize, MaxShadowKernelSize)
	}
	return nil
}

// RemoveShadows flattens uneven illumination on document-like images.
// For every colour plane the background is estimated as
// median(dilate(plane, kernelSize), 10); the result is the min-max
// normalized 255 - |plane - background|. Even kernel sizes are rounded up
// to the next odd size. Alpha is kept.
func RemoveShadows(ctx context.Context, src *raster.Raster, kernelSize int, opts filter.Options) (*raster.Raster, error) {
	if err := CheckShadowKernel(kernelSize); err != nil {
		return nil, err
	}
	k, err := kernel.StructuringKernel(kernelSize | 1)
	if err != nil {
		return nil, err
	}

	dst := src.Clone()
	for ch := 0; ch < src.ColorChannels(); ch++ {
		plane, err := src.Channel(ch)
		if err != nil {
			return nil, err
		}
		bg, err := filter.Dilate(ctx, plane, k, opts)
		if err != nil {
			return nil, err
		}
		bg, err = filter.Median(ctx, bg, backgroundMedianRadius, opts)
		if err != nil {
			return nil, err
		}
		if err := dst.SetChannel(ch, flatten(plane, bg)); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// flatten computes 255 - |plane - bg| and stretches it to [0, 255].
func flatten(plane, bg *raster.Raster) *raster.Raster {
	out := raster.NewLike(plane)
	ps, bs, res := plane.Samples(), bg.Samples(), out.Samples()
	lo, hi := uint8(255), uint8(0)
	for i, v := range ps {
		d := int(v) - int(bs[i])
		if d < 0 {
			d = -d
		}
		f := uint8(255 - d)
		res[i] = f
		lo, hi = min(lo, f), max(hi, f)
	}
	if hi == lo {
		return out
	}
	scale := 255 / float64(hi-lo)
	for i, v := range res {
		res[i] = clampSample(float64(v-lo) * scale)
	}
	return out
}
