package aire

import (
	"context"

	"github.com/gogpu/aire/internal/enhance"
	"github.com/gogpu/aire/internal/tone"
	"github.com/gogpu/aire/raster"
)

// RemoveShadowsOptions configures RemoveShadows.
type RemoveShadowsOptions struct {
	// KernelSize of the background dilation, in [3, 9]. Even sizes are
	// rounded up to the next odd size.
	KernelSize int
}

// DefaultRemoveShadowsOptions returns KernelSize 5.
func DefaultRemoveShadowsOptions() RemoveShadowsOptions {
	return RemoveShadowsOptions{KernelSize: enhance.DefaultShadowKernelSize}
}

// DehazeOptions configures Dehaze.
type DehazeOptions struct {
	// Radius of the dark channel window; must be positive.
	Radius int
	// Omega is the fraction of haze removed, in (0, 1].
	Omega float64
}

// DefaultDehazeOptions returns Radius 17 and Omega 0.45.
func DefaultDehazeOptions() DehazeOptions {
	return DehazeOptions{Radius: enhance.DefaultDehazeRadius, Omega: enhance.DefaultDehazeOmega}
}

// ProcessingPipeline holds restoration and document operations.
type ProcessingPipeline struct {
	e *engine
}

// RemoveShadows flattens uneven lighting on document photos.
func (p ProcessingPipeline) RemoveShadows(ctx context.Context, src *raster.Raster, opts RemoveShadowsOptions) (*raster.Raster, error) {
	if err := enhance.CheckShadowKernel(opts.KernelSize); err != nil {
		return nil, wrapError("remove shadows", err)
	}
	return p.e.run(ctx, "remove shadows", src, func() (*raster.Raster, error) {
		return enhance.RemoveShadows(ctx, src, opts.KernelSize, p.e.filterOptions())
	})
}

// Dehaze removes haze with the dark channel prior.
func (p ProcessingPipeline) Dehaze(ctx context.Context, src *raster.Raster, opts DehazeOptions) (*raster.Raster, error) {
	if err := enhance.CheckDehaze(opts.Radius, opts.Omega); err != nil {
		return nil, wrapError("dehaze", err)
	}
	return p.e.run(ctx, "dehaze", src, func() (*raster.Raster, error) {
		return enhance.Dehaze(ctx, src, opts.Radius, opts.Omega, p.e.filterOptions())
	})
}

// Grayscale returns the single channel Rec. 601 luma of src. Alpha is
// dropped.
func (p ProcessingPipeline) Grayscale(ctx context.Context, src *raster.Raster) (*raster.Raster, error) {
	return p.e.run(ctx, "grayscale", src, func() (*raster.Raster, error) {
		return src.ToChannels(1)
	})
}

// Threshold turns pixels with luma at least level white and the rest
// black, keeping the channel layout and alpha.
func (p ProcessingPipeline) Threshold(ctx context.Context, src *raster.Raster, level uint8) (*raster.Raster, error) {
	return p.e.run(ctx, "threshold", src, func() (*raster.Raster, error) {
		return tone.Threshold(ctx, src, level, p.e.pool)
	})
}
