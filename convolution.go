package aire

import (
	"context"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// ConvolutionPipeline runs caller supplied kernels and morphology.
type ConvolutionPipeline struct {
	e *engine
}

// Convolve2D correlates src with a square kernel given as row-major
// weights. The length must be a perfect square with an odd root. Any size
// is accepted; the cost grows with the square of the size unless the
// kernel is separable or large enough for the FFT path.
func (p ConvolutionPipeline) Convolve2D(ctx context.Context, src *raster.Raster, weights []float32) (*raster.Raster, error) {
	k, err := kernel.FromSquare(weights)
	if err != nil {
		return nil, wrapError("convolve2d", err)
	}
	return p.ConvolveKernel(ctx, src, k)
}

// ConvolveKernel correlates src with k.
func (p ConvolutionPipeline) ConvolveKernel(ctx context.Context, src *raster.Raster, k *kernel.Kernel) (*raster.Raster, error) {
	if k == nil {
		return nil, wrapError("convolve2d", invalidf("nil kernel"))
	}
	var method Method
	dst, err := p.e.run(ctx, "convolve2d", src, func() (*raster.Raster, error) {
		dst, m, err := filter.Convolve2D(ctx, src, k, p.e.filterOptions())
		method = m
		return dst, err
	})
	if err == nil {
		p.e.logger().Debug("aire: convolution method", "size", k.Size(), "method", method.String())
	}
	return dst, err
}

// Dilate takes the maximum over the size×size square around each pixel.
func (p ConvolutionPipeline) Dilate(ctx context.Context, src *raster.Raster, size int) (*raster.Raster, error) {
	return p.DilateShape(ctx, src, kernel.ShapeRect, size)
}

// Erode takes the minimum over the size×size square around each pixel.
func (p ConvolutionPipeline) Erode(ctx context.Context, src *raster.Raster, size int) (*raster.Raster, error) {
	return p.ErodeShape(ctx, src, kernel.ShapeRect, size)
}

// DilateShape dilates with a structuring element of the given shape.
func (p ConvolutionPipeline) DilateShape(ctx context.Context, src *raster.Raster, shape kernel.Shape, size int) (*raster.Raster, error) {
	k, err := kernel.Structuring(shape, size)
	if err != nil {
		return nil, wrapError("dilate", err)
	}
	return p.DilateKernel(ctx, src, k)
}

// ErodeShape erodes with a structuring element of the given shape.
func (p ConvolutionPipeline) ErodeShape(ctx context.Context, src *raster.Raster, shape kernel.Shape, size int) (*raster.Raster, error) {
	k, err := kernel.Structuring(shape, size)
	if err != nil {
		return nil, wrapError("erode", err)
	}
	return p.ErodeKernel(ctx, src, k)
}

// DilateKernel dilates over the positive weights of k.
func (p ConvolutionPipeline) DilateKernel(ctx context.Context, src *raster.Raster, k *kernel.Kernel) (*raster.Raster, error) {
	if k == nil {
		return nil, wrapError("dilate", invalidf("nil kernel"))
	}
	return p.e.run(ctx, "dilate", src, func() (*raster.Raster, error) {
		return filter.Dilate(ctx, src, k, p.e.filterOptions())
	})
}

// ErodeKernel erodes over the positive weights of k.
func (p ConvolutionPipeline) ErodeKernel(ctx context.Context, src *raster.Raster, k *kernel.Kernel) (*raster.Raster, error) {
	if k == nil {
		return nil, wrapError("erode", invalidf("nil kernel"))
	}
	return p.e.run(ctx, "erode", src, func() (*raster.Raster, error) {
		return filter.Erode(ctx, src, k, p.e.filterOptions())
	})
}

// Convolve is the size-restricted entry point: size must be odd and within
// [kernel.MinSize, kernel.MaxSize], and weights holds either size values
// (applied as an outer product with itself) or size² values.
func (p ConvolutionPipeline) Convolve(ctx context.Context, src *raster.Raster, weights []float32, size int) (*raster.Raster, error) {
	k, err := kernel.FromWeights(weights, size)
	if err != nil {
		return nil, wrapError("convolve", err)
	}
	return p.ConvolveKernel(ctx, src, k)
}
