package aire

import (
	"context"
	"image"
	"math"

	"github.com/gogpu/aire/internal/geometry"
	"github.com/gogpu/aire/raster"
)

// ScaleMode selects the resampling filter.
type ScaleMode = geometry.Interpolation

// Resampling filters.
const (
	ScaleNearest        = geometry.Nearest
	ScaleApproxBilinear = geometry.ApproxBilinear
	ScaleBilinear       = geometry.Bilinear
	ScaleCatmullRom     = geometry.CatmullRom
)

// ParseScaleMode converts a filter name ("nearest", "approx-bilinear",
// "bilinear", "catmull-rom").
func ParseScaleMode(s string) (ScaleMode, error) {
	m, err := geometry.ParseInterpolation(s)
	if err != nil {
		return 0, wrapError("scale", invalidf("%v", err))
	}
	return m, nil
}

// ScaleOptions configures Scale.
type ScaleOptions struct {
	Width  int
	Height int
	Mode   ScaleMode
}

// RotateOptions configures Rotate. The source point (AnchorX, AnchorY)
// lands on the center of a Width×Height output. Angle is in degrees,
// clockwise on screen.
type RotateOptions struct {
	Angle   float64
	AnchorX float64
	AnchorY float64
	Width   int
	Height  int
	Mode    ScaleMode
}

// ScalePipeline resamples rasters: scaling, cropping, rotation and affine
// warps. Destination pixels that no source pixel maps to are zero.
type ScalePipeline struct {
	e *engine
}

// Scale resizes src to opts.Width×opts.Height.
func (p ScalePipeline) Scale(ctx context.Context, src *raster.Raster, opts ScaleOptions) (*raster.Raster, error) {
	if src != nil {
		if err := raster.CheckGeometry(opts.Width, opts.Height, src.Channels()); err != nil {
			return nil, wrapError("scale", err)
		}
	}
	return p.e.run(ctx, "scale", src, func() (*raster.Raster, error) {
		return geometry.Resize(ctx, src, opts.Width, opts.Height, opts.Mode)
	})
}

// Crop copies the rectangle r of src.
func (p ScalePipeline) Crop(ctx context.Context, src *raster.Raster, r image.Rectangle) (*raster.Raster, error) {
	return p.e.run(ctx, "crop", src, func() (*raster.Raster, error) {
		return geometry.Crop(src, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	})
}

// Rotate turns src around an anchor point.
func (p ScalePipeline) Rotate(ctx context.Context, src *raster.Raster, opts RotateOptions) (*raster.Raster, error) {
	if math.IsNaN(opts.Angle) || math.IsInf(opts.Angle, 0) {
		return nil, wrapError("rotate", invalidf("angle %v", opts.Angle))
	}
	angle := opts.Angle * math.Pi / 180
	return p.e.run(ctx, "rotate", src, func() (*raster.Raster, error) {
		return geometry.Rotate(ctx, src, angle, opts.AnchorX, opts.AnchorY, opts.Width, opts.Height, opts.Mode)
	})
}

// WarpAffine maps src through a row-major 2×3 or 3×3 affine matrix from
// source to destination coordinates onto a width×height output.
func (p ScalePipeline) WarpAffine(ctx context.Context, src *raster.Raster, matrix []float64, width, height int, mode ScaleMode) (*raster.Raster, error) {
	m, ok := geometry.AffineFromMatrix(matrix)
	if !ok {
		return nil, wrapError("warp affine", invalidf("matrix of %d values is not affine", len(matrix)))
	}
	return p.e.run(ctx, "warp affine", src, func() (*raster.Raster, error) {
		return geometry.Warp(ctx, src, m, width, height, mode)
	})
}
