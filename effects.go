package aire

import (
	"context"
	"image/color"
	"math"

	"github.com/gogpu/aire/internal/enhance"
	"github.com/gogpu/aire/internal/tone"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// ColorMatrix is a 4×5 row-major matrix applied to straight RGBA samples
// in [0, 255]; the fifth column is an offset in the same range.
type ColorMatrix = tone.ColorMatrix

// Colour matrix constructors. Combine them with ColorMatrix.Then.
var (
	IdentityMatrix   = tone.IdentityMatrix
	BrightnessMatrix = tone.BrightnessMatrix
	ContrastMatrix   = tone.ContrastMatrix
	SaturationMatrix = tone.SaturationMatrix
	SepiaMatrix      = tone.SepiaMatrix
	InvertMatrix     = tone.InvertMatrix
	HueRotateMatrix  = tone.HueRotateMatrix
	OpacityMatrix    = tone.OpacityMatrix
)

// FocusShape selects the layout of the sharp region of a tilt-shift.
type FocusShape = enhance.FocusShape

// Focus shapes.
const (
	FocusRadial     = enhance.FocusRadial
	FocusHorizontal = enhance.FocusHorizontal
	FocusVertical   = enhance.FocusVertical
)

// TiltShiftOptions configures TiltShift. AnchorX and AnchorY are fractions
// of the width and height; FocusRadius is a fraction of the longer side.
type TiltShiftOptions struct {
	Sigma       float64
	Shape       FocusShape
	AnchorX     float64
	AnchorY     float64
	FocusRadius float64
}

// DefaultTiltShiftOptions returns a radial focus of radius 0.2 centered on
// the image with blur sigma 5.
func DefaultTiltShiftOptions() TiltShiftOptions {
	return TiltShiftOptions{Sigma: 5, Shape: FocusRadial, AnchorX: 0.5, AnchorY: 0.5, FocusRadius: 0.2}
}

func (o TiltShiftOptions) focus() enhance.Focus {
	return enhance.Focus{Shape: o.Shape, AnchorX: o.AnchorX, AnchorY: o.AnchorY, Radius: o.FocusRadius}
}

// WindStaggerOptions configures WindStagger. Strength is the longest
// stream as a fraction of the width in [-1, 1]; positive values squeeze
// rows towards the left edge. Clear fills the uncovered area; nil means
// transparent black.
type WindStaggerOptions struct {
	Strength float64
	Streams  int
	Clear    color.Color
	Seed     uint64
}

// DefaultWindStaggerOptions returns strength 0.2 over 20 streams.
func DefaultWindStaggerOptions() WindStaggerOptions {
	return WindStaggerOptions{Strength: 0.2, Streams: 20}
}

// clearSamples lays out c for a raster with the given channel count.
func clearSamples(c color.Color, channels int) []uint8 {
	if c == nil {
		return nil
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	switch channels {
	case 1:
		return []uint8{raster.Luma(n.R, n.G, n.B)}
	case 3:
		return []uint8{n.R, n.G, n.B}
	default:
		return []uint8{n.R, n.G, n.B, n.A}
	}
}

// EffectsPipeline holds colour and stylization effects.
type EffectsPipeline struct {
	e *engine
}

// ColorMatrix applies m to every pixel. Grayscale rasters are expanded to
// RGB for the product and reduced back to luma.
func (p EffectsPipeline) ColorMatrix(ctx context.Context, src *raster.Raster, m ColorMatrix) (*raster.Raster, error) {
	for _, v := range m {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, wrapError("color matrix", invalidf("non-finite coefficient %v", v))
		}
	}
	return p.e.run(ctx, "color matrix", src, func() (*raster.Raster, error) {
		return m.Apply(ctx, src, p.e.pool)
	})
}

// TiltShift blurs everything outside the focus region, imitating a tilted
// lens.
func (p EffectsPipeline) TiltShift(ctx context.Context, src *raster.Raster, opts TiltShiftOptions) (*raster.Raster, error) {
	if !(opts.Sigma > 0 && opts.Sigma <= kernel.MaxSigma) {
		return nil, wrapError("tilt-shift", invalidf("sigma %v outside (0, %v]", opts.Sigma, kernel.MaxSigma))
	}
	if err := opts.focus().Validate(); err != nil {
		return nil, wrapError("tilt-shift", err)
	}
	return p.e.run(ctx, "tilt-shift", src, func() (*raster.Raster, error) {
		return enhance.TiltShift(ctx, src, opts.Sigma, opts.focus(), p.e.filterOptions())
	})
}

// WindStagger smears rows sideways in streams as if blown by wind.
func (p EffectsPipeline) WindStagger(ctx context.Context, src *raster.Raster, opts WindStaggerOptions) (*raster.Raster, error) {
	return p.e.run(ctx, "wind stagger", src, func() (*raster.Raster, error) {
		return enhance.WindStagger(ctx, src, enhance.Wind{
			Strength: opts.Strength,
			Streams:  opts.Streams,
			Clear:    clearSamples(opts.Clear, src.Channels()),
			Seed:     opts.Seed,
		})
	})
}
