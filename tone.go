package aire

import (
	"context"

	"github.com/gogpu/aire/internal/tone"
	"github.com/gogpu/aire/raster"
)

// ToneOptions configures the tone mapping operators.
type ToneOptions struct {
	// Exposure multiplies linear light before the curve; must be positive.
	Exposure float64
}

// DefaultToneOptions returns Exposure 1.0.
func DefaultToneOptions() ToneOptions {
	return ToneOptions{Exposure: tone.DefaultExposure}
}

// ToneCurve selects a tone mapping operator.
type ToneCurve = tone.Curve

// Tone mapping operators.
const (
	ToneLogarithmic = tone.CurveLogarithmic
	ToneAcesFilmic  = tone.CurveAcesFilmic
	ToneHejlBurgess = tone.CurveHejlBurgess
	ToneHableFilmic = tone.CurveHableFilmic
	ToneAcesHill    = tone.CurveAcesHill
	ToneExposure    = tone.CurveExposure
)

// ParseToneCurve converts a curve name ("logarithmic", "aces", "hejl",
// "hable", "aces-hill", "exposure").
func ParseToneCurve(s string) (ToneCurve, error) {
	c, err := tone.ParseCurve(s)
	if err != nil {
		return 0, wrapError("tone", err)
	}
	return c, nil
}

// TonePipeline maps high dynamic range content into the displayable range.
// Curves run in linear light; alpha is untouched.
type TonePipeline struct {
	e *engine
}

// ToneMap applies curve with the given options.
func (p TonePipeline) ToneMap(ctx context.Context, src *raster.Raster, curve ToneCurve, opts ToneOptions) (*raster.Raster, error) {
	op := curve.String() + " tone mapping"
	if err := tone.CheckExposure(opts.Exposure); err != nil {
		return nil, wrapError(op, err)
	}
	return p.e.run(ctx, op, src, func() (*raster.Raster, error) {
		return tone.Map(ctx, src, curve, opts.Exposure, p.e.pool)
	})
}

// LogarithmicToneMapping compresses luminance logarithmically.
func (p TonePipeline) LogarithmicToneMapping(ctx context.Context, src *raster.Raster, opts ToneOptions) (*raster.Raster, error) {
	return p.ToneMap(ctx, src, ToneLogarithmic, opts)
}

// AcesFilmicToneMapping applies the ACES filmic curve fit.
func (p TonePipeline) AcesFilmicToneMapping(ctx context.Context, src *raster.Raster, opts ToneOptions) (*raster.Raster, error) {
	return p.ToneMap(ctx, src, ToneAcesFilmic, opts)
}

// HejlBurgessToneMapping applies the Hejl and Burgess-Dawson curve.
func (p TonePipeline) HejlBurgessToneMapping(ctx context.Context, src *raster.Raster, opts ToneOptions) (*raster.Raster, error) {
	return p.ToneMap(ctx, src, ToneHejlBurgess, opts)
}

// HableFilmicToneMapping applies Hable's filmic operator.
func (p TonePipeline) HableFilmicToneMapping(ctx context.Context, src *raster.Raster, opts ToneOptions) (*raster.Raster, error) {
	return p.ToneMap(ctx, src, ToneHableFilmic, opts)
}

// AcesHillToneMapping applies the ACES RRT and ODT fit.
func (p TonePipeline) AcesHillToneMapping(ctx context.Context, src *raster.Raster, opts ToneOptions) (*raster.Raster, error) {
	return p.ToneMap(ctx, src, ToneAcesHill, opts)
}

// Exposure scales linear light. Unlike the tone mappers it has no default.
func (p TonePipeline) Exposure(ctx context.Context, src *raster.Raster, exposure float64) (*raster.Raster, error) {
	return p.ToneMap(ctx, src, ToneExposure, ToneOptions{Exposure: exposure})
}
