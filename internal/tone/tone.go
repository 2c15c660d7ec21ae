// Package tone implements per-pixel colour operations: tone mapping curves
// evaluated in linear light, exposure, 4×5 colour matrices and
// thresholding.
//
// Colour channels are decoded from sRGB to linear light before a curve is
// applied and re-encoded afterwards. Alpha is never touched. Grayscale
// rasters are processed as equal R, G and B.
package tone

import (
	"context"
	"errors"
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/aire/internal/parallel"
	"github.com/gogpu/aire/raster"
)

// ErrInvalidParameter is returned for exposures or levels outside their
// domain.
var ErrInvalidParameter = errors.New("tone: invalid parameter")

// Curve selects a tone mapping operator.
type Curve uint8

const (
	// CurveLogarithmic compresses luminance with log(1 + L·e) / log(1 + e).
	CurveLogarithmic Curve = iota
	// CurveAcesFilmic is Narkowicz's fit of the ACES filmic curve.
	CurveAcesFilmic
	// CurveHejlBurgess is the Hejl and Burgess-Dawson filmic curve.
	CurveHejlBurgess
	// CurveHableFilmic is Hable's Uncharted 2 operator with white point 11.2.
	CurveHableFilmic
	// CurveAcesHill is Stephen Hill's RRT and ODT fit with the ACES
	// input and output matrices.
	CurveAcesHill
	// CurveExposure only scales linear light by the exposure.
	CurveExposure
)

var curveNames = [...]string{
	CurveLogarithmic: "logarithmic",
	CurveAcesFilmic:  "aces",
	CurveHejlBurgess: "hejl",
	CurveHableFilmic: "hable",
	CurveAcesHill:    "aces-hill",
	CurveExposure:    "exposure",
}

func (c Curve) String() string {
	if int(c) < len(curveNames) {
		return curveNames[c]
	}
	return fmt.Sprintf("Curve(%d)", uint8(c))
}

// ParseCurve converts a curve name to a Curve.
func ParseCurve(s string) (Curve, error) {
	for i, name := range curveNames {
		if s == name {
			return Curve(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tone curve %q", ErrInvalidParameter, s)
}

// DefaultExposure is the exposure used by the tone mapping presets.
const DefaultExposure = 1.0

// CheckExposure validates an exposure multiplier.
func CheckExposure(exposure float64) error {
	if !(exposure > 0) || math.IsInf(exposure, 0) {
		return fmt.Errorf("%w: exposure %v must be positive and finite", ErrInvalidParameter, exposure)
	}
	return nil
}

// linearLUT maps an 8-bit sRGB sample to linear light.
var linearLUT = func() (lut [256]float64) {
	for i := range lut {
		v := float64(i) / 255
		lut[i], _, _ = colorful.Color{R: v, G: v, B: v}.LinearRgb()
	}
	return lut
}()

// Map applies the tone curve to every colour sample of src.
// A nil pool processes rows on the calling goroutine.
func Map(ctx context.Context, src *raster.Raster, curve Curve, exposure float64, pool *parallel.Pool) (*raster.Raster, error) {
	if err := CheckExposure(exposure); err != nil {
		return nil, err
	}
	op, err := curveFunc(curve, exposure)
	if err != nil {
		return nil, err
	}

	c := src.Channels()
	dst := src.Clone()
	out := dst.Samples()
	stride := src.Stride()
	err = rows(ctx, pool, src.Height(), func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += c {
			px := out[i : i+c]
			var r, g, b float64
			if c == 1 {
				r = linearLUT[px[0]]
				g, b = r, r
			} else {
				r, g, b = linearLUT[px[0]], linearLUT[px[1]], linearLUT[px[2]]
			}
			r, g, b = op(r, g, b)
			er, eg, eb := colorful.LinearRgb(r, g, b).Clamped().RGB255()
			if c == 1 {
				px[0] = raster.Luma(er, eg, eb)
				continue
			}
			px[0], px[1], px[2] = er, eg, eb
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

type rgbFunc func(r, g, b float64) (float64, float64, float64)

func curveFunc(curve Curve, e float64) (rgbFunc, error) {
	switch curve {
	case CurveLogarithmic:
		return logarithmic(e), nil
	case CurveAcesFilmic:
		return perChannel(func(x float64) float64 { return acesFilm(x * e) }), nil
	case CurveHejlBurgess:
		return perChannel(func(x float64) float64 { return hejlBurgess(x * e) }), nil
	case CurveHableFilmic:
		white := hable(hableWhite)
		return perChannel(func(x float64) float64 { return hable(x*e*2) / white }), nil
	case CurveAcesHill:
		return acesHill(e), nil
	case CurveExposure:
		return perChannel(func(x float64) float64 { return x * e }), nil
	default:
		return nil, fmt.Errorf("%w: unknown tone curve %v", ErrInvalidParameter, curve)
	}
}

func perChannel(f func(float64) float64) rgbFunc {
	return func(r, g, b float64) (float64, float64, float64) {
		return f(r), f(g), f(b)
	}
}

func logarithmic(e float64) rgbFunc {
	den := 1 / math.Log(1+e)
	return func(r, g, b float64) (float64, float64, float64) {
		l := 0.299*r + 0.587*g + 0.114*b
		if l <= 0 {
			return 0, 0, 0
		}
		scale := math.Log(1+l*e) * den / l
		return r * scale, g * scale, b * scale
	}
}

func acesFilm(x float64) float64 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
}

// hejlBurgess produces a gamma 2.2 encoded value; it is returned to
// linear light so that every curve shares the sRGB encoder.
func hejlBurgess(x float64) float64 {
	x = max(0, x-0.004)
	v := (x * (6.2*x + 0.5)) / (x*(6.2*x+1.7) + 0.06)
	return math.Pow(v, 2.2)
}

const hableWhite = 11.2

func hable(x float64) float64 {
	const a, b, c, d, e, f = 0.15, 0.50, 0.10, 0.20, 0.02, 0.30
	return ((x*(a*x+c*b) + d*e) / (x*(a*x+b) + d*f)) - e/f
}

var (
	acesInput = [3][3]float64{
		{0.59719, 0.35458, 0.04823},
		{0.07600, 0.90834, 0.01566},
		{0.02840, 0.13383, 0.83777},
	}
	acesOutput = [3][3]float64{
		{1.60475, -0.53108, -0.07367},
		{-0.10208, 1.10813, -0.00605},
		{-0.00327, -0.07276, 1.07602},
	}
)

func acesHill(e float64) rgbFunc {
	fit := func(v float64) float64 {
		return (v*(v+0.0245786) - 0.000090537) / (v*(0.983729*v+0.4329510) + 0.238081)
	}
	return func(r, g, b float64) (float64, float64, float64) {
		r, g, b = mul3(&acesInput, r*e, g*e, b*e)
		r, g, b = mul3(&acesOutput, fit(r), fit(g), fit(b))
		return clamp01(r), clamp01(g), clamp01(b)
	}
}

func mul3(m *[3][3]float64, r, g, b float64) (float64, float64, float64) {
	return m[0][0]*r + m[0][1]*g + m[0][2]*b,
		m[1][0]*r + m[1][1]*g + m[1][2]*b,
		m[2][0]*r + m[2][1]*g + m[2][2]*b
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// rows runs fn over row bands on pool, or inline when pool is nil.
func rows(ctx context.Context, pool *parallel.Pool, n int, fn func(start, end int)) error {
	if pool != nil {
		return pool.Rows(ctx, n, fn)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fn(0, n)
	return nil
}
