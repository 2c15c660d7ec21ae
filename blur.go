package aire

import (
	"context"
	"math"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// Blur is a named blur preset. Validate reports parameters outside their
// domain; it is called before any allocation.
type Blur interface {
	Name() string
	Validate() error
	apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error)
}

// separable convolves src with the outer product of h and v. The 1D passes
// run unless WithMethod forced the direct or FFT strategy.
func (e *engine) separable(ctx context.Context, src *raster.Raster, h, v []float32) (*raster.Raster, error) {
	if m := e.cfg.method; m == MethodDirect || m == MethodFFT {
		k, err := kernel.Separable(h, v)
		if err != nil {
			return nil, err
		}
		dst, method, err := filter.Convolve2D(ctx, src, k, e.filterOptions())
		if err == nil {
			e.logger().Debug("aire: convolution method", "size", k.Size(), "method", method.String())
		}
		return dst, err
	}
	return filter.ConvolveSeparable(ctx, src, h, v, e.filterOptions())
}

// Box averages the (2·Radius+1)² neighborhood. It runs separably.
type Box struct {
	Radius int
}

func (Box) Name() string { return "box" }

func (b Box) Validate() error {
	if b.Radius < 1 || b.Radius > kernel.MaxRadius {
		return invalidf("box radius %d outside [1, %d]", b.Radius, kernel.MaxRadius)
	}
	return nil
}

func (b Box) apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error) {
	line := kernel.BoxLine(b.Radius)
	return e.separable(ctx, src, line, line)
}

// Tent weights the neighborhood with a triangle falling off linearly from
// the center. It runs separably.
type Tent struct {
	Radius int
}

func (Tent) Name() string { return "tent" }

func (t Tent) Validate() error {
	if t.Radius < 1 || t.Radius > kernel.MaxRadius {
		return invalidf("tent radius %d outside [1, %d]", t.Radius, kernel.MaxRadius)
	}
	return nil
}

func (t Tent) apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error) {
	line := kernel.TentLine(t.Radius)
	return e.separable(ctx, src, line, line)
}

// Gaussian blurs with a normalized Gaussian of standard deviation Sigma and
// size 2·ceil(3σ)+1. It runs separably.
type Gaussian struct {
	Sigma float64
}

func (Gaussian) Name() string { return "gaussian" }

func (g Gaussian) Validate() error {
	if !(g.Sigma > 0 && g.Sigma <= kernel.MaxSigma) {
		return invalidf("gaussian sigma %v outside (0, %v]", g.Sigma, kernel.MaxSigma)
	}
	return nil
}

func (g Gaussian) apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error) {
	h, v := kernel.CachedGaussian(g.Sigma).Factors()
	return e.separable(ctx, src, h, v)
}

// Bilateral is an edge-preserving blur that weights neighbors by spatial
// distance and by sample difference.
type Bilateral struct {
	Radius       int
	SpatialSigma float64
	RangeSigma   float64
}

// DefaultBilateral returns the bilateral defaults: radius 5, spatial sigma
// 3 and range sigma 30.
func DefaultBilateral() Bilateral {
	return Bilateral{Radius: 5, SpatialSigma: 3, RangeSigma: 30}
}

func (Bilateral) Name() string { return "bilateral" }

func (b Bilateral) Validate() error {
	switch {
	case b.Radius < 1 || b.Radius > kernel.MaxRadius:
		return invalidf("bilateral radius %d outside [1, %d]", b.Radius, kernel.MaxRadius)
	case !(b.SpatialSigma > 0) || math.IsInf(b.SpatialSigma, 0):
		return invalidf("bilateral spatial sigma %v must be positive", b.SpatialSigma)
	case !(b.RangeSigma > 0) || math.IsInf(b.RangeSigma, 0):
		return invalidf("bilateral range sigma %v must be positive", b.RangeSigma)
	}
	return nil
}

func (b Bilateral) apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error) {
	return filter.Bilateral(ctx, src, b.Radius, b.SpatialSigma, b.RangeSigma, e.filterOptions())
}

// Median replaces each sample with the median of its (2·Radius+1)²
// neighborhood.
type Median struct {
	Radius int
}

func (Median) Name() string { return "median" }

func (m Median) Validate() error {
	if m.Radius < 1 || m.Radius > kernel.MaxRadius {
		return invalidf("median radius %d outside [1, %d]", m.Radius, kernel.MaxRadius)
	}
	return nil
}

func (m Median) apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error) {
	return filter.Median(ctx, src, m.Radius, e.filterOptions())
}

// Bokeh averages over a disc, imitating an out-of-focus lens. The disc is
// not separable; large radii go through the FFT path.
type Bokeh struct {
	Radius int
}

func (Bokeh) Name() string { return "bokeh" }

func (b Bokeh) Validate() error {
	if b.Radius < 1 || b.Radius > kernel.MaxRadius {
		return invalidf("bokeh radius %d outside [1, %d]", b.Radius, kernel.MaxRadius)
	}
	return nil
}

func (b Bokeh) apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error) {
	k, err := kernel.CachedBokeh(b.Radius)
	if err != nil {
		return nil, err
	}
	dst, _, err := filter.Convolve2D(ctx, src, k, e.filterOptions())
	return dst, err
}

// Poisson blurs with a separable kernel drawn from a Poisson distribution.
// The same Seed always produces the same output.
type Poisson struct {
	Size int
	Seed uint64
}

func (Poisson) Name() string { return "poisson" }

func (p Poisson) Validate() error {
	if p.Size < 1 || p.Size%2 == 0 || p.Size > kernel.MaxLineSize {
		return invalidf("poisson size %d must be odd and in [1, %d]", p.Size, kernel.MaxLineSize)
	}
	return nil
}

func (p Poisson) apply(ctx context.Context, e *engine, src *raster.Raster) (*raster.Raster, error) {
	line, err := kernel.PoissonLine(p.Size, p.Seed)
	if err != nil {
		return nil, err
	}
	return e.separable(ctx, src, line, line)
}

// BlurPipeline applies the blur presets.
type BlurPipeline struct {
	e *engine
}

// Blur validates b and applies it to src.
func (p BlurPipeline) Blur(ctx context.Context, src *raster.Raster, b Blur) (*raster.Raster, error) {
	if b == nil {
		return nil, wrapError("blur", invalidf("nil blur"))
	}
	op := b.Name() + " blur"
	if err := b.Validate(); err != nil {
		return nil, wrapError(op, err)
	}
	return p.e.run(ctx, op, src, func() (*raster.Raster, error) {
		return b.apply(ctx, p.e, src)
	})
}

// BoxBlur applies Box{radius}.
func (p BlurPipeline) BoxBlur(ctx context.Context, src *raster.Raster, radius int) (*raster.Raster, error) {
	return p.Blur(ctx, src, Box{Radius: radius})
}

// TentBlur applies Tent{radius}.
func (p BlurPipeline) TentBlur(ctx context.Context, src *raster.Raster, radius int) (*raster.Raster, error) {
	return p.Blur(ctx, src, Tent{Radius: radius})
}

// GaussianBlur applies Gaussian{sigma}.
func (p BlurPipeline) GaussianBlur(ctx context.Context, src *raster.Raster, sigma float64) (*raster.Raster, error) {
	return p.Blur(ctx, src, Gaussian{Sigma: sigma})
}

// BilateralBlur applies b; see DefaultBilateral.
func (p BlurPipeline) BilateralBlur(ctx context.Context, src *raster.Raster, b Bilateral) (*raster.Raster, error) {
	return p.Blur(ctx, src, b)
}

// MedianBlur applies Median{radius}.
func (p BlurPipeline) MedianBlur(ctx context.Context, src *raster.Raster, radius int) (*raster.Raster, error) {
	return p.Blur(ctx, src, Median{Radius: radius})
}

// BokehBlur applies Bokeh{radius}.
func (p BlurPipeline) BokehBlur(ctx context.Context, src *raster.Raster, radius int) (*raster.Raster, error) {
	return p.Blur(ctx, src, Bokeh{Radius: radius})
}

// PoissonBlur applies Poisson{size, seed}.
func (p BlurPipeline) PoissonBlur(ctx context.Context, src *raster.Raster, size int, seed uint64) (*raster.Raster, error) {
	return p.Blur(ctx, src, Poisson{Size: size, Seed: seed})
}

// ParseBlur builds a preset from its name and a single strength value: a
// radius for box, tent, median and bokeh, sigma for gaussian, radius for
// bilateral (other fields default) and size for poisson.
func ParseBlur(name string, strength float64) (Blur, error) {
	r := int(math.Round(strength))
	var b Blur
	switch name {
	case "box":
		b = Box{Radius: r}
	case "tent":
		b = Tent{Radius: r}
	case "gaussian":
		b = Gaussian{Sigma: strength}
	case "bilateral":
		d := DefaultBilateral()
		d.Radius = r
		b = d
	case "median":
		b = Median{Radius: r}
	case "bokeh":
		b = Bokeh{Radius: r}
	case "poisson":
		b = Poisson{Size: r}
	default:
		return nil, invalidf("unknown blur %q", name)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
