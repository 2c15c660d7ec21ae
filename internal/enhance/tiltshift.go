package enhance

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// FocusShape selects how the sharp region of a tilt-shift is laid out.
type FocusShape uint8

const (
	// FocusRadial keeps a disc around the anchor sharp.
	FocusRadial FocusShape = iota
	// FocusHorizontal keeps a horizontal band through the anchor sharp.
	FocusHorizontal
	// FocusVertical keeps a vertical band through the anchor sharp.
	FocusVertical
)

var focusNames = [...]string{
	FocusRadial:     "radial",
	FocusHorizontal: "horizontal",
	FocusVertical:   "vertical",
}

func (s FocusShape) String() string {
	if int(s) < len(focusNames) {
		return focusNames[s]
	}
	return fmt.Sprintf("FocusShape(%d)", uint8(s))
}

// ParseFocusShape converts a shape name to a FocusShape.
func ParseFocusShape(name string) (FocusShape, error) {
	for i, n := range focusNames {
		if name == n {
			return FocusShape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown focus shape %q", ErrInvalidParameter, name)
}

// Focus describes the sharp region of a tilt-shift. Anchor coordinates are
// fractions of the image width and height; Radius is a fraction of the
// longer side.
type Focus struct {
	Shape   FocusShape
	AnchorX float64
	AnchorY float64
	Radius  float64
}

// Validate reports whether the focus region is usable.
func (f Focus) Validate() error {
	if int(f.Shape) >= len(focusNames) {
		return fmt.Errorf("%w: focus shape %d", ErrInvalidParameter, f.Shape)
	}
	if !(f.AnchorX >= 0 && f.AnchorX <= 1 && f.AnchorY >= 0 && f.AnchorY <= 1) {
		return fmt.Errorf("%w: focus anchor (%v, %v) outside [0, 1]", ErrInvalidParameter, f.AnchorX, f.AnchorY)
	}
	if !(f.Radius > 0 && f.Radius <= 1) {
		return fmt.Errorf("%w: focus radius %v outside (0, 1]", ErrInvalidParameter, f.Radius)
	}
	return nil
}

// TiltShift blends src with its Gaussian blur so that pixels inside the
// focus region stay sharp and the blur ramps in linearly over one more
// radius beyond it. Every channel, alpha included, is blended.
func TiltShift(ctx context.Context, src *raster.Raster, sigma float64, focus Focus, opts filter.Options) (*raster.Raster, error) {
	if !(sigma > 0 && sigma <= kernel.MaxSigma) {
		return nil, fmt.Errorf("%w: tilt-shift sigma %v outside (0, %v]", ErrInvalidParameter, sigma, kernel.MaxSigma)
	}
	if err := focus.Validate(); err != nil {
		return nil, err
	}
	kh, kv := kernel.CachedGaussian(sigma).Factors()
	blurred, err := filter.ConvolveSeparable(ctx, src, kh, kv, opts)
	if err != nil {
		return nil, err
	}

	w, h, c := src.Width(), src.Height(), src.Channels()
	ax, ay := focus.AnchorX*float64(w), focus.AnchorY*float64(h)
	radius := focus.Radius * float64(max(w, h))

	dst := raster.NewLike(src)
	in, bl, out := src.Samples(), blurred.Samples(), dst.Samples()
	for y := 0; y < h; y++ {
		py := float64(y) + 0.5
		for x := 0; x < w; x++ {
			px := float64(x) + 0.5
			var dist float64
			switch focus.Shape {
			case FocusHorizontal:
				dist = math.Abs(py - ay)
			case FocusVertical:
				dist = math.Abs(px - ax)
			default:
				dist = math.Hypot(px-ax, py-ay)
			}
			a := min(max(dist/radius-1, 0), 1)
			i := (y*w + x) * c
			for ch := i; ch < i+c; ch++ {
				s := float64(in[ch])
				out[ch] = clampSample(s + (float64(bl[ch])-s)*a)
			}
		}
	}
	return dst, nil
}
