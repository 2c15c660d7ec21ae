package geometry

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/aire/raster"
)

// ErrSingular is returned for transforms that cannot be inverted.
var ErrSingular = errors.New("geometry: singular transform")

// Interpolation selects the resampling filter.
type Interpolation uint8

const (
	// Nearest picks the closest source pixel.
	Nearest Interpolation = iota
	// ApproxBilinear mixes nearest and bilinear; fast, medium quality.
	ApproxBilinear
	// Bilinear blends the four nearest source pixels.
	Bilinear
	// CatmullRom is a cubic filter; slowest, best quality.
	CatmullRom
)

var interpolationNames = [...]string{
	Nearest:        "nearest",
	ApproxBilinear: "approx-bilinear",
	Bilinear:       "bilinear",
	CatmullRom:     "catmull-rom",
}

func (i Interpolation) String() string {
	if int(i) < len(interpolationNames) {
		return interpolationNames[i]
	}
	return fmt.Sprintf("Interpolation(%d)", uint8(i))
}

// ParseInterpolation converts a filter name to an Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	for i, name := range interpolationNames {
		if s == name {
			return Interpolation(i), nil
		}
	}
	return 0, fmt.Errorf("geometry: unknown interpolation %q", s)
}

func (i Interpolation) interpolator() draw.Interpolator {
	switch i {
	case ApproxBilinear:
		return draw.ApproxBiLinear
	case Bilinear:
		return draw.BiLinear
	case CatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// Resize scales src to width×height.
func Resize(ctx context.Context, src *raster.Raster, width, height int, interp Interpolation) (*raster.Raster, error) {
	if err := raster.CheckGeometry(width, height, src.Channels()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := src.ToImage()
	dst := canvas(src, width, height)
	interp.interpolator().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return fromCanvas(dst, src.Channels())
}

// Warp maps src through m (source to destination coordinates) onto a
// width×height canvas. Destination pixels with no source are zero.
func Warp(ctx context.Context, src *raster.Raster, m Affine, width, height int, interp Interpolation) (*raster.Raster, error) {
	if err := raster.CheckGeometry(width, height, src.Channels()); err != nil {
		return nil, err
	}
	if _, ok := m.Invert(); !ok {
		return nil, ErrSingular
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := src.ToImage()
	dst := canvas(src, width, height)
	interp.interpolator().Transform(dst, m.Aff3(), img, img.Bounds(), draw.Src, nil)
	return fromCanvas(dst, src.Channels())
}

// Rotate turns src by angle radians around the source point (ax, ay) and
// centers that point on a width×height canvas.
func Rotate(ctx context.Context, src *raster.Raster, angle, ax, ay float64, width, height int, interp Interpolation) (*raster.Raster, error) {
	m := Translate(float64(width)/2, float64(height)/2).
		Multiply(RotateAround(angle, 0, 0)).
		Multiply(Translate(-ax, -ay))
	return Warp(ctx, src, m, width, height, interp)
}

// Crop copies the width×height region whose top-left corner is (x, y).
func Crop(src *raster.Raster, x, y, width, height int) (*raster.Raster, error) {
	if err := raster.CheckGeometry(width, height, src.Channels()); err != nil {
		return nil, err
	}
	if x < 0 || y < 0 || x+width > src.Width() || y+height > src.Height() {
		return nil, fmt.Errorf("%w: crop %dx%d at (%d,%d) from %v",
			raster.ErrOutOfBounds, width, height, x, y, src)
	}
	dst, _ := raster.New(width, height, src.Channels())
	c := src.Channels()
	for row := 0; row < height; row++ {
		copy(dst.Row(row), src.Row(y + row)[x*c:(x+width)*c])
	}
	return dst, nil
}

// canvas allocates an image of the kind ToImage produces for src.
func canvas(src *raster.Raster, width, height int) draw.Image {
	rect := image.Rect(0, 0, width, height)
	if src.Channels() == 1 {
		return image.NewGray(rect)
	}
	return image.NewNRGBA(rect)
}

func fromCanvas(img image.Image, channels int) (*raster.Raster, error) {
	r, err := raster.FromImage(img, channels == 4)
	if err != nil {
		return nil, err
	}
	if r.Channels() != channels {
		return r.ToChannels(channels)
	}
	return r, nil
}
