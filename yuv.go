package aire

import (
	"context"
	"fmt"
	"image/color"

	"github.com/gogpu/aire/raster"
)

// YuvPipeline converts between rasters and NV21 buffers: a full
// resolution Y plane followed by interleaved V and U samples subsampled
// 2×2. Samples use full range BT.601 (JFIF), so width and height must be
// even.
type YuvPipeline struct {
	e *engine
}

// NV21Size returns the byte length of an NV21 buffer of the given size.
func NV21Size(width, height int) int {
	return width*height + width*height/2
}

func checkNV21(width, height int) error {
	if err := raster.CheckGeometry(width, height, 3); err != nil {
		return err
	}
	if width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: NV21 needs even dimensions, got %dx%d", raster.ErrInvalidDimensions, width, height)
	}
	return nil
}

// ToNV21 encodes src. Alpha is ignored; grayscale rasters get neutral
// chroma.
func (p YuvPipeline) ToNV21(ctx context.Context, src *raster.Raster) ([]byte, error) {
	if src == nil {
		return nil, wrapError("to nv21", invalidf("nil source raster"))
	}
	w, h, c := src.Width(), src.Height(), src.Channels()
	if err := checkNV21(w, h); err != nil {
		return nil, wrapError("to nv21", err)
	}
	out := make([]byte, NV21Size(w, h))
	in := src.Samples()
	vu := out[w*h:]

	rgb := func(x, y int) (uint8, uint8, uint8) {
		i := (y*w + x) * c
		if c == 1 {
			return in[i], in[i], in[i]
		}
		return in[i], in[i+1], in[i+2]
	}
	err := p.e.pool.Rows(ctx, h/2, func(r0, r1 int) {
		for by := r0; by < r1; by++ {
			for bx := 0; bx < w/2; bx++ {
				var cbSum, crSum int
				for dy := 0; dy < 2; dy++ {
					for dx := 0; dx < 2; dx++ {
						x, y := 2*bx+dx, 2*by+dy
						yy, cb, cr := color.RGBToYCbCr(rgb(x, y))
						out[y*w+x] = yy
						cbSum += int(cb)
						crSum += int(cr)
					}
				}
				j := by*w + 2*bx
				vu[j] = uint8((crSum + 2) / 4)
				vu[j+1] = uint8((cbSum + 2) / 4)
			}
		}
	})
	if err != nil {
		return nil, wrapError("to nv21", err)
	}
	return out, nil
}

// FromNV21 decodes an NV21 buffer into an RGB raster.
func (p YuvPipeline) FromNV21(ctx context.Context, data []byte, width, height int) (*raster.Raster, error) {
	if err := checkNV21(width, height); err != nil {
		return nil, wrapError("from nv21", err)
	}
	if len(data) < NV21Size(width, height) {
		return nil, wrapError("from nv21", fmt.Errorf("%w: %d bytes for %dx%d NV21",
			raster.ErrInvalidDimensions, len(data), width, height))
	}
	dst, err := raster.New(width, height, 3)
	if err != nil {
		return nil, wrapError("from nv21", err)
	}
	out := dst.Samples()
	vu := data[width*height:]
	err = p.e.pool.Rows(ctx, height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				j := (y/2)*width + (x &^ 1)
				r, g, b := color.YCbCrToRGB(data[y*width+x], vu[j+1], vu[j])
				i := (y*width + x) * 3
				out[i], out[i+1], out[i+2] = r, g, b
			}
		}
	})
	if err != nil {
		return nil, wrapError("from nv21", err)
	}
	p.e.logger().Debug("aire: operation", "op", "from nv21", "width", width, "height", height)
	return dst, nil
}
