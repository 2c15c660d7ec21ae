package filter

import (
	"context"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// Dilate takes the per-channel maximum over the positive-weight support of
// k centered at every pixel. A single bright pixel grows into the shape of
// the support.
func Dilate(ctx context.Context, src *raster.Raster, k *kernel.Kernel, opts Options) (*raster.Raster, error) {
	return morph(ctx, src, k, opts, true)
}

// Erode takes the per-channel minimum over the positive-weight support of k.
func Erode(ctx context.Context, src *raster.Raster, k *kernel.Kernel, opts Options) (*raster.Raster, error) {
	return morph(ctx, src, k, opts, false)
}

// Outside samples under BorderZero read as 0, so erosion darkens edges.
func morph(ctx context.Context, src *raster.Raster, k *kernel.Kernel, opts Options, dilate bool) (*raster.Raster, error) {
	if k.FullSupport() {
		return morphSeparable(ctx, src, k.Size(), opts, dilate)
	}
	return morphGeneral(ctx, src, k, opts, dilate)
}

// morphGeneral visits every support position of every pixel.
func morphGeneral(ctx context.Context, src *raster.Raster, k *kernel.Kernel, opts Options, dilate bool) (*raster.Raster, error) {
	w, h, c := src.Width(), src.Height(), src.Channels()
	size, r := k.Size(), k.Radius()
	support := k.Support()
	xs := opts.Border.Axis(w, r)
	ys := opts.Border.Axis(h, r)
	in := src.Samples()
	stride := w * c
	dst := raster.NewLike(src)
	out := dst.Samples()

	err := opts.pool().Rows(ctx, h, func(y0, y1 int) {
		var acc [4]uint8
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				acc = seed(dilate)
				for i := 0; i < size; i++ {
					sy := ys[y+i]
					for j := 0; j < size; j++ {
						if !support[i*size+j] {
							continue
						}
						sx := xs[x+j]
						for ch := 0; ch < c; ch++ {
							var v uint8
							if sy >= 0 && sx >= 0 {
								v = in[sy*stride+sx*c+ch]
							}
							acc[ch] = pick(acc[ch], v, dilate)
						}
					}
				}
				copy(out[y*stride+x*c:], acc[:c])
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// morphSeparable handles rectangular supports: the max (or min) over a
// rectangle is the max over rows of the max over columns.
func morphSeparable(ctx context.Context, src *raster.Raster, size int, opts Options, dilate bool) (*raster.Raster, error) {
	w, h, c := src.Width(), src.Height(), src.Channels()
	r := size / 2
	xs := opts.Border.Axis(w, r)
	ys := opts.Border.Axis(h, r)
	in := src.Samples()
	stride := w * c
	temp := make([]uint8, len(in))
	pool := opts.pool()

	err := pool.Rows(ctx, h, func(y0, y1 int) {
		var acc [4]uint8
		for y := y0; y < y1; y++ {
			row := in[y*stride : (y+1)*stride]
			for x := 0; x < w; x++ {
				acc = seed(dilate)
				for _, sx := range xs[x : x+size] {
					for ch := 0; ch < c; ch++ {
						var v uint8
						if sx >= 0 {
							v = row[sx*c+ch]
						}
						acc[ch] = pick(acc[ch], v, dilate)
					}
				}
				copy(temp[y*stride+x*c:], acc[:c])
			}
		}
	})
	if err != nil {
		return nil, err
	}

	dst := raster.NewLike(src)
	out := dst.Samples()
	err = pool.Rows(ctx, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := out[y*stride : (y+1)*stride]
			first := true
			for _, sy := range ys[y : y+size] {
				if sy < 0 {
					// A zero row decides both reductions outright.
					if !dilate {
						clear(row)
						first = false
						break
					}
					if first {
						clear(row)
						first = false
					}
					continue
				}
				line := temp[sy*stride : (sy+1)*stride]
				if first {
					copy(row, line)
					first = false
					continue
				}
				for i, v := range line {
					row[i] = pick(row[i], v, dilate)
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

func seed(dilate bool) [4]uint8 {
	if dilate {
		return [4]uint8{}
	}
	return [4]uint8{255, 255, 255, 255}
}

func pick(a, b uint8, dilate bool) uint8 {
	if dilate {
		return max(a, b)
	}
	return min(a, b)
}
