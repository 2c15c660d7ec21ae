package filter

import (
	"context"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// Convolve2D correlates every channel of src with k:
//
//	dst(x, y, c) = Σ_i Σ_j k[i][j] · src(x+j-r, y+i-r, c)
//
// where r is the kernel radius and outside samples follow opts.Border.
// It returns the method that actually ran alongside the result.
func Convolve2D(ctx context.Context, src *raster.Raster, k *kernel.Kernel, opts Options) (*raster.Raster, Method, error) {
	method := opts.Method
	var h, v []float32
	if method == MethodAuto || method == MethodSeparable {
		var err error
		h, v, err = k.Separate(kernel.DefaultSeparableTolerance)
		switch {
		case err == nil:
			method = MethodSeparable
		case method == MethodSeparable || k.Size() < fftMinSize:
			method = MethodDirect
		default:
			method = MethodFFT
		}
	}

	var (
		dst *raster.Raster
		err error
	)
	switch method {
	case MethodSeparable:
		dst, err = convolveSeparable(ctx, src, h, v, opts)
	case MethodFFT:
		dst, err = convolveFFT(ctx, src, k, opts)
	default:
		method = MethodDirect
		dst, err = convolveDirect(ctx, src, k, opts)
	}
	if err != nil {
		return nil, method, err
	}
	return dst, method, nil
}

// ConvolveSeparable runs horizontal then vertical 1D passes. Both factors
// must have the same odd length.
func ConvolveSeparable(ctx context.Context, src *raster.Raster, horizontal, vertical []float32, opts Options) (*raster.Raster, error) {
	return convolveSeparable(ctx, src, horizontal, vertical, opts)
}

// convolveDirect evaluates the full neighborhood for every sample.
func convolveDirect(ctx context.Context, src *raster.Raster, k *kernel.Kernel, opts Options) (*raster.Raster, error) {
	w, h, c := src.Width(), src.Height(), src.Channels()
	size, r := k.Size(), k.Radius()
	weights := k.Weights()
	xs := opts.Border.Axis(w, r)
	ys := opts.Border.Axis(h, r)

	dst := raster.NewLike(src)
	in, out := src.Samples(), dst.Samples()
	stride := w * c

	err := opts.pool().Rows(ctx, h, func(y0, y1 int) {
		var acc [4]float32
		for y := y0; y < y1; y++ {
			row := out[y*stride : (y+1)*stride]
			for x := 0; x < w; x++ {
				acc = [4]float32{}
				for i := 0; i < size; i++ {
					sy := ys[y+i]
					if sy < 0 {
						continue
					}
					base := sy * stride
					for j, wt := range weights[i*size : (i+1)*size] {
						if wt == 0 {
							continue
						}
						sx := xs[x+j]
						if sx < 0 {
							continue
						}
						p := in[base+sx*c : base+sx*c+c]
						for ch, s := range p {
							acc[ch] += wt * float32(s)
						}
					}
				}
				for ch := 0; ch < c; ch++ {
					row[x*c+ch] = toSample(acc[ch])
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
