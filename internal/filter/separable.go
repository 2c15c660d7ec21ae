package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// convolveSeparable applies the horizontal factor into a float32 scratch
// plane and the vertical factor from there into the destination, reducing
// the cost from O(S²) to O(2S) per sample. The scratch plane keeps full
// precision so the result matches the direct path up to rounding.
func convolveSeparable(ctx context.Context, src *raster.Raster, horizontal, vertical []float32, opts Options) (*raster.Raster, error) {
	n := len(horizontal)
	if n == 0 || n%2 == 0 || len(vertical) != n {
		return nil, fmt.Errorf("%w: separable factors of length %d and %d",
			kernel.ErrInvalidKernelSize, len(horizontal), len(vertical))
	}

	w, h := src.Width(), src.Height()
	temp := getScratch(w * h * src.Channels())
	defer putScratch(temp)

	pool := opts.pool()
	if err := pool.Rows(ctx, h, func(y0, y1 int) {
		passHorizontal(src, temp, y0, y1, horizontal, opts.Border)
	}); err != nil {
		return nil, err
	}

	dst := raster.NewLike(src)
	if err := pool.Rows(ctx, h, func(y0, y1 int) {
		passVertical(temp, dst, y0, y1, vertical, opts.Border)
	}); err != nil {
		return nil, err
	}
	return dst, nil
}

// passHorizontal applies 1D horizontal convolution to rows [y0, y1).
// Reads from src, writes to temp.
func passHorizontal(src *raster.Raster, temp []float32, y0, y1 int, line []float32, border raster.Border) {
	w, c := src.Width(), src.Channels()
	r := len(line) / 2
	xs := border.Axis(w, r)
	in := src.Samples()
	stride := w * c

	var acc [4]float32
	for y := y0; y < y1; y++ {
		srcRow := in[y*stride : (y+1)*stride]
		tmpRow := temp[y*stride : (y+1)*stride]
		for x := 0; x < w; x++ {
			acc = [4]float32{}
			for k, weight := range line {
				sx := xs[x+k]
				if sx < 0 || weight == 0 {
					continue
				}
				p := srcRow[sx*c : sx*c+c]
				for ch, s := range p {
					acc[ch] += float32(s) * weight
				}
			}
			copy(tmpRow[x*c:x*c+c], acc[:c])
		}
	}
}

// passVertical applies 1D vertical convolution to rows [y0, y1).
// Reads from temp, writes to dst.
func passVertical(temp []float32, dst *raster.Raster, y0, y1 int, line []float32, border raster.Border) {
	w, h, c := dst.Width(), dst.Height(), dst.Channels()
	r := len(line) / 2
	ys := border.Axis(h, r)
	out := dst.Samples()
	stride := w * c

	acc := make([]float32, stride)
	for y := y0; y < y1; y++ {
		clear(acc)
		for k, weight := range line {
			sy := ys[y+k]
			if sy < 0 || weight == 0 {
				continue
			}
			// Whole-row accumulation keeps memory access sequential.
			for i, s := range temp[sy*stride : (sy+1)*stride] {
				acc[i] += s * weight
			}
		}
		row := out[y*stride : (y+1)*stride]
		for i, v := range acc {
			row[i] = toSample(v)
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

// scratchPool recycles float32 planes between separable passes.
var scratchPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 0, 1024*1024*4)}
	},
}

// maxPooledScratch caps the planes kept for reuse (64 MB).
const maxPooledScratch = 16 * 1024 * 1024

// getScratch returns a zeroed plane of exactly size elements.
func getScratch(size int) []float32 {
	buf := scratchPool.Get().(*floatBuffer)
	if cap(buf.data) < size {
		scratchPool.Put(buf)
		return make([]float32, size)
	}
	data := buf.data[:size]
	clear(data)
	return data
}

func putScratch(data []float32) {
	if cap(data) <= maxPooledScratch {
		scratchPool.Put(&floatBuffer{data: data[:0]})
	}
}
