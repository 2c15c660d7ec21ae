package filter

import (
	"context"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// convolveFFT pads every channel by the kernel radius according to the
// border policy, multiplies its spectrum with the kernel spectrum and
// crops the interior. With padding equal to the radius the circular
// wrap-around only touches the discarded margin, so no extra zero padding
// is needed.
func convolveFFT(ctx context.Context, src *raster.Raster, k *kernel.Kernel, opts Options) (*raster.Raster, error) {
	w, h, c := src.Width(), src.Height(), src.Channels()
	r, size := k.Radius(), k.Size()
	pw, ph := w+2*r, h+2*r
	pool := opts.pool()

	// Correlation weight w_d at offset d becomes convolution tap h[-d].
	spectrum := make([]complex128, pw*ph)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			wt := k.At(i, j)
			if wt == 0 {
				continue
			}
			yy := mod(r-i, ph)
			xx := mod(r-j, pw)
			spectrum[yy*pw+xx] = complex(float64(wt), 0)
		}
	}
	if err := fft2D(ctx, pool.Rows, spectrum, pw, ph, false); err != nil {
		return nil, err
	}

	xs := opts.Border.Axis(w, r)
	ys := opts.Border.Axis(h, r)
	in := src.Samples()
	dst := raster.NewLike(src)
	out := dst.Samples()
	plane := make([]complex128, pw*ph)

	for ch := 0; ch < c; ch++ {
		if err := pool.Rows(ctx, ph, func(y0, y1 int) {
			for yy := y0; yy < y1; yy++ {
				row := plane[yy*pw : (yy+1)*pw]
				sy := ys[yy]
				for xx := range row {
					sx := xs[xx]
					if sy < 0 || sx < 0 {
						row[xx] = 0
						continue
					}
					row[xx] = complex(float64(in[(sy*w+sx)*c+ch]), 0)
				}
			}
		}); err != nil {
			return nil, err
		}

		if err := fft2D(ctx, pool.Rows, plane, pw, ph, false); err != nil {
			return nil, err
		}
		for i := range plane {
			plane[i] *= spectrum[i]
		}
		if err := fft2D(ctx, pool.Rows, plane, pw, ph, true); err != nil {
			return nil, err
		}

		for y := 0; y < h; y++ {
			row := plane[(y+r)*pw+r : (y+r)*pw+r+w]
			for x, v := range row {
				out[(y*w+x)*c+ch] = toSample64(real(v))
			}
		}
	}
	return dst, nil
}

type rowRunner func(ctx context.Context, n int, fn func(start, end int)) error

// fft2D transforms a row-major pw×ph grid in place, rows first, then
// columns. The inverse transform is normalized so that a forward/inverse
// pair is the identity.
func fft2D(ctx context.Context, rows rowRunner, grid []complex128, pw, ph int, inverse bool) error {
	err := rows(ctx, ph, func(y0, y1 int) {
		t := newTransform(pw)
		for y := y0; y < y1; y++ {
			t.apply(grid[y*pw:(y+1)*pw], inverse)
		}
	})
	if err != nil {
		return err
	}
	return rows(ctx, pw, func(x0, x1 int) {
		t := newTransform(ph)
		col := make([]complex128, ph)
		for x := x0; x < x1; x++ {
			for y := range col {
				col[y] = grid[y*pw+x]
			}
			t.apply(col, inverse)
			for y, v := range col {
				grid[y*pw+x] = v
			}
		}
	})
}

// transform wraps a gonum complex FFT of one length together with the
// scale that turns its inverse into an exact inverse.
type transform struct {
	fft  *fourier.CmplxFFT
	buf  []complex128
	norm complex128
}

func newTransform(n int) *transform {
	t := &transform{
		fft: fourier.NewCmplxFFT(n),
		buf: make([]complex128, n),
	}
	// Probe the inverse scaling with a unit impulse rather than relying
	// on the library's normalization convention.
	impulse := make([]complex128, n)
	impulse[0] = 1
	coeff := t.fft.Coefficients(nil, impulse)
	back := t.fft.Sequence(nil, coeff)
	t.norm = complex(1/real(back[0]), 0)
	return t
}

func (t *transform) apply(seq []complex128, inverse bool) {
	if inverse {
		t.fft.Sequence(t.buf, seq)
		for i, v := range t.buf {
			seq[i] = v * t.norm
		}
		return
	}
	t.fft.Coefficients(t.buf, seq)
	copy(seq, t.buf)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
