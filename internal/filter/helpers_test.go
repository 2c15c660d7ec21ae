package filter

import (
	"math/rand/v2"
	"testing"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// newRaster creates a raster filled with the given per-channel values.
func newRaster(t testing.TB, w, h, c int, fill ...uint8) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h, c)
	if err != nil {
		t.Fatalf("raster.New(%d, %d, %d): %v", w, h, c, err)
	}
	if len(fill) > 0 {
		r.Fill(fill...)
	}
	return r
}

// noiseRaster returns a raster of deterministic pseudo-random samples.
func noiseRaster(t testing.TB, w, h, c int, seed uint64) *raster.Raster {
	t.Helper()
	r := newRaster(t, w, h, c)
	rng := rand.New(rand.NewPCG(seed, seed+1))
	s := r.Samples()
	for i := range s {
		s[i] = uint8(rng.IntN(256))
	}
	return r
}

func mustKernel(t testing.TB, size int, weights ...float32) *kernel.Kernel {
	t.Helper()
	k, err := kernel.New(size, weights)
	if err != nil {
		t.Fatalf("kernel.New(%d): %v", size, err)
	}
	return k
}

func sample(t testing.TB, r *raster.Raster, x, y, c int) uint8 {
	t.Helper()
	v, err := r.At(x, y, c)
	if err != nil {
		t.Fatalf("At(%d, %d, %d): %v", x, y, c, err)
	}
	return v
}

// maxDiff returns the largest absolute per-sample difference.
func maxDiff(a, b *raster.Raster) int {
	worst := 0
	bs := b.Samples()
	for i, v := range a.Samples() {
		d := int(v) - int(bs[i])
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst
}

var allBorders = []raster.Border{
	raster.BorderClamp,
	raster.BorderReflect,
	raster.BorderWrap,
	raster.BorderZero,
}
