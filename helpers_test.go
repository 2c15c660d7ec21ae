package aire

import (
	"testing"

	"github.com/gogpu/aire/raster"
)

// newFacade returns an Aire that is closed when the test ends.
func newFacade(t testing.TB, opts ...Option) *Aire {
	t.Helper()
	a := New(append([]Option{WithWorkers(2)}, opts...)...)
	t.Cleanup(a.Close)
	return a
}

// uniform returns a w×h raster with c channels filled with fill.
func uniform(t testing.TB, w, h, c int, fill ...uint8) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(fill) > 0 {
		r.Fill(fill...)
	}
	return r
}

// gradient returns a raster whose samples vary with position and channel.
func gradient(t testing.TB, w, h, c int) *raster.Raster {
	t.Helper()
	r := uniform(t, w, h, c)
	s := r.Samples()
	for i := range s {
		s[i] = uint8((i*7 + i/(w*c)*13) % 256)
	}
	return r
}

func allEqual(r *raster.Raster, v uint8) bool {
	for _, s := range r.Samples() {
		if s != v {
			return false
		}
	}
	return true
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// maxDiff returns the largest sample difference between two rasters of the
// same geometry.
func maxDiff(a, b *raster.Raster) int {
	d := 0
	bs := b.Samples()
	for i, v := range a.Samples() {
		d = max(d, absDiff(v, bs[i]))
	}
	return d
}
