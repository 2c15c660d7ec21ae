package enhance

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/raster"
)

func newRaster(t *testing.T, w, h, c int, fill ...uint8) *raster.Raster {
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

func TestCheckDehaze(t *testing.T) {
	tests := []struct {
		radius int
		omega  float64
		ok     bool
	}{
		{DefaultDehazeRadius, DefaultDehazeOmega, true},
		{1, 1, true},
		{0, 0.5, false},
		{-3, 0.5, false},
		{5, 0, false},
		{5, 1.01, false},
		{5, math.NaN(), false},
		{math.MaxInt, 0.5, false},
	}
	for _, tt := range tests {
		err := CheckDehaze(tt.radius, tt.omega)
		if tt.ok && err != nil {
			t.Errorf("CheckDehaze(%d, %v) = %v", tt.radius, tt.omega, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("CheckDehaze(%d, %v) = %v, want ErrInvalidParameter", tt.radius, tt.omega, err)
		}
	}
}

func TestDehaze_UniformUnchanged(t *testing.T) {
	src := newRaster(t, 12, 9, 4, 140, 150, 160, 90)
	dst, err := Dehaze(context.Background(), src, 2, DefaultDehazeOmega, filter.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(src) {
		t.Errorf("uniform raster changed: %v", dst.Pixel(3, 3))
	}
}

func TestDehaze_IncreasesContrast(t *testing.T) {
	// A one-pixel checkerboard of 0 and 100 seen through 50% haze of 200.
	src := newRaster(t, 16, 16, 3)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(100)
			if (x+y)%2 == 1 {
				v = 150
			}
			px := src.Pixel(x, y)
			px[0], px[1], px[2] = v, v, v
		}
	}
	dst, err := Dehaze(context.Background(), src, 1, DefaultDehazeOmega, filter.Options{})
	if err != nil {
		t.Fatal(err)
	}
	dark, bright := dst.Pixel(8, 8)[0], dst.Pixel(9, 8)[0]
	if int(bright)-int(dark) <= 50 {
		t.Errorf("contrast after dehaze = %d (%d..%d), want > 50", int(bright)-int(dark), dark, bright)
	}
}

func TestDehaze_InvalidParameters(t *testing.T) {
	src := newRaster(t, 4, 4, 3)
	if _, err := Dehaze(context.Background(), src, 0, 0.5, filter.Options{}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestRemoveShadows_UniformBecomesWhite(t *testing.T) {
	src := newRaster(t, 10, 10, 4, 80, 90, 100, 33)
	dst, err := RemoveShadows(context.Background(), src, DefaultShadowKernelSize, filter.Options{})
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			p := dst.Pixel(x, y)
			if p[0] != 255 || p[1] != 255 || p[2] != 255 || p[3] != 33 {
				t.Fatalf("(%d,%d) = %v, want white with alpha 33", x, y, p)
			}
		}
	}
}

func TestRemoveShadows_KeepsInkOnGradient(t *testing.T) {
	src := newRaster(t, 40, 40, 1)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			_ = src.Set(x, y, 0, uint8(120+3*x))
		}
	}
	for y := 20; y < 22; y++ {
		for x := 20; x < 22; x++ {
			_ = src.Set(x, y, 0, 20)
		}
	}
	dst, err := RemoveShadows(context.Background(), src, 5, filter.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if ink, _ := dst.At(20, 20, 0); ink > 64 {
		t.Errorf("ink = %d, want dark", ink)
	}
	if paper, _ := dst.At(5, 5, 0); paper < 200 {
		t.Errorf("paper = %d, want bright", paper)
	}
}

func TestRemoveShadows_KernelRange(t *testing.T) {
	src := newRaster(t, 4, 4, 3)
	for _, k := range []int{2, 10, -1} {
		if _, err := RemoveShadows(context.Background(), src, k, filter.Options{}); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("kernel %d: err = %v, want ErrInvalidParameter", k, err)
		}
	}
	for _, k := range []int{3, 4, 9} {
		if _, err := RemoveShadows(context.Background(), src, k, filter.Options{}); err != nil {
			t.Errorf("kernel %d: %v", k, err)
		}
	}
}

func TestEnhance_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := newRaster(t, 8, 8, 3, 1, 2, 3)
	if _, err := Dehaze(ctx, src, 2, 0.5, filter.Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("dehaze err = %v", err)
	}
	if _, err := RemoveShadows(ctx, src, 3, filter.Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("shadows err = %v", err)
	}
}

func checkerboard(t *testing.T, n, c int) *raster.Raster {
	t.Helper()
	r := newRaster(t, n, n, c)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 == 1 {
				px := r.Pixel(x, y)
				for ch := range px {
					px[ch] = 255
				}
			}
		}
	}
	return r
}

func TestTiltShift_FocusSharpEdgesBlurred(t *testing.T) {
	src := checkerboard(t, 40, 3)
	for _, shape := range []FocusShape{FocusRadial, FocusHorizontal, FocusVertical} {
		t.Run(shape.String(), func(t *testing.T) {
			focus := Focus{Shape: shape, AnchorX: 0.5, AnchorY: 0.5, Radius: 0.1}
			dst, err := TiltShift(context.Background(), src, 2, focus, filter.Options{})
			if err != nil {
				t.Fatal(err)
			}
			if got, want := dst.Pixel(20, 20)[0], src.Pixel(20, 20)[0]; got != want {
				t.Errorf("focused sample = %d, want %d", got, want)
			}
			// Far from the anchor the checkerboard is smeared towards gray.
			if v := dst.Pixel(5, 5)[0]; v < 50 || v > 205 {
				t.Errorf("(5, 5) = %d, want blurred gray", v)
			}
		})
	}
}

func TestTiltShift_BandKeepsAxis(t *testing.T) {
	src := checkerboard(t, 40, 1)
	focus := Focus{Shape: FocusHorizontal, AnchorX: 0, AnchorY: 0.5, Radius: 0.1}
	dst, err := TiltShift(context.Background(), src, 2, focus, filter.Options{})
	if err != nil {
		t.Fatal(err)
	}
	// The whole row through the anchor is sharp, whatever the x.
	for x := 0; x < 40; x++ {
		got, _ := dst.At(x, 20, 0)
		want, _ := src.At(x, 20, 0)
		if got != want {
			t.Fatalf("(%d, 20) = %d, want %d", x, got, want)
		}
	}
}

func TestTiltShift_Invalid(t *testing.T) {
	src := newRaster(t, 4, 4, 3)
	ok := Focus{AnchorX: 0.5, AnchorY: 0.5, Radius: 0.2}
	for _, sigma := range []float64{0, 1e300, math.Inf(1)} {
		if _, err := TiltShift(context.Background(), src, sigma, ok, filter.Options{}); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("sigma %v: err = %v", sigma, err)
		}
	}
	for _, f := range []Focus{
		{AnchorX: -0.1, AnchorY: 0.5, Radius: 0.2},
		{AnchorX: 0.5, AnchorY: 1.5, Radius: 0.2},
		{AnchorX: 0.5, AnchorY: 0.5, Radius: 0},
		{Shape: 7, AnchorX: 0.5, AnchorY: 0.5, Radius: 0.2},
	} {
		if _, err := TiltShift(context.Background(), src, 2, f, filter.Options{}); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: err = %v", f, err)
		}
	}
}

func TestParseFocusShape(t *testing.T) {
	for _, s := range []FocusShape{FocusRadial, FocusHorizontal, FocusVertical} {
		if got, err := ParseFocusShape(s.String()); err != nil || got != s {
			t.Errorf("ParseFocusShape(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseFocusShape("diagonal"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v", err)
	}
}

func TestWindStagger_ZeroStrengthCopies(t *testing.T) {
	src := checkerboard(t, 16, 4)
	dst, err := WindStagger(context.Background(), src, Wind{Strength: 0, Streams: 4, Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(src) {
		t.Error("zero strength changed the raster")
	}
}

func TestWindStagger_Deterministic(t *testing.T) {
	src := checkerboard(t, 32, 3)
	w := Wind{Strength: 0.5, Streams: 4, Clear: []uint8{10, 20, 30}, Seed: 42}
	a, err := WindStagger(context.Background(), src, w)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := WindStagger(context.Background(), src, w)
	if !a.Equal(b) {
		t.Error("same seed gave different output")
	}
}

// windRows checks that every row of dst is the source value followed by the
// clear value (or the reverse) and reports whether any clear sample showed.
func windRows(t *testing.T, dst *raster.Raster, bg, fill uint8, bgFirst bool) bool {
	t.Helper()
	uncovered := false
	for y := 0; y < dst.Height(); y++ {
		row := dst.Row(y)
		if bgFirst {
			row = append([]uint8(nil), row...)
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
		seenClear := false
		for x, v := range row {
			switch {
			case v == bg:
				seenClear, uncovered = true, true
			case v == fill && !seenClear:
			default:
				t.Fatalf("row %d sample %d = %d breaks the %d..%d layout", y, x, v, fill, bg)
			}
		}
	}
	return uncovered
}

func TestWindStagger_Direction(t *testing.T) {
	src := newRaster(t, 40, 9, 1, 100)
	for _, tt := range []struct {
		name     string
		strength float64
		right    bool
	}{
		{"left", 1, false},
		{"right", -1, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			uncovered := false
			for seed := range uint64(5) {
				dst, err := WindStagger(context.Background(), src, Wind{Strength: tt.strength, Streams: 1, Seed: seed})
				if err != nil {
					t.Fatal(err)
				}
				if windRows(t, dst, 0, 100, tt.right) {
					uncovered = true
				}
			}
			if !uncovered {
				t.Error("no seed uncovered the clear colour")
			}
		})
	}
}

func TestWindStagger_Invalid(t *testing.T) {
	src := newRaster(t, 8, 4, 3)
	for _, w := range []Wind{
		{Strength: 1.5, Streams: 2},
		{Strength: math.NaN(), Streams: 2},
		{Strength: 0.5, Streams: 0},
		{Strength: 0.5, Streams: 5},
	} {
		if _, err := WindStagger(context.Background(), src, w); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: err = %v", w, err)
		}
	}
}
