package aire

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

var ctx = context.Background()

func TestBoxKernelOnConstant(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 5, 5, 1, 100)
	w := float32(1) / 9
	dst, err := a.Convolve2D(ctx, src, []float32{w, w, w, w, w, w, w, w, w})
	if err != nil {
		t.Fatal(err)
	}
	if !dst.SameGeometry(src) || !allEqual(dst, 100) {
		t.Errorf("box of constant 100 = %v", dst.Samples())
	}
}

func TestImpulseAverage(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 5, 5, 1)
	_ = src.Set(2, 2, 0, 255)
	w := float32(1) / 9
	dst, err := a.Convolve2D(ctx, src, []float32{w, w, w, w, w, w, w, w, w})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := dst.At(2, 2, 0); v != 28 {
		t.Errorf("center = %d, want round(255/9) = 28", v)
	}
	if v, _ := dst.At(0, 0, 0); v != 0 {
		t.Errorf("corner = %d, want 0", v)
	}
}

func TestIdentityKernels(t *testing.T) {
	a := newFacade(t)
	for _, c := range []int{1, 3, 4} {
		src := gradient(t, 7, 6, c)
		for _, weights := range [][]float32{{1}, {0, 0, 0, 0, 1, 0, 0, 0, 0}} {
			dst, err := a.Convolve2D(ctx, src, weights)
			if err != nil {
				t.Fatal(err)
			}
			if !dst.Equal(src) {
				t.Errorf("%d channels, %d weights: identity changed the raster", c, len(weights))
			}
		}
	}
}

// allocatedBytes reports the heap bytes allocated while fn runs.
func allocatedBytes(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestInvalidKernelAllocatesNoOutput(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 512, 512, 4, 1, 2, 3, 4)
	size := uint64(len(src.Samples()))

	for _, weights := range [][]float32{make([]float32, 16), make([]float32, 10), nil} {
		var err error
		n := allocatedBytes(func() { _, err = a.Convolve2D(ctx, src, weights) })
		if !errors.Is(err, ErrInvalidKernelSize) {
			t.Fatalf("%d weights: err = %v", len(weights), err)
		}
		if n >= size/8 {
			t.Errorf("%d weights: rejected kernel allocated %d bytes for a %d byte raster", len(weights), n, size)
		}
	}

	// The measurement does see an output raster.
	identity := []float32{0, 0, 0, 0, 1, 0, 0, 0, 0}
	if n := allocatedBytes(func() { _, _ = a.Convolve2D(ctx, src, identity) }); n < size {
		t.Errorf("valid kernel allocated only %d bytes", n)
	}
}

func TestConvolveKernelErrors(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 4, 4, 1)

	tests := []struct {
		name    string
		weights []float32
	}{
		{"even size", make([]float32, 16)},
		{"not square", make([]float32, 10)},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Convolve2D(ctx, src, tt.weights); !errors.Is(err, ErrInvalidKernelSize) {
				t.Errorf("err = %v, want ErrInvalidKernelSize", err)
			}
		})
	}

	if _, err := a.Convolve(ctx, src, make([]float32, 121), 11); !errors.Is(err, ErrInvalidKernelSize) {
		t.Errorf("size 11 err = %v, want ErrInvalidKernelSize", err)
	}
	if _, err := a.Convolve(ctx, src, []float32{0.25, 0.5, 0.25}, 3); err != nil {
		t.Errorf("1D size 3: %v", err)
	}
}

func TestDilateSpreadsBrightPixel(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 7, 7, 1)
	_ = src.Set(3, 3, 0, 255)
	dst, err := a.Dilate(ctx, src, 3)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			want := uint8(0)
			if x >= 2 && x <= 4 && y >= 2 && y <= 4 {
				want = 255
			}
			if v, _ := dst.At(x, y, 0); v != want {
				t.Errorf("(%d,%d) = %d, want %d", x, y, v, want)
			}
		}
	}

	eroded, err := a.Erode(ctx, dst, 3)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := eroded.At(3, 3, 0); v != 255 {
		t.Errorf("opening lost the center: %d", v)
	}
	if v, _ := eroded.At(2, 2, 0); v != 0 {
		t.Errorf("erode kept (2,2) = %d", v)
	}
}

func TestDilateEvenSize(t *testing.T) {
	a := newFacade(t)
	if _, err := a.Dilate(ctx, uniform(t, 4, 4, 1), 4); !errors.Is(err, ErrInvalidKernelSize) {
		t.Errorf("err = %v, want ErrInvalidKernelSize", err)
	}
}

func TestBlurPresetsKeepConstant(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 24, 20, 4, 100, 150, 200, 255)
	presets := []Blur{
		Box{Radius: 3},
		Tent{Radius: 2},
		Gaussian{Sigma: 1.5},
		DefaultBilateral(),
		Median{Radius: 2},
		Bokeh{Radius: 2},
		Bokeh{Radius: 5},
		Poisson{Size: 5, Seed: 7},
	}
	for _, b := range presets {
		t.Run(b.Name(), func(t *testing.T) {
			dst, err := a.Blur(ctx, src, b)
			if err != nil {
				t.Fatal(err)
			}
			if !dst.Equal(src) {
				t.Errorf("%s changed a constant raster: %v", b.Name(), dst.Pixel(10, 10))
			}
		})
	}
}

func TestBlurValidation(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 4, 4, 3)
	invalid := []Blur{
		Box{},
		Tent{Radius: -1},
		Gaussian{},
		Bilateral{Radius: 5, SpatialSigma: 0, RangeSigma: 30},
		Bilateral{Radius: 0, SpatialSigma: 3, RangeSigma: 30},
		Median{},
		Bokeh{Radius: -2},
		Poisson{Size: 4},
	}
	for _, b := range invalid {
		if _, err := a.Blur(ctx, src, b); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%#v: err = %v, want ErrInvalidParameter", b, err)
		}
	}
	if _, err := a.Blur(ctx, src, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("nil blur: err = %v", err)
	}
}

func TestOversizedParameters(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 4, 4, 3)
	huge := math.MaxInt / 2
	invalid := []Blur{
		Box{Radius: huge},
		Box{Radius: kernel.MaxRadius + 1},
		Tent{Radius: huge},
		Gaussian{Sigma: 1e300},
		Gaussian{Sigma: math.Inf(1)},
		Gaussian{Sigma: math.NaN()},
		Bilateral{Radius: huge, SpatialSigma: 3, RangeSigma: 30},
		Median{Radius: huge},
		Bokeh{Radius: huge},
		Poisson{Size: huge | 1},
	}
	for _, b := range invalid {
		if _, err := a.Blur(ctx, src, b); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%#v: err = %v, want ErrInvalidParameter", b, err)
		}
	}
	if _, err := a.Dehaze(ctx, src, DehazeOptions{Radius: huge, Omega: 0.5}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("dehaze: err = %v", err)
	}
	opts := DefaultTiltShiftOptions()
	opts.Sigma = 1e300
	if _, err := a.TiltShift(ctx, src, opts); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("tilt-shift: err = %v", err)
	}
	if _, err := a.Dilate(ctx, src, huge|1); !errors.Is(err, ErrInvalidKernelSize) {
		t.Errorf("dilate: err = %v", err)
	}

	// The limits themselves are accepted.
	if _, err := a.GaussianBlur(ctx, src, kernel.MaxSigma); err != nil {
		t.Errorf("sigma at the limit: %v", err)
	}
}

func TestForcedMethodReachesBlurs(t *testing.T) {
	src := gradient(t, 24, 20, 3)
	want, err := newFacade(t).GaussianBlur(ctx, src, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []Method{MethodDirect, MethodFFT} {
		t.Run(m.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			a := newFacade(t, WithMethod(m), WithLogger(l))

			got, err := a.GaussianBlur(ctx, src, 1.5)
			if err != nil {
				t.Fatal(err)
			}
			if d := maxDiff(got, want); d > 1 {
				t.Errorf("max difference from separable = %d", d)
			}
			if _, err := a.BoxBlur(ctx, src, 2); err != nil {
				t.Fatal(err)
			}
			if n := strings.Count(buf.String(), "method="+m.String()); n != 2 {
				t.Errorf("%d records with method=%s in %q", n, m, buf.String())
			}
		})
	}
}

func TestMedianRemovesOutlier(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 5, 5, 1, 50)
	_ = src.Set(2, 2, 0, 255)
	dst, err := a.MedianBlur(ctx, src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !allEqual(dst, 50) {
		t.Errorf("outlier survived: %v", dst.Samples())
	}
}

func TestGaussianBlurSmooths(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 9, 9, 1)
	_ = src.Set(4, 4, 0, 255)
	dst, err := a.GaussianBlur(ctx, src, 1)
	if err != nil {
		t.Fatal(err)
	}
	center, _ := dst.At(4, 4, 0)
	near, _ := dst.At(5, 4, 0)
	far, _ := dst.At(7, 4, 0)
	if !(center > near && near > far) {
		t.Errorf("profile %d, %d, %d is not decreasing", center, near, far)
	}
}

func TestSourceNotMutated(t *testing.T) {
	a := newFacade(t)
	src := gradient(t, 16, 12, 4)
	orig := src.Clone()
	ops := map[string]func() error{
		"box":       func() error { _, err := a.BoxBlur(ctx, src, 2); return err },
		"bilateral": func() error { _, err := a.BilateralBlur(ctx, src, DefaultBilateral()); return err },
		"dilate":    func() error { _, err := a.Dilate(ctx, src, 3); return err },
		"tone":      func() error { _, err := a.HableFilmicToneMapping(ctx, src, DefaultToneOptions()); return err },
		"dehaze":    func() error { _, err := a.Dehaze(ctx, src, DehazeOptions{Radius: 2, Omega: 0.5}); return err },
		"shadows": func() error {
			_, err := a.RemoveShadows(ctx, src, DefaultRemoveShadowsOptions())
			return err
		},
		"matrix": func() error { _, err := a.ColorMatrix(ctx, src, SepiaMatrix()); return err },
		"scale":  func() error { _, err := a.Scale(ctx, src, ScaleOptions{Width: 5, Height: 5}); return err },
	}
	for name, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !src.Equal(orig) {
			t.Fatalf("%s mutated its source", name)
		}
	}
}

func TestRemoveShadowsKernelRange(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 8, 8, 3, 200, 200, 200)
	for _, k := range []int{0, 2, 10} {
		if _, err := a.RemoveShadows(ctx, src, RemoveShadowsOptions{KernelSize: k}); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("kernel %d: err = %v, want ErrInvalidParameter", k, err)
		}
	}
	if DefaultRemoveShadowsOptions().KernelSize != 5 {
		t.Errorf("default kernel = %d, want 5", DefaultRemoveShadowsOptions().KernelSize)
	}
	if _, err := a.RemoveShadows(ctx, src, RemoveShadowsOptions{KernelSize: 9}); err != nil {
		t.Errorf("kernel 9: %v", err)
	}
}

func TestDehazeParameters(t *testing.T) {
	d := DefaultDehazeOptions()
	if d.Radius != 17 || d.Omega != 0.45 {
		t.Errorf("defaults = %+v, want radius 17 omega 0.45", d)
	}
	a := newFacade(t)
	src := uniform(t, 8, 8, 3, 120, 130, 140)
	for _, o := range []DehazeOptions{{0, 0.45}, {17, 0}, {17, 1.5}} {
		if _, err := a.Dehaze(ctx, src, o); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: err = %v, want ErrInvalidParameter", o, err)
		}
	}
	dst, err := a.Dehaze(ctx, src, d)
	if err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(src) {
		t.Error("dehaze changed a uniform raster")
	}
}

func TestToneMappers(t *testing.T) {
	a := newFacade(t)
	if DefaultToneOptions().Exposure != 1 {
		t.Errorf("default exposure = %v, want 1", DefaultToneOptions().Exposure)
	}
	src := uniform(t, 3, 2, 4, 0, 0, 0, 77)
	mappers := map[string]func(context.Context, *raster.Raster, ToneOptions) (*raster.Raster, error){
		"logarithmic": a.LogarithmicToneMapping,
		"aces":        a.AcesFilmicToneMapping,
		"hejl":        a.HejlBurgessToneMapping,
		"hable":       a.HableFilmicToneMapping,
		"aces-hill":   a.AcesHillToneMapping,
	}
	for name, fn := range mappers {
		t.Run(name, func(t *testing.T) {
			dst, err := fn(ctx, src, DefaultToneOptions())
			if err != nil {
				t.Fatal(err)
			}
			if p := dst.Pixel(1, 1); p[0] != 0 || p[1] != 0 || p[2] != 0 || p[3] != 77 {
				t.Errorf("black with alpha 77 became %v", p)
			}
			for _, e := range []float64{0, -1} {
				if _, err := fn(ctx, src, ToneOptions{Exposure: e}); !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("exposure %v: err = %v, want ErrInvalidParameter", e, err)
				}
			}
		})
	}
}

func TestExposure(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 2, 2, 3, 60, 60, 60)
	brighter, err := a.Exposure(ctx, src, 2)
	if err != nil {
		t.Fatal(err)
	}
	if brighter.Pixel(0, 0)[0] <= 60 {
		t.Errorf("exposure 2 gave %v", brighter.Pixel(0, 0))
	}
	same, err := a.Exposure(ctx, src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d := absDiff(same.Pixel(0, 0)[0], 60); d > 1 {
		t.Errorf("exposure 1 moved 60 to %d", same.Pixel(0, 0)[0])
	}
	if _, err := a.Exposure(ctx, src, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("exposure 0: err = %v", err)
	}
}

func TestParseToneCurve(t *testing.T) {
	for _, c := range []ToneCurve{ToneLogarithmic, ToneAcesFilmic, ToneHejlBurgess, ToneHableFilmic, ToneAcesHill, ToneExposure} {
		got, err := ParseToneCurve(c.String())
		if err != nil || got != c {
			t.Errorf("ParseToneCurve(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseToneCurve("reinhard"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v", err)
	}
}

func TestGrayscaleAndThreshold(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 2, 2, 4, 255, 255, 255, 10)
	_ = src.Set(0, 0, 0, 0)
	_ = src.Set(0, 0, 1, 0)
	_ = src.Set(0, 0, 2, 0)

	gray, err := a.Grayscale(ctx, src)
	if err != nil {
		t.Fatal(err)
	}
	if gray.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", gray.Channels())
	}
	if v, _ := gray.At(0, 0, 0); v != 0 {
		t.Errorf("black luma = %d", v)
	}
	if v, _ := gray.At(1, 1, 0); v != 255 {
		t.Errorf("white luma = %d", v)
	}

	bin, err := a.Threshold(ctx, src, 128)
	if err != nil {
		t.Fatal(err)
	}
	if p := bin.Pixel(1, 0); p[0] != 255 || p[3] != 10 {
		t.Errorf("threshold white = %v", p)
	}
	if p := bin.Pixel(0, 0); p[0] != 0 {
		t.Errorf("threshold black = %v", p)
	}
}

func TestColorMatrix(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 2, 2, 3, 10, 20, 30)
	dst, err := a.ColorMatrix(ctx, src, InvertMatrix())
	if err != nil {
		t.Fatal(err)
	}
	if p := dst.Pixel(1, 1); p[0] != 245 || p[1] != 235 || p[2] != 225 {
		t.Errorf("inverted = %v", p)
	}

	bad := IdentityMatrix()
	bad[0] = float32(math.NaN())
	if _, err := a.ColorMatrix(ctx, src, bad); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("NaN matrix err = %v", err)
	}
}

func TestTiltShift(t *testing.T) {
	a := newFacade(t)
	src := gradient(t, 30, 30, 3)
	dst, err := a.TiltShift(ctx, src, DefaultTiltShiftOptions())
	if err != nil {
		t.Fatal(err)
	}
	if dst.Pixel(15, 15)[0] != src.Pixel(15, 15)[0] {
		t.Errorf("focus center changed: %v vs %v", dst.Pixel(15, 15), src.Pixel(15, 15))
	}

	bad := DefaultTiltShiftOptions()
	bad.Sigma = 0
	if _, err := a.TiltShift(ctx, src, bad); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("sigma 0: err = %v", err)
	}
	bad = DefaultTiltShiftOptions()
	bad.AnchorX = 2
	if _, err := a.TiltShift(ctx, src, bad); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("anchor 2: err = %v", err)
	}
}

func TestWindStagger(t *testing.T) {
	a := newFacade(t)
	src := uniform(t, 40, 20, 3, 100, 100, 100)
	opts := WindStaggerOptions{Strength: 1, Streams: 2, Clear: color.RGBA{R: 255, A: 255}}
	red := 0
	for seed := range uint64(5) {
		opts.Seed = seed
		dst, err := a.WindStagger(ctx, src, opts)
		if err != nil {
			t.Fatal(err)
		}
		for y := 0; y < 20; y++ {
			for x := 0; x < 40; x++ {
				switch p := dst.Pixel(x, y); {
				case p[0] == 255 && p[1] == 0 && p[2] == 0:
					red++
				case p[0] == 100 && p[1] == 100 && p[2] == 100:
				default:
					t.Fatalf("seed %d (%d, %d) = %v", seed, x, y, p)
				}
			}
		}
	}
	if red == 0 {
		t.Error("clear colour never uncovered")
	}

	opts.Streams = 21
	if _, err := a.WindStagger(ctx, src, opts); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("21 streams on 20 rows: err = %v", err)
	}
}

func TestClearSamples(t *testing.T) {
	tests := []struct {
		channels int
		want     []uint8
	}{
		{1, []uint8{255}},
		{3, []uint8{255, 255, 255}},
		{4, []uint8{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		got := clearSamples(color.White, tt.channels)
		if string(got) != string(tt.want) {
			t.Errorf("%d channels: %v, want %v", tt.channels, got, tt.want)
		}
	}
	if clearSamples(nil, 4) != nil {
		t.Error("nil colour should give nil samples")
	}
}

func TestCancelledContext(t *testing.T) {
	a := newFacade(t)
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	src := gradient(t, 8, 8, 3)

	if _, err := a.GaussianBlur(cctx, src, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("blur err = %v", err)
	}
	if _, err := a.Convolve2D(cctx, src, []float32{1}); !errors.Is(err, context.Canceled) {
		t.Errorf("convolve err = %v", err)
	}
	if _, err := a.AcesFilmicToneMapping(cctx, src, DefaultToneOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("tone err = %v", err)
	}
	if _, err := a.ToNV21(cctx, src); !errors.Is(err, context.Canceled) {
		t.Errorf("nv21 err = %v", err)
	}
}

func TestNilSource(t *testing.T) {
	a := newFacade(t)
	if _, err := a.BoxBlur(ctx, nil, 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	a := newFacade(t, WithWorkers(4))
	src := gradient(t, 64, 48, 3)
	want, err := a.BilateralBlur(ctx, src, DefaultBilateral())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := a.BilateralBlur(ctx, src, DefaultBilateral())
			if err != nil {
				t.Error(err)
				return
			}
			if !got.Equal(want) {
				t.Error("concurrent result differs")
			}
		}()
	}
	wg.Wait()
}

func TestUseAfterClose(t *testing.T) {
	a := New(WithWorkers(2))
	src := gradient(t, 10, 10, 1)
	want, err := a.BoxBlur(ctx, src, 1)
	if err != nil {
		t.Fatal(err)
	}
	a.Close()
	a.Close()
	got, err := a.BoxBlur(ctx, src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Error("result after Close differs")
	}
}

func TestBordersChangeEdges(t *testing.T) {
	src := gradient(t, 9, 9, 1)
	results := map[raster.Border]*raster.Raster{}
	for _, b := range []raster.Border{raster.BorderClamp, raster.BorderReflect, raster.BorderWrap, raster.BorderZero} {
		a := newFacade(t, WithBorder(b))
		dst, err := a.BoxBlur(ctx, src, 2)
		if err != nil {
			t.Fatal(err)
		}
		results[b] = dst
	}
	if results[raster.BorderClamp].Equal(results[raster.BorderZero]) {
		t.Error("clamp and zero borders produced identical output")
	}
	// The interior does not depend on the border.
	for b, r := range results {
		if r.Pixel(4, 4)[0] != results[raster.BorderClamp].Pixel(4, 4)[0] {
			t.Errorf("%v: interior differs", b)
		}
	}
}

func TestParseBlur(t *testing.T) {
	tests := []struct {
		name     string
		strength float64
		want     Blur
	}{
		{"box", 3, Box{Radius: 3}},
		{"tent", 2, Tent{Radius: 2}},
		{"gaussian", 1.5, Gaussian{Sigma: 1.5}},
		{"median", 1, Median{Radius: 1}},
		{"bokeh", 4, Bokeh{Radius: 4}},
		{"poisson", 5, Poisson{Size: 5}},
		{"bilateral", 7, Bilateral{Radius: 7, SpatialSigma: 3, RangeSigma: 30}},
	}
	for _, tt := range tests {
		got, err := ParseBlur(tt.name, tt.strength)
		if err != nil {
			t.Errorf("ParseBlur(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBlur(%q) = %#v, want %#v", tt.name, got, tt.want)
		}
	}
	if _, err := ParseBlur("motion", 3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown blur err = %v", err)
	}
	if _, err := ParseBlur("box", 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("box 0 err = %v", err)
	}
}

func TestInitConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Init()
		}()
	}
	wg.Wait()
}

func BenchmarkGaussianBlur(b *testing.B) {
	a := New()
	defer a.Close()
	src := gradient(b, 1920, 1080, 4)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = a.GaussianBlur(ctx, src, 3)
	}
}
