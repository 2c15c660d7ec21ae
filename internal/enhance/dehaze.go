// Package enhance implements operations composed from the neighborhood
// filters: dark channel prior dehazing and document shadow removal, plus
// the tilt-shift and wind stagger effects.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// ErrInvalidParameter is returned for parameters outside their domain.
var ErrInvalidParameter = errors.New("enhance: invalid parameter")

// Dehaze defaults.
const (
	DefaultDehazeRadius = 17
	DefaultDehazeOmega  = 0.45

	// minTransmission keeps dense haze from amplifying noise.
	minTransmission = 0.1
	// brightestFraction of dark-channel pixels estimates the airlight.
	brightestFraction = 0.001
)

// CheckDehaze validates dehaze parameters.
func CheckDehaze(radius int, omega float64) error {
	if radius <= 0 || radius > kernel.MaxRadius {
		return fmt.Errorf("%w: dehaze radius %d outside [1, %d]", ErrInvalidParameter, radius, kernel.MaxRadius)
	}
	if !(omega > 0 && omega <= 1) {
		return fmt.Errorf("%w: dehaze omega %v outside (0, 1]", ErrInvalidParameter, omega)
	}
	return nil
}

// Dehaze removes haze with the dark channel prior. The dark channel is
// the per-pixel minimum over colour channels eroded with a
// (2·radius+1) square. The airlight A is the mean colour of the brightest
// 0.1% of dark channel pixels, the transmission is
// t = max(1 - omega·dark(I/A), 0.1), and the scene radiance is
// J = (I - A) / t + A. Alpha is kept.
func Dehaze(ctx context.Context, src *raster.Raster, radius int, omega float64, opts filter.Options) (*raster.Raster, error) {
	if err := CheckDehaze(radius, omega); err != nil {
		return nil, err
	}
	window, err := kernel.StructuringKernel(2*radius + 1)
	if err != nil {
		return nil, err
	}

	dark, err := filter.Erode(ctx, minChannel(src, nil), window, opts)
	if err != nil {
		return nil, err
	}
	air := airlight(src, dark)

	// Dark channel of the airlight-normalized image.
	scaled, err := filter.Erode(ctx, minChannel(src, &air), window, opts)
	if err != nil {
		return nil, err
	}

	cc, c := src.ColorChannels(), src.Channels()
	dst := src.Clone()
	out := dst.Samples()
	tr := scaled.Samples()
	for p, d := range tr {
		t := max(1-omega*float64(d)/255, minTransmission)
		px := out[p*c : p*c+cc]
		for ch, v := range px {
			a := air[ch]
			px[ch] = clampSample((float64(v)-a)/t + a)
		}
	}
	return dst, nil
}

// minChannel returns the per-pixel minimum over the colour channels,
// optionally dividing each channel by the airlight first.
func minChannel(src *raster.Raster, air *[3]float64) *raster.Raster {
	cc, c := src.ColorChannels(), src.Channels()
	out, _ := raster.New(src.Width(), src.Height(), 1)
	in, o := src.Samples(), out.Samples()
	for p := range o {
		lo := 255.0
		for ch := 0; ch < cc; ch++ {
			v := float64(in[p*c+ch])
			if air != nil {
				v = v * 255 / math.Max(air[ch], 1)
			}
			lo = min(lo, v)
		}
		o[p] = clampSample(lo)
	}
	return out
}

// airlight averages the colour of the pixels whose dark channel value is
// within the brightest fraction.
func airlight(src *raster.Raster, dark *raster.Raster) [3]float64 {
	ds := dark.Samples()
	var hist [256]int
	for _, v := range ds {
		hist[v]++
	}
	want := max(int(float64(len(ds))*brightestFraction), 1)
	level, seen := 255, 0
	for ; level > 0; level-- {
		seen += hist[level]
		if seen >= want {
			break
		}
	}

	cc, c := src.ColorChannels(), src.Channels()
	in := src.Samples()
	var sum [3]float64
	n := 0
	for p, v := range ds {
		if int(v) < level {
			continue
		}
		for ch := 0; ch < cc; ch++ {
			sum[ch] += float64(in[p*c+ch])
		}
		n++
	}
	var air [3]float64
	for ch := 0; ch < cc; ch++ {
		air[ch] = sum[ch] / float64(n)
	}
	return air
}

func clampSample(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
