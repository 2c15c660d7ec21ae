package main

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gogpu/aire"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// operation transforms one decoded image.
type operation func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error)

// opSpec describes a subcommand. bind registers the flags and returns the
// constructor that is called once the flags are parsed.
type opSpec struct {
	name  string
	short string
	bind  func(cmd *cobra.Command) func() (operation, error)
}

func (s opSpec) command(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   s.name + " [flags] IMAGE...",
		Short: s.short,
		Args:  cobra.MinimumNArgs(1),
	}
	build := s.bind(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		op, err := build()
		if err != nil {
			return err
		}
		return process(cmd.Context(), cmd.OutOrStdout(), g, s.name, args, op)
	}
	return cmd
}

func operationCommands() []opSpec {
	return []opSpec{
		{"convolve", "Correlate with a square kernel", bindConvolve},
		{"blur", "Apply a blur preset", bindBlur},
		{"dilate", "Grow bright regions", bindMorphology(true)},
		{"erode", "Grow dark regions", bindMorphology(false)},
		{"tone", "Tone map with a filmic curve", bindTone},
		{"exposure", "Scale linear light", bindExposure},
		{"dehaze", "Remove haze with the dark channel prior", bindDehaze},
		{"shadows", "Flatten shadows on document photos", bindShadows},
		{"scale", "Resize", bindScale},
		{"rotate", "Rotate around the image center", bindRotate},
		{"gray", "Convert to single channel luma", bindGray},
		{"threshold", "Binarize on luma", bindThreshold},
		{"matrix", "Apply a colour matrix preset", bindMatrix},
		{"tiltshift", "Blur outside a focus region", bindTiltShift},
		{"wind", "Smear rows sideways in wind streams", bindWind},
	}
}

// parseFloats parses a comma or space separated list of numbers.
func parseFloats(s string) ([]float32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	var bad []string
	values := lo.Map(fields, func(f string, _ int) float32 {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			bad = append(bad, f)
		}
		return float32(v)
	})
	if len(bad) > 0 {
		return nil, fmt.Errorf("invalid numbers in kernel: %s", strings.Join(bad, ", "))
	}
	return values, nil
}

// sortedKeys lists the keys of m for help texts.
func sortedKeys[V any](m map[string]V) string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}

func bindConvolve(cmd *cobra.Command) func() (operation, error) {
	weights := cmd.Flags().StringP("kernel", "k", "", "row-major weights, e.g. \"0,-1,0,-1,5,-1,0,-1,0\"")
	normalize := cmd.Flags().Bool("normalize", false, "divide weights by their sum")
	_ = cmd.MarkFlagRequired("kernel")
	return func() (operation, error) {
		w, err := parseFloats(*weights)
		if err != nil {
			return nil, err
		}
		k, err := kernel.FromSquare(w)
		if err != nil {
			return nil, err
		}
		if *normalize {
			k = k.Normalized()
		}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.ConvolveKernel(ctx, src, k)
		}, nil
	}
}

func bindBlur(cmd *cobra.Command) func() (operation, error) {
	fs := cmd.Flags()
	kind := fs.StringP("type", "t", "gaussian", "box, tent, gaussian, bilateral, median, bokeh or poisson")
	strength := fs.Float64P("strength", "s", 2, "radius, sigma for gaussian, or size for poisson")
	spatial := fs.Float64("spatial-sigma", aire.DefaultBilateral().SpatialSigma, "bilateral spatial sigma")
	rangeSigma := fs.Float64("range-sigma", aire.DefaultBilateral().RangeSigma, "bilateral range sigma")
	seed := fs.Uint64("seed", 0, "poisson kernel seed")
	return func() (operation, error) {
		b, err := aire.ParseBlur(*kind, *strength)
		if err != nil {
			return nil, err
		}
		switch v := b.(type) {
		case aire.Bilateral:
			v.SpatialSigma, v.RangeSigma = *spatial, *rangeSigma
			b = v
		case aire.Poisson:
			v.Seed = *seed
			b = v
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.Blur(ctx, src, b)
		}, nil
	}
}

var shapes = map[string]kernel.Shape{
	"rect":    kernel.ShapeRect,
	"cross":   kernel.ShapeCross,
	"ellipse": kernel.ShapeEllipse,
}

func bindMorphology(dilate bool) func(cmd *cobra.Command) func() (operation, error) {
	return func(cmd *cobra.Command) func() (operation, error) {
		size := cmd.Flags().Int("size", 3, "odd structuring element size")
		shape := cmd.Flags().String("shape", "rect", "structuring element: "+sortedKeys(shapes))
		return func() (operation, error) {
			s, ok := shapes[*shape]
			if !ok {
				return nil, fmt.Errorf("unknown shape %q", *shape)
			}
			k, err := kernel.Structuring(s, *size)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
				if dilate {
					return a.DilateKernel(ctx, src, k)
				}
				return a.ErodeKernel(ctx, src, k)
			}, nil
		}
	}
}

func bindTone(cmd *cobra.Command) func() (operation, error) {
	curve := cmd.Flags().String("curve", "aces", "logarithmic, aces, hejl, hable or aces-hill")
	exposure := cmd.Flags().Float64("exposure", aire.DefaultToneOptions().Exposure, "exposure multiplier")
	return func() (operation, error) {
		c, err := aire.ParseToneCurve(*curve)
		if err != nil {
			return nil, err
		}
		opts := aire.ToneOptions{Exposure: *exposure}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.ToneMap(ctx, src, c, opts)
		}, nil
	}
}

func bindExposure(cmd *cobra.Command) func() (operation, error) {
	exposure := cmd.Flags().Float64("exposure", 0, "exposure multiplier")
	_ = cmd.MarkFlagRequired("exposure")
	return func() (operation, error) {
		e := *exposure
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.Exposure(ctx, src, e)
		}, nil
	}
}

func bindDehaze(cmd *cobra.Command) func() (operation, error) {
	d := aire.DefaultDehazeOptions()
	radius := cmd.Flags().Int("radius", d.Radius, "dark channel radius")
	omega := cmd.Flags().Float64("omega", d.Omega, "haze fraction removed, (0, 1]")
	return func() (operation, error) {
		opts := aire.DehazeOptions{Radius: *radius, Omega: *omega}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.Dehaze(ctx, src, opts)
		}, nil
	}
}

func bindShadows(cmd *cobra.Command) func() (operation, error) {
	size := cmd.Flags().Int("kernel-size", aire.DefaultRemoveShadowsOptions().KernelSize, "background kernel size, 3-9")
	return func() (operation, error) {
		opts := aire.RemoveShadowsOptions{KernelSize: *size}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.RemoveShadows(ctx, src, opts)
		}, nil
	}
}

func bindScale(cmd *cobra.Command) func() (operation, error) {
	width := cmd.Flags().Int("width", 0, "output width (0 keeps the aspect ratio)")
	height := cmd.Flags().Int("height", 0, "output height (0 keeps the aspect ratio)")
	mode := cmd.Flags().String("mode", "bilinear", "nearest, approx-bilinear, bilinear or catmull-rom")
	return func() (operation, error) {
		if *width <= 0 && *height <= 0 {
			return nil, fmt.Errorf("scale needs --width or --height")
		}
		m, err := aire.ParseScaleMode(*mode)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			w, h := fitSize(src.Width(), src.Height(), *width, *height)
			return a.Scale(ctx, src, aire.ScaleOptions{Width: w, Height: h, Mode: m})
		}, nil
	}
}

// fitSize fills in a missing dimension from the source aspect ratio.
func fitSize(srcW, srcH, w, h int) (int, int) {
	switch {
	case w <= 0:
		w = max(1, (srcW*h+srcH/2)/srcH)
	case h <= 0:
		h = max(1, (srcH*w+srcW/2)/srcW)
	}
	return w, h
}

func bindRotate(cmd *cobra.Command) func() (operation, error) {
	angle := cmd.Flags().Float64("angle", 90, "clockwise angle in degrees")
	mode := cmd.Flags().String("mode", "bilinear", "nearest, approx-bilinear, bilinear or catmull-rom")
	expand := cmd.Flags().Bool("expand", true, "grow the canvas to fit the rotated image")
	return func() (operation, error) {
		m, err := aire.ParseScaleMode(*mode)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			w, h := src.Width(), src.Height()
			if *expand {
				w, h = rotatedBounds(w, h, *angle)
			}
			return a.Rotate(ctx, src, aire.RotateOptions{
				Angle:   *angle,
				AnchorX: float64(src.Width()) / 2,
				AnchorY: float64(src.Height()) / 2,
				Width:   w,
				Height:  h,
				Mode:    m,
			})
		}, nil
	}
}

// rotatedBounds returns the canvas that holds a w×h image turned by
// degrees.
func rotatedBounds(w, h int, degrees float64) (int, int) {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	sin, cos = math.Abs(sin), math.Abs(cos)
	fw, fh := float64(w), float64(h)
	return int(math.Ceil(fw*cos + fh*sin - 1e-9)), int(math.Ceil(fw*sin + fh*cos - 1e-9))
}

func bindGray(*cobra.Command) func() (operation, error) {
	return func() (operation, error) {
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.Grayscale(ctx, src)
		}, nil
	}
}

func bindThreshold(cmd *cobra.Command) func() (operation, error) {
	level := cmd.Flags().Uint8("level", 128, "luma threshold")
	return func() (operation, error) {
		l := *level
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.Threshold(ctx, src, l)
		}, nil
	}
}

var matrixPresets = map[string]func(amount float64) aire.ColorMatrix{
	"sepia":      func(float64) aire.ColorMatrix { return aire.SepiaMatrix() },
	"invert":     func(float64) aire.ColorMatrix { return aire.InvertMatrix() },
	"brightness": func(v float64) aire.ColorMatrix { return aire.BrightnessMatrix(float32(v)) },
	"contrast":   func(v float64) aire.ColorMatrix { return aire.ContrastMatrix(float32(v)) },
	"saturation": func(v float64) aire.ColorMatrix { return aire.SaturationMatrix(float32(v)) },
	"hue":        aire.HueRotateMatrix,
	"opacity":    func(v float64) aire.ColorMatrix { return aire.OpacityMatrix(float32(v)) },
}

func bindMatrix(cmd *cobra.Command) func() (operation, error) {
	preset := cmd.Flags().String("preset", "sepia", "one of: "+sortedKeys(matrixPresets))
	amount := cmd.Flags().Float64("amount", 1, "preset factor, or degrees for hue")
	return func() (operation, error) {
		mk, ok := matrixPresets[*preset]
		if !ok {
			return nil, fmt.Errorf("unknown matrix preset %q", *preset)
		}
		m := mk(*amount)
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.ColorMatrix(ctx, src, m)
		}, nil
	}
}

func bindTiltShift(cmd *cobra.Command) func() (operation, error) {
	d := aire.DefaultTiltShiftOptions()
	fs := cmd.Flags()
	sigma := fs.Float64("sigma", d.Sigma, "blur sigma outside the focus")
	shape := fs.String("shape", "radial", "radial, horizontal or vertical")
	ax := fs.Float64("anchor-x", d.AnchorX, "focus anchor as a fraction of the width")
	ay := fs.Float64("anchor-y", d.AnchorY, "focus anchor as a fraction of the height")
	radius := fs.Float64("focus-radius", d.FocusRadius, "focus radius as a fraction of the longer side")
	return func() (operation, error) {
		opts := aire.TiltShiftOptions{Sigma: *sigma, AnchorX: *ax, AnchorY: *ay, FocusRadius: *radius}
		switch *shape {
		case "radial":
			opts.Shape = aire.FocusRadial
		case "horizontal":
			opts.Shape = aire.FocusHorizontal
		case "vertical":
			opts.Shape = aire.FocusVertical
		default:
			return nil, fmt.Errorf("unknown focus shape %q", *shape)
		}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.TiltShift(ctx, src, opts)
		}, nil
	}
}

func bindWind(cmd *cobra.Command) func() (operation, error) {
	d := aire.DefaultWindStaggerOptions()
	fs := cmd.Flags()
	strength := fs.Float64("strength", d.Strength, "longest stream as a fraction of the width, negative blows right")
	streams := fs.Int("streams", d.Streams, "number of row streams")
	seed := fs.Uint64("seed", d.Seed, "random seed for the stream lengths")
	return func() (operation, error) {
		opts := aire.WindStaggerOptions{Strength: *strength, Streams: *streams, Seed: *seed}
		return func(ctx context.Context, a *aire.Aire, src *raster.Raster) (*raster.Raster, error) {
			return a.WindStagger(ctx, src, opts)
		}, nil
	}
}
