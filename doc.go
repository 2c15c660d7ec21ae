// Package aire is a pure Go image processing library for 8-bit rasters.
//
// # Overview
//
// The core is a 2D convolution and separable blur engine. Around it sit the
// sibling capabilities that share the same raster-in, raster-out contract:
// morphology, tone mapping, colour matrices, dehazing, shadow removal,
// tilt-shift, wind stagger, scaling, rotation and YUV conversion. Every operation reads
// an immutable source raster and returns a freshly allocated result; the
// source is never modified and partial results are never returned.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/aire"
//		"github.com/gogpu/aire/raster"
//	)
//
//	a := aire.New(aire.WithBorder(raster.BorderReflect))
//	defer a.Close()
//
//	blurred, err := a.GaussianBlur(ctx, src, 2.5)
//	mapped, err := a.AcesFilmicToneMapping(ctx, src, aire.DefaultToneOptions())
//
// # Pipelines
//
// The Aire facade embeds one value per capability: BlurPipeline,
// ConvolutionPipeline, ProcessingPipeline, TonePipeline, EffectsPipeline,
// ScalePipeline and YuvPipeline. Each can be used on its own through the
// facade fields.
//
// # Numerics
//
// Linear filters accumulate in float32 (float64 for the FFT path). Results
// are clamped to [0, 255] and rounded half up. Samples outside the raster
// follow the configured border policy, clamp-to-edge by default.
//
// # Concurrency
//
// An Aire owns a worker pool that splits output rows into bands. All
// methods are safe for concurrent use. Cancelling the context abandons the
// operation and returns ctx.Err().
package aire

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
