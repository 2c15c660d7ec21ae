package aire

import (
	"log/slog"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/raster"
)

// Option configures an Aire during creation.
//
// Example:
//
//	// Defaults: clamp border, automatic method, GOMAXPROCS workers
//	a := aire.New()
//
//	// Mirrored borders on four workers
//	a := aire.New(aire.WithBorder(raster.BorderReflect), aire.WithWorkers(4))
type Option func(*config)

// config holds the settings shared by every pipeline of one Aire.
type config struct {
	workers int
	border  raster.Border
	method  Method
	logger  *slog.Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() config {
	return config{
		workers: 0, // GOMAXPROCS
		border:  raster.BorderClamp,
		method:  MethodAuto,
	}
}

// WithWorkers sets the number of pool workers. Zero or negative values use
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithBorder sets the policy for samples outside the raster. Invalid
// policies are ignored.
func WithBorder(b raster.Border) Option {
	return func(c *config) {
		if b.IsValid() {
			c.border = b
		}
	}
}

// WithMethod forces a linear convolution strategy for Convolve2D and the
// kernel based blurs (box, tent, gaussian, bokeh and poisson). Forcing
// MethodSeparable on a kernel that does not factor falls back to the
// direct path.
func WithMethod(m Method) Option {
	return func(c *config) {
		c.method = m
	}
}

// WithLogger gives this Aire its own logger instead of the package-wide
// one from SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Method selects the linear convolution strategy.
type Method = filter.Method

// Convolution strategies.
const (
	MethodAuto      = filter.MethodAuto
	MethodDirect    = filter.MethodDirect
	MethodSeparable = filter.MethodSeparable
	MethodFFT       = filter.MethodFFT
)

// ParseMethod converts a method name ("auto", "direct", "separable", "fft").
func ParseMethod(s string) (Method, error) {
	return filter.ParseMethod(s)
}
