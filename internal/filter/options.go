package filter

import (
	"fmt"
	"sync"

	"github.com/gogpu/aire/internal/parallel"
	"github.com/gogpu/aire/raster"
)

// Method selects the linear convolution strategy.
type Method uint8

const (
	// MethodAuto uses the separable path for rank-one kernels, FFT for
	// large non-separable kernels and the direct path otherwise.
	MethodAuto Method = iota
	// MethodDirect evaluates the full S×S neighborhood per sample.
	MethodDirect
	// MethodSeparable runs a horizontal then a vertical 1D pass. Kernels
	// that do not factor fall back to MethodDirect.
	MethodSeparable
	// MethodFFT multiplies spectra of border-padded planes.
	MethodFFT
)

// fftMinSize is the smallest non-separable kernel MethodAuto sends to FFT.
const fftMinSize = 9

var methodNames = [...]string{
	MethodAuto:      "auto",
	MethodDirect:    "direct",
	MethodSeparable: "separable",
	MethodFFT:       "fft",
}

// String returns the lower-case method name.
func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// ParseMethod converts a method name to a Method.
func ParseMethod(s string) (Method, error) {
	for i, name := range methodNames {
		if s == name {
			return Method(i), nil
		}
	}
	return MethodAuto, fmt.Errorf("filter: unknown method %q", s)
}

// Options carries the configuration shared by every filter invocation.
type Options struct {
	// Border resolves samples outside the raster.
	Border raster.Border

	// Method selects the linear convolution strategy.
	Method Method

	// Pool runs row bands. Nil uses a shared pool sized to GOMAXPROCS.
	Pool *parallel.Pool
}

var (
	sharedPoolOnce sync.Once
	sharedPool     *parallel.Pool
)

func (o Options) pool() *parallel.Pool {
	if o.Pool != nil {
		return o.Pool
	}
	sharedPoolOnce.Do(func() { sharedPool = parallel.NewPool(0) })
	return sharedPool
}

// toSample clamps v to [0, 255] and rounds half up.
func toSample(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// toSample64 is toSample for float64 accumulators.
func toSample64(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
