// Package kernel provides immutable convolution kernels and the preset
// generators used by the blur and morphology pipelines.
//
// A Kernel is always square with an odd size S and radius (S-1)/2. Weights
// are stored row-major: At(i, j) is the weight applied to the sample at
// vertical offset i-r and horizontal offset j-r. Kernels built from two 1D
// passes remember their factors so engines can run them separably.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Size limits of the declared convolution entry point. Larger kernels are
// accepted only through New and FromSquare.
const (
	MinSize = 3
	MaxSize = 9
)

// Generator limits. A line of radius MaxRadius already holds 2·MaxRadius+1
// taps; requests beyond these bounds are rejected by the callers that take
// user parameters and clamped by the generators that cannot fail.
const (
	MaxRadius = 1024
	MaxSigma  = MaxRadius / 3.0
	// MaxLineSize is the longest 1D line any generator produces.
	MaxLineSize = 2*MaxRadius + 1
)

// normTolerance is the absolute tolerance used by IsNormalized.
const normTolerance = 1e-5

var (
	// ErrInvalidKernelSize is returned for even sizes, sizes outside the
	// permitted range, or weight counts that do not match the size.
	ErrInvalidKernelSize = errors.New("kernel: invalid kernel size")

	// ErrNotSeparable is returned by Separate when the kernel is not an
	// outer product of two 1D kernels.
	ErrNotSeparable = errors.New("kernel: not separable")
)

// Kernel is an immutable square filter.
type Kernel struct {
	size    int
	weights []float32

	// 1D factors; nil unless the kernel is known to be separable.
	horizontal []float32
	vertical   []float32
}

// New creates a 2D kernel of the given odd size from size*size row-major
// weights. The weights are copied.
func New(size int, weights []float32) (*Kernel, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: size %d must be odd and positive", ErrInvalidKernelSize, size)
	}
	if len(weights) != size*size {
		return nil, fmt.Errorf("%w: %d weights for size %d", ErrInvalidKernelSize, len(weights), size)
	}
	return &Kernel{size: size, weights: clone(weights)}, nil
}

// FromSquare infers the size from a perfect-square weight count. This is
// the generic convolve2D path: any odd size is accepted, at a cost of
// O(S²) per output sample unless the kernel turns out to be separable.
func FromSquare(weights []float32) (*Kernel, error) {
	n := len(weights)
	size := int(math.Round(math.Sqrt(float64(n))))
	if size*size != n {
		return nil, fmt.Errorf("%w: %d weights is not a perfect square", ErrInvalidKernelSize, n)
	}
	return New(size, weights)
}

// FromWeights builds a kernel for the size-restricted entry point.
// size must be odd and within [MinSize, MaxSize]; weights must hold either
// size values (a 1D kernel k, applied as k⊗k) or size*size values.
func FromWeights(weights []float32, size int) (*Kernel, error) {
	if size < MinSize || size > MaxSize || size%2 == 0 {
		return nil, fmt.Errorf("%w: size %d outside odd range [%d, %d]",
			ErrInvalidKernelSize, size, MinSize, MaxSize)
	}
	switch len(weights) {
	case size:
		return Separable(weights, weights)
	case size * size:
		return New(size, weights)
	default:
		return nil, fmt.Errorf("%w: %d weights for size %d", ErrInvalidKernelSize, len(weights), size)
	}
}

// New1D creates the separable kernel k⊗k from an odd-length 1D kernel.
func New1D(weights []float32) (*Kernel, error) {
	return Separable(weights, weights)
}

// Separable creates the kernel whose weight at (i, j) is
// vertical[i] * horizontal[j]. Both factors must share an odd length.
func Separable(horizontal, vertical []float32) (*Kernel, error) {
	n := len(horizontal)
	if n < 1 || n%2 == 0 || len(vertical) != n {
		return nil, fmt.Errorf("%w: separable factors of length %d and %d",
			ErrInvalidKernelSize, len(horizontal), len(vertical))
	}
	weights := make([]float32, n*n)
	for i, vy := range vertical {
		for j, hx := range horizontal {
			weights[i*n+j] = vy * hx
		}
	}
	return &Kernel{
		size:       n,
		weights:    weights,
		horizontal: clone(horizontal),
		vertical:   clone(vertical),
	}, nil
}

// Identity returns the size×size kernel with a single 1 at the center.
func Identity(size int) (*Kernel, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: size %d must be odd and positive", ErrInvalidKernelSize, size)
	}
	line := make([]float32, size)
	line[size/2] = 1
	return Separable(line, line)
}

// Size returns the side length of the kernel.
func (k *Kernel) Size() int { return k.size }

// Radius returns (Size-1)/2.
func (k *Kernel) Radius() int { return k.size / 2 }

// At returns the weight at row i, column j.
func (k *Kernel) At(i, j int) float32 { return k.weights[i*k.size+j] }

// Weights returns a copy of the row-major weights.
func (k *Kernel) Weights() []float32 { return clone(k.weights) }

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 {
	return lo.Sum(lo.Map(k.weights, func(w float32, _ int) float64 { return float64(w) }))
}

// IsNormalized reports whether the weights sum to 1 within tolerance.
func (k *Kernel) IsNormalized() bool {
	return math.Abs(k.Sum()-1) <= normTolerance
}

// Normalized returns a copy scaled so the weights sum to 1. Kernels whose
// sum is zero (edge detectors) are returned unchanged.
func (k *Kernel) Normalized() *Kernel {
	sum := k.Sum()
	if sum == 0 {
		return k
	}
	inv := float32(1 / sum)
	out := &Kernel{size: k.size, weights: scale(k.weights, inv)}
	if k.horizontal != nil {
		out.horizontal = scale(k.horizontal, inv)
		out.vertical = clone(k.vertical)
	}
	return out
}

// Factors returns copies of the known 1D factors, or nils when the kernel
// was not built from them.
func (k *Kernel) Factors() (horizontal, vertical []float32) {
	if k.horizontal == nil {
		return nil, nil
	}
	return clone(k.horizontal), clone(k.vertical)
}

// Equal reports whether both kernels hold identical weights.
func (k *Kernel) Equal(o *Kernel) bool {
	if o == nil || k.size != o.size {
		return false
	}
	for i, w := range k.weights {
		if o.weights[i] != w {
			return false
		}
	}
	return true
}

func clone(s []float32) []float32 {
	out := make([]float32, len(s))
	copy(out, s)
	return out
}

func scale(s []float32, f float32) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = v * f
	}
	return out
}
