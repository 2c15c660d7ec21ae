package kernel

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gogpu/aire/internal/cache"
)

// BoxLine generates a 1D box (uniform) kernel for the given radius.
// All values are equal: 1/(2*radius+1).
//
// For radius <= 0, returns a single-element kernel [1.0] (identity).
// Radii above MaxRadius are clamped.
func BoxLine(radius int) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}
	radius = min(radius, MaxRadius)

	size := radius*2 + 1
	line := make([]float32, size)
	val := float32(1.0) / float32(size)
	for i := range line {
		line[i] = val
	}
	return line
}

// TentLine generates a 1D triangular kernel: weight radius+1-|i| at offset
// i, normalized to sum 1. A tent equals two box passes of half the radius.
// Radii above MaxRadius are clamped.
func TentLine(radius int) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}
	radius = min(radius, MaxRadius)

	size := radius*2 + 1
	line := make([]float32, size)
	var sum float32
	for i := range line {
		d := i - radius
		if d < 0 {
			d = -d
		}
		line[i] = float32(radius + 1 - d)
		sum += line[i]
	}
	for i := range line {
		line[i] /= sum
	}
	return line
}

// GaussianLine generates a 1D Gaussian kernel for the given sigma.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is computed as 2 * ceil(sigma * 3) + 1, which covers
// 99.7% of the Gaussian distribution (3 standard deviations).
//
// For sigma <= 0 or NaN, returns a single-element kernel [1.0] (identity).
// Sigmas above MaxSigma are clamped.
func GaussianLine(sigma float64) []float32 {
	if !(sigma > 0) {
		return []float32{1.0}
	}
	sigma = min(sigma, MaxSigma)

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1
	line := make([]float32, size)

	// The 1/(σ√(2π)) factor cancels out in normalization.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		line[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range line {
			line[i] *= invSum
		}
	}
	return line
}

// GaussianSize returns the kernel size GaussianLine produces for sigma.
func GaussianSize(sigma float64) int {
	if !(sigma > 0) {
		return 1
	}
	sigma = min(sigma, MaxSigma)
	return int(math.Ceil(sigma*3))*2 + 1
}

// Box returns the separable normalized box kernel of the given radius.
func Box(radius int) *Kernel {
	line := BoxLine(radius)
	k, _ := Separable(line, line)
	return k
}

// Tent returns the separable normalized tent kernel of the given radius.
func Tent(radius int) *Kernel {
	line := TentLine(radius)
	k, _ := Separable(line, line)
	return k
}

// Gaussian returns the separable normalized Gaussian kernel for sigma.
func Gaussian(sigma float64) *Kernel {
	line := GaussianLine(sigma)
	k, _ := Separable(line, line)
	return k
}

// cacheSize bounds each kernel cache; kernels are cheap to rebuild.
const cacheSize = 64

var (
	gaussianCache = cache.New[uint64, *Kernel](cacheSize)
	bokehCache    = cache.New[int, *Kernel](cacheSize)
)

// CachedGaussian returns a shared Gaussian kernel for sigma. Kernels are
// immutable so sharing them is safe.
func CachedGaussian(sigma float64) *Kernel {
	return gaussianCache.GetOrCreate(math.Float64bits(sigma), func() *Kernel {
		return Gaussian(sigma)
	})
}

// CachedBokeh returns a shared disc kernel for radius.
func CachedBokeh(radius int) (*Kernel, error) {
	if radius < 1 || radius > MaxRadius {
		return nil, fmt.Errorf("%w: bokeh radius %d", ErrInvalidKernelSize, radius)
	}
	return bokehCache.GetOrCreate(radius, func() *Kernel {
		k, _ := Bokeh(radius)
		return k
	}), nil
}

// Bokeh returns a normalized disc kernel of the given radius: every weight
// whose offset lies within the circle of that radius is equal, the rest
// are zero. The disc is not separable.
func Bokeh(radius int) (*Kernel, error) {
	if radius < 1 || radius > MaxRadius {
		return nil, fmt.Errorf("%w: bokeh radius %d", ErrInvalidKernelSize, radius)
	}
	size := 2*radius + 1
	weights := make([]float32, size*size)
	limit := float64(radius) + 0.5
	limit *= limit
	count := 0
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			dy, dx := float64(i-radius), float64(j-radius)
			if dx*dx+dy*dy <= limit {
				weights[i*size+j] = 1
				count++
			}
		}
	}
	inv := 1 / float32(count)
	for i := range weights {
		weights[i] *= inv
	}
	return &Kernel{size: size, weights: weights}, nil
}

// maxPoissonDraws bounds the redraws when every sample came out zero.
const maxPoissonDraws = 50

// PoissonLine draws size samples from a Poisson distribution with mean
// size and normalizes them. The same seed always yields the same kernel.
func PoissonLine(size int, seed uint64) ([]float32, error) {
	if size < 1 || size%2 == 0 || size > MaxLineSize {
		return nil, fmt.Errorf("%w: poisson size %d must be odd and in [1, %d]", ErrInvalidKernelSize, size, MaxLineSize)
	}
	dist := distuv.Poisson{
		Lambda: float64(size),
		Src:    rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	line := make([]float32, size)
	for range maxPoissonDraws {
		var sum float64
		for i := range line {
			v := dist.Rand()
			line[i] = float32(v)
			sum += v
		}
		if sum > 0 {
			inv := float32(1 / sum)
			for i := range line {
				line[i] *= inv
			}
			return line, nil
		}
	}
	return BoxLine(size / 2), nil
}

// Poisson returns the separable kernel built from PoissonLine.
func Poisson(size int, seed uint64) (*Kernel, error) {
	line, err := PoissonLine(size, seed)
	if err != nil {
		return nil, err
	}
	return Separable(line, line)
}
