package kernel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultSeparableTolerance is the relative singular-value threshold used
// when deciding whether a kernel has rank one.
const DefaultSeparableTolerance = 1e-6

// Separate factors the kernel into horizontal and vertical 1D kernels such
// that At(i, j) ≈ vertical[i] * horizontal[j]. Kernels built with Separable
// return their stored factors; other kernels are factored with a singular
// value decomposition and rejected with ErrNotSeparable unless the second
// singular value is at most tol times the first.
func (k *Kernel) Separate(tol float64) (horizontal, vertical []float32, err error) {
	if k.horizontal != nil {
		return clone(k.horizontal), clone(k.vertical), nil
	}
	n := k.size
	if n == 1 {
		return []float32{k.weights[0]}, []float32{1}, nil
	}

	data := make([]float64, n*n)
	for i, w := range k.weights {
		data[i] = float64(w)
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(n, n, data), mat.SVDThin) {
		return nil, nil, fmt.Errorf("%w: factorization failed", ErrNotSeparable)
	}
	values := svd.Values(nil)
	if values[0] == 0 {
		// All-zero kernel.
		return make([]float32, n), make([]float32, n), nil
	}
	if values[1] > tol*values[0] {
		return nil, nil, fmt.Errorf("%w: rank > 1 (σ2/σ1 = %.3g)", ErrNotSeparable, values[1]/values[0])
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	root := math.Sqrt(values[0])
	horizontal = make([]float32, n)
	vertical = make([]float32, n)
	var hsum float64
	for i := 0; i < n; i++ {
		vertical[i] = float32(u.At(i, 0) * root)
		horizontal[i] = float32(v.At(i, 0) * root)
		hsum += float64(horizontal[i])
	}
	// Singular vectors carry an arbitrary sign; keep the horizontal factor
	// positive-sum so presets factor into intuitive weights.
	if hsum < 0 {
		for i := range horizontal {
			horizontal[i] = -horizontal[i]
			vertical[i] = -vertical[i]
		}
	}
	return horizontal, vertical, nil
}

// IsSeparable reports whether Separate succeeds with the default tolerance.
func (k *Kernel) IsSeparable() bool {
	_, _, err := k.Separate(DefaultSeparableTolerance)
	return err == nil
}
