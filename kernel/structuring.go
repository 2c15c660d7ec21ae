package kernel

import "fmt"

// Shape selects the support of a structuring kernel.
type Shape uint8

const (
	// ShapeRect covers the whole square.
	ShapeRect Shape = iota
	// ShapeCross covers the center row and center column.
	ShapeCross
	// ShapeEllipse covers the inscribed disc.
	ShapeEllipse
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeCross:
		return "cross"
	case ShapeEllipse:
		return "ellipse"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// StructuringKernel returns the all-ones box of the given odd size,
// normalized so it can also serve as an averaging kernel. Morphology
// treats every positive weight as part of the neighborhood.
func StructuringKernel(size int) (*Kernel, error) {
	return Structuring(ShapeRect, size)
}

// Structuring returns a normalized structuring kernel of the given shape.
func Structuring(shape Shape, size int) (*Kernel, error) {
	if size < 1 || size%2 == 0 || size > MaxLineSize {
		return nil, fmt.Errorf("%w: structuring size %d must be odd and in [1, %d]", ErrInvalidKernelSize, size, MaxLineSize)
	}
	if shape == ShapeRect {
		line := BoxLine(size / 2)
		return Separable(line, line)
	}

	r := size / 2
	weights := make([]float32, size*size)
	count := 0
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			in := false
			switch shape {
			case ShapeCross:
				in = i == r || j == r
			case ShapeEllipse:
				if r == 0 {
					in = true
					break
				}
				dy := float64(i-r) / float64(r)
				dx := float64(j-r) / float64(r)
				in = dx*dx+dy*dy <= 1
			default:
				return nil, fmt.Errorf("kernel: unknown structuring shape %v", shape)
			}
			if in {
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

// Support returns the mask of positive weights as row-major booleans.
func (k *Kernel) Support() []bool {
	mask := make([]bool, len(k.weights))
	for i, w := range k.weights {
		mask[i] = w > 0
	}
	return mask
}

// FullSupport reports whether every weight is positive, which lets
// morphology run as two 1D passes.
func (k *Kernel) FullSupport() bool {
	for _, w := range k.weights {
		if w <= 0 {
			return false
		}
	}
	return true
}
