package tone

import (
	"context"
	"math"

	"github.com/gogpu/aire/internal/parallel"
	"github.com/gogpu/aire/raster"
)

// ColorMatrix is a 4×5 colour transformation in row-major order:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Samples are in [0, 255] with straight alpha; the fifth column is an
// offset in the same range.
type ColorMatrix [20]float32

// IdentityMatrix passes colours through unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// BrightnessMatrix scales RGB. 0 is black, 1 unchanged, 2 twice as bright.
func BrightnessMatrix(factor float32) ColorMatrix {
	return ColorMatrix{
		factor, 0, 0, 0, 0,
		0, factor, 0, 0, 0,
		0, 0, factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// ContrastMatrix scales RGB around mid-gray: (v - 128) * factor + 128.
func ContrastMatrix(factor float32) ColorMatrix {
	offset := 128 * (1 - factor)
	return ColorMatrix{
		factor, 0, 0, 0, offset,
		0, factor, 0, 0, offset,
		0, 0, factor, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// SaturationMatrix blends between Rec. 709 luminance (0) and the input (1).
func SaturationMatrix(factor float32) ColorMatrix {
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)
	inv := 1 - factor
	return ColorMatrix{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SepiaMatrix applies the classic sepia tone.
func SepiaMatrix() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// InvertMatrix inverts RGB and keeps alpha.
func InvertMatrix() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}
}

// HueRotateMatrix rotates hue by degrees around the luminance axis.
func HueRotateMatrix(degrees float64) ColorMatrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	s, c := float32(sin), float32(cos)
	const (
		lumR = 0.213
		lumG = 0.715
		lumB = 0.072
	)
	return ColorMatrix{
		lumR + c*(1-lumR) - s*lumR, lumG - c*lumG - s*lumG, lumB - c*lumB + s*(1-lumB), 0, 0,
		lumR - c*lumR + s*0.143, lumG + c*(1-lumG) + s*0.140, lumB - c*lumB - s*0.283, 0, 0,
		lumR - c*lumR - s*(1-lumR), lumG - c*lumG + s*lumG, lumB + c*(1-lumB) + s*lumB, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// OpacityMatrix multiplies alpha by factor.
func OpacityMatrix(factor float32) ColorMatrix {
	m := IdentityMatrix()
	m[18] = factor
	return m
}

// Then returns the matrix that applies m first and next afterwards.
func (m ColorMatrix) Then(next ColorMatrix) ColorMatrix {
	var out ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += next[row*5+k] * m[k*5+col]
			}
			if col == 4 {
				sum += next[row*5+4]
			}
			out[row*5+col] = sum
		}
	}
	return out
}

// Apply transforms every pixel of src. Grayscale rasters are expanded to
// equal RGB and reduced back with Rec. 601 luma; rasters without alpha
// are treated as opaque and the alpha row is ignored.
func (m ColorMatrix) Apply(ctx context.Context, src *raster.Raster, pool *parallel.Pool) (*raster.Raster, error) {
	c := src.Channels()
	dst := raster.NewLike(src)
	in, out := src.Samples(), dst.Samples()
	stride := src.Stride()

	err := rows(ctx, pool, src.Height(), func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += c {
			p := in[i : i+c]
			r, g, b, a := float32(p[0]), float32(p[0]), float32(p[0]), float32(255)
			if c >= 3 {
				g, b = float32(p[1]), float32(p[2])
			}
			if c == 4 {
				a = float32(p[3])
			}

			nr := m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]
			ng := m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]
			nb := m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]

			q := out[i : i+c]
			switch c {
			case 1:
				q[0] = raster.Luma(clampByte(nr), clampByte(ng), clampByte(nb))
			case 3:
				q[0], q[1], q[2] = clampByte(nr), clampByte(ng), clampByte(nb)
			default:
				na := m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]
				q[0], q[1], q[2], q[3] = clampByte(nr), clampByte(ng), clampByte(nb), clampByte(na)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
