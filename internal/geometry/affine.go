// Package geometry resamples rasters: scaling, cropping, rotation and
// general affine warps. Interpolation is delegated to golang.org/x/image/draw.
package geometry

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine represents a 2D affine transformation matrix.
//
// The transformation is represented as a 3x3 matrix:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
//
// mapping source coordinates to destination coordinates.
type Affine struct {
	a, b, c float64 // x' = ax + by + c
	d, e, f float64 // y' = dx + ey + f
}

// NewAffine builds a transform from its two rows.
func NewAffine(a, b, c, d, e, f float64) Affine {
	return Affine{a: a, b: b, c: c, d: d, e: e, f: f}
}

// AffineFromMatrix reads a row-major 2x3 or 3x3 matrix. The bottom row
// of a 3x3 matrix must be (0, 0, 1); ok is false otherwise.
func AffineFromMatrix(m []float64) (Affine, bool) {
	switch len(m) {
	case 6:
	case 9:
		if m[6] != 0 || m[7] != 0 || m[8] != 1 {
			return Affine{}, false
		}
	default:
		return Affine{}, false
	}
	return NewAffine(m[0], m[1], m[2], m[3], m[4], m[5]), true
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Scale returns a scaling by (sx, sy) around the origin.
func Scale(sx, sy float64) Affine {
	return Affine{a: sx, e: sy}
}

// Rotation returns a rotation by angle radians around the origin. With y
// pointing down, positive angles turn clockwise on screen.
func Rotation(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		a: cos, b: -sin,
		d: sin, e: cos,
	}
}

// Multiply returns a·o: o is applied first, then a.
func (a Affine) Multiply(o Affine) Affine {
	return Affine{
		a: a.a*o.a + a.b*o.d,
		b: a.a*o.b + a.b*o.e,
		c: a.a*o.c + a.b*o.f + a.c,
		d: a.d*o.a + a.e*o.d,
		e: a.d*o.b + a.e*o.e,
		f: a.d*o.c + a.e*o.f + a.f,
	}
}

// Invert returns the inverse transformation, or false for a singular one.
func (a Affine) Invert() (Affine, bool) {
	det := a.a*a.e - a.b*a.d
	if math.Abs(det) < 1e-10 {
		return Affine{}, false
	}
	inv := 1 / det
	return Affine{
		a: a.e * inv,
		b: -a.b * inv,
		c: (a.b*a.f - a.c*a.e) * inv,
		d: -a.d * inv,
		e: a.a * inv,
		f: (a.c*a.d - a.a*a.f) * inv,
	}, true
}

// Apply maps the point (x, y).
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.a*x + a.b*y + a.c, a.d*x + a.e*y + a.f
}

// RotateAround rotates by angle around (cx, cy).
func RotateAround(angle, cx, cy float64) Affine {
	return Translate(cx, cy).Multiply(Rotation(angle)).Multiply(Translate(-cx, -cy))
}

// Aff3 converts to the x/image matrix form.
func (a Affine) Aff3() f64.Aff3 {
	return f64.Aff3{a.a, a.b, a.c, a.d, a.e, a.f}
}
