package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform represents a 2D affine transformation. It stores the
// top two rows of a 3x3 homogeneous matrix since the last row of
// a 2D affine transform is always [0 0 1].
// The zero value of Transform is the identity transform.
type Transform struct {
	// diagonal stored with the identity subtracted:
	//  d00 = x00-1, d11 = x11-1
	d00, x01, x02 float64
	x10, d11, x12 float64
}

// Rotate returns a counter clockwise rotation by theta radians about the origin.
func Rotate(theta float64) Transform {
	s, c := math.Sincos(theta)
	return Transform{
		d00: c - 1, x01: -s,
		x10: s, d11: c - 1,
	}
}

// Translate returns a translation by v.
func Translate(v r2.Vec) Transform {
	return Transform{x02: v.X, x12: v.Y}
}

// MirrorX returns a reflection about the x axis (y -> -y).
func MirrorX() Transform {
	return Transform{d11: -2}
}

// Apply applies the Transform to the argument vector and returns the result.
func (t Transform) Apply(v r2.Vec) r2.Vec {
	return r2.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12,
	}
}

// ApplySet applies the Transform to every point of set and
// returns the results in a newly allocated slice.
func (t Transform) ApplySet(set []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(set))
	for i, v := range set {
		out[i] = t.Apply(v)
	}
	return out
}

// Mul returns the composition t*b, which applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	x00, x11 := t.d00+1, t.d11+1
	y00, y11 := b.d00+1, b.d11+1
	return Transform{
		d00: x00*y00 + t.x01*b.x10 - 1,
		x01: x00*b.x01 + t.x01*y11,
		x02: x00*b.x02 + t.x01*b.x12 + t.x02,
		x10: t.x10*y00 + x11*b.x10,
		d11: t.x10*b.x01 + x11*y11 - 1,
		x12: t.x10*b.x02 + x11*b.x12 + t.x12,
	}
}

// Det returns the determinant of the linear part of the transform.
func (t Transform) Det() float64 {
	return (t.d00+1)*(t.d11+1) - t.x01*t.x10
}

// Inv returns the inverse of the transform such that
// t.Inv().Mul(t) is the identity Transform.
// If the transform is singular Inv panics.
func (t Transform) Inv() Transform {
	if t == (Transform{}) {
		return t
	}
	det := t.Det()
	if math.Abs(det) < 1e-16 {
		panic("singular transform")
	}
	d := 1 / det
	x00, x11 := t.d00+1, t.d11+1
	i00 := x11 * d
	i01 := -t.x01 * d
	i10 := -t.x10 * d
	i11 := x00 * d
	return Transform{
		d00: i00 - 1, x01: i01, x02: -(i00*t.x02 + i01*t.x12),
		x10: i10, d11: i11 - 1, x12: -(i10*t.x02 + i11*t.x12),
	}
}

// ApplyBox transforms a 2d bounding box and resizes it for axis-alignment.
func (t Transform) ApplyBox(box Box) Box {
	if t == (Transform{}) {
		return box
	}
	vs := box.Vertices()
	out := Box{Min: t.Apply(vs[0]), Max: t.Apply(vs[0])}
	for _, v := range vs[1:] {
		out = out.Include(t.Apply(v))
	}
	return out
}
