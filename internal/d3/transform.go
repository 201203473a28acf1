package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid motion made of a turn about the z axis followed by
// a translation, the only placement a rack needs while rolling around a
// blank. The zero value of Transform is the identity.
type Transform struct {
	// the cosine is stored minus one so the zero value turns by nothing.
	sin, dcos float64
	move      r3.Vec
}

// RotateZ returns a counter clockwise turn of theta radians about the z axis.
func RotateZ(theta float64) Transform {
	s, c := math.Sincos(theta)
	return Transform{sin: s, dcos: c - 1}
}

// Translate returns a translation by v.
func Translate(v r3.Vec) Transform {
	return Transform{move: v}
}

// Angle returns the turn of t about the z axis in (-pi, pi].
func (t Transform) Angle() float64 {
	return math.Atan2(t.sin, t.dcos+1)
}

// Offset returns the translation of t, where it moves the origin.
func (t Transform) Offset() r3.Vec { return t.move }

func (t Transform) turn(v r3.Vec) r3.Vec {
	c := t.dcos + 1
	return r3.Vec{X: c*v.X - t.sin*v.Y, Y: t.sin*v.X + c*v.Y, Z: v.Z}
}

// Apply applies the Transform to v and returns the result.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	return r3.Add(t.turn(v), t.move)
}

// Mul returns the composition t*b, which applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	ct, cb := t.dcos+1, b.dcos+1
	return Transform{
		sin:  t.sin*cb + ct*b.sin,
		dcos: ct*cb - t.sin*b.sin - 1,
		move: t.Apply(b.move),
	}
}

// Inv returns the inverse of t, so that t.Inv().Mul(t) is the identity.
func (t Transform) Inv() Transform {
	inv := Transform{sin: -t.sin, dcos: t.dcos}
	inv.move = r3.Scale(-1, inv.turn(t.move))
	return inv
}

// ApplyBox returns the axis aligned box enclosing the transformed corners
// of box.
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
