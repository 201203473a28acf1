package must2

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const tolerance = 1e-9

// ErrFillet is the panic value of a polygon builder whose
// smoothing radius does not fit between the adjacent vertices.
var ErrFillet = errors.New("fillet radius too large for vertex")

// circle is the 2d signed distance object for a circle.
type circle struct {
	radius float64
	bb     r2.Box
}

// Circle returns the SDF2 for a 2d circle.
func Circle(radius float64) *circle {
	if radius <= 0 {
		panic("radius <= 0")
	}
	s := circle{}
	s.radius = radius
	d := r2.Vec{X: radius, Y: radius}
	s.bb = r2.Box{Min: r2.Scale(-1, d), Max: d}
	return &s
}

// Evaluate returns the minimum distance to a 2d circle.
func (s *circle) Evaluate(p r2.Vec) float64 {
	return r2.Norm(p) - s.radius
}

// Bounds returns the bounding box of a 2d circle.
func (s *circle) Bounds() r2.Box {
	return s.bb
}

func sign(x float64) float64 {
	if x == 0 {
		return 0
	}
	return math.Copysign(1, x)
}
