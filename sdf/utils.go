package sdf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// MinFunc is a minimum functions for SDF blending.
type MinFunc func(a, b float64) float64

// MaxFunc is a maximum function for SDF blending.
type MaxFunc func(a, b float64) float64

func clampInt(x, a, b int) int {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// RoundMin returns a minimum function that uses a quarter-circle to join the two objects smoothly.
func RoundMin(k float64) MinFunc {
	return func(a, b float64) float64 {
		u := r2.Vec{X: math.Max(k-a, 0), Y: math.Max(k-b, 0)}
		return math.Max(k, math.Min(a, b)) - r2.Norm(u)
	}
}

// ExtrudeFunc maps r3.Vec to r2.Vec, the point used to evaluate the SDF2.
type ExtrudeFunc func(p r3.Vec) r2.Vec

// NormalExtrude returns an extrusion function.
func NormalExtrude(p r3.Vec) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// ShearExtrude returns an extrusion function that shifts the
// profile along x proportionally to z.
func ShearExtrude(skew float64) ExtrudeFunc {
	return func(p r3.Vec) r2.Vec {
		return r2.Vec{X: p.X - p.Z*skew, Y: p.Y}
	}
}
