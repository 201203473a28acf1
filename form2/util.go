package form2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Area returns the signed area of a closed polygon loop.
// Counter clockwise loops have positive area.
func Area(loop []r2.Vec) float64 {
	var a float64
	for i := range loop {
		j := (i + 1) % len(loop)
		a += loop[i].X*loop[j].Y - loop[j].X*loop[i].Y
	}
	return a / 2
}

// SelfIntersects reports whether two non-adjacent edges of a closed
// polygon loop cross.
func SelfIntersects(loop []r2.Vec) bool {
	n := len(loop)
	for i := 0; i < n; i++ {
		a0, a1 := loop[i], loop[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			b0, b1 := loop[j], loop[(j+1)%n]
			if segmentsCross(a0, a1, b0, b1) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a0, a1, b0, b1 r2.Vec) bool {
	d1 := orient(b0, b1, a0)
	d2 := orient(b0, b1, a1)
	d3 := orient(a0, a1, b0)
	d4 := orient(a0, a1, b1)
	return d1*d2 < 0 && d3*d4 < 0
}

func orient(a, b, c r2.Vec) float64 {
	v := r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
	if math.Abs(v) < 1e-12 {
		return 0
	}
	return v
}
