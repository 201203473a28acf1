package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// rack placement of a hobbing step: shift along the pitch line, then roll.
func placement(shift, r float64) Transform {
	return RotateZ(shift / r).Mul(Translate(r3.Vec{X: -shift, Y: -r}))
}

func TestPlacementInverse(t *testing.T) {
	const tol = 1e-12
	for _, shift := range []float64{0, 0.3, -12.5, 31.4} {
		tf := placement(shift, 20)
		p := r3.Vec{X: 1, Y: 2, Z: 3}
		if got := tf.Inv().Apply(tf.Apply(p)); !EqualWithin(got, p, tol) {
			t.Errorf("shift=%g: round trip got %v, want %v", shift, got, p)
		}
		if got := tf.Inv().Mul(tf); !EqualWithin(got.Offset(), r3.Vec{}, tol) || math.Abs(got.Angle()) > tol {
			t.Errorf("shift=%g: inverse composition is not identity: %+v", shift, got)
		}
	}
}

func TestPlacementRolls(t *testing.T) {
	const r = 20
	// the rack point at the contact lands on the pitch circle below the
	// blank center, turned by the rolled arc.
	for _, shift := range []float64{-5, 0, 7} {
		got := placement(shift, r).Apply(r3.Vec{X: shift, Z: 1})
		want := r3.Vec{X: r * math.Sin(shift/r), Y: -r * math.Cos(shift/r), Z: 1}
		if !EqualWithin(got, want, 1e-12) {
			t.Errorf("shift=%g: got %v, want %v", shift, got, want)
		}
	}
	if got := placement(3, r).Angle(); math.Abs(got-3.0/r) > 1e-15 {
		t.Errorf("angle %g, want %g", got, 3.0/r)
	}
}

func TestRotateZDirection(t *testing.T) {
	got := RotateZ(math.Pi / 2).Apply(r3.Vec{X: 1})
	if !EqualWithin(got, r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("quarter turn of x axis: got %v, want +y", got)
	}
	if (Transform{}).Apply(r3.Vec{X: 4, Z: -1}) != (r3.Vec{X: 4, Z: -1}) {
		t.Error("zero value must be the identity")
	}
}

func TestApplyBox(t *testing.T) {
	box := Box{Min: r3.Vec{X: -1, Y: -1, Z: -2}, Max: r3.Vec{X: 1, Y: 1, Z: 2}}
	got := RotateZ(math.Pi / 4).ApplyBox(box)
	want := math.Sqrt2
	if math.Abs(got.Max.X-want) > 1e-12 || math.Abs(got.Min.Y+want) > 1e-12 {
		t.Errorf("rotated box: got %+v", got)
	}
	if got.Max.Z != 2 || got.Min.Z != -2 {
		t.Errorf("z extent changed: %+v", got)
	}
	moved := Translate(r3.Vec{Z: 1}).ApplyBox(box)
	if !moved.Equals(Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 3}}, 0) {
		t.Errorf("translated box: got %+v", moved)
	}
}
