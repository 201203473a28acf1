package kernel

import (
	"errors"
	"fmt"

	"github.com/soypat/gears/form2"
	"github.com/soypat/gears/internal/d3"
	"github.com/soypat/gears/render"
	"github.com/soypat/gears/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ Kernel = native{}

type native struct{}

// Native returns the Kernel implemented on this module's own
// signed distance functions.
func Native() Kernel { return native{} }

func (native) Polygon(loop []r2.Vec) (Profile, error) {
	if form2.SelfIntersects(loop) {
		return nil, errors.New("kernel: self intersecting polygon")
	}
	return form2.Polygon(loop)
}

func (native) Circle(radius float64) (Profile, error) {
	return form2.Circle(radius)
}

func (native) Union(fillet float64, profiles ...Profile) (Profile, error) {
	for _, p := range profiles {
		if p == nil {
			return nil, ErrNil
		}
	}
	switch len(profiles) {
	case 0:
		return nil, errors.New("kernel: union of no profiles")
	case 1:
		return profiles[0], nil
	}
	u := sdf.Union2D(profiles...)
	if fillet > 0 {
		u.SetMin(sdf.RoundMin(fillet))
	}
	return u, nil
}

func (native) Repeat(p Profile, count int, period float64) (Profile, error) {
	if p == nil {
		return nil, ErrNil
	}
	if count <= 0 || period <= 0 {
		return nil, fmt.Errorf("kernel: invalid repeat count %d or period %g", count, period)
	}
	if count == 1 {
		return p, nil
	}
	return sdf.RepeatX2D(p, count, period), nil
}

func (native) Extrude(p Profile, depth float64) (Solid, error) {
	if p == nil {
		return nil, ErrNil
	}
	if depth <= 0 {
		return nil, fmt.Errorf("kernel: extrusion depth must be positive, got %g", depth)
	}
	return sdf.Extrude3D(p, depth), nil
}

func (native) Sweep(p Profile, depth, skew float64) (Solid, error) {
	if p == nil {
		return nil, ErrNil
	}
	if depth <= 0 {
		return nil, fmt.Errorf("kernel: sweep depth must be positive, got %g", depth)
	}
	if skew == 0 {
		return sdf.Extrude3D(p, depth), nil
	}
	return sdf.ShearExtrude3D(p, depth, skew), nil
}

func (native) Subtract(a, b Solid) (Solid, error) {
	if a == nil || b == nil {
		return nil, ErrNil
	}
	return sdf.Difference3D(a, b), nil
}

func (native) Place(s Solid, offset r3.Vec, angle float64) (Solid, error) {
	if s == nil {
		return nil, ErrNil
	}
	t := d3.RotateZ(angle).Mul(d3.Translate(offset))
	return sdf.Transform3D(s, t), nil
}

func (native) Mesh(s Solid, cells int) ([]render.Triangle3, error) {
	return render.MarchingCubes(s, cells)
}
