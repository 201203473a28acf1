// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/gears/kernel"
	"github.com/soypat/gears/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

// profile wraps an sdf.SDF2 to implement kernel.Profile.
type profile struct {
	s sdf.SDF2
}

func (p profile) Evaluate(q r2.Vec) float64 {
	return p.s.Evaluate(v2.Vec{X: q.X, Y: q.Y})
}

func (p profile) Bounds() r2.Box {
	bb := p.s.BoundingBox()
	return r2.Box{
		Min: r2.Vec{X: bb.Min.X, Y: bb.Min.Y},
		Max: r2.Vec{X: bb.Max.X, Y: bb.Max.Y},
	}
}

// solid wraps an sdf.SDF3 to implement kernel.Solid.
type solid struct {
	s sdf.SDF3
}

func (s solid) Evaluate(p r3.Vec) float64 {
	return s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (s solid) Bounds() r3.Box {
	bb := s.s.BoundingBox()
	return r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// foreign2 adapts a profile built by another kernel.
type foreign2 struct {
	p kernel.Profile
}

func (f foreign2) Evaluate(q v2.Vec) float64 {
	return f.p.Evaluate(r2.Vec{X: q.X, Y: q.Y})
}

func (f foreign2) BoundingBox() sdf.Box2 {
	bb := f.p.Bounds()
	return sdf.Box2{Min: v2.Vec{X: bb.Min.X, Y: bb.Min.Y}, Max: v2.Vec{X: bb.Max.X, Y: bb.Max.Y}}
}

// foreign3 adapts a solid built by another kernel.
type foreign3 struct {
	s kernel.Solid
}

func (f foreign3) Evaluate(p v3.Vec) float64 {
	return f.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (f foreign3) BoundingBox() sdf.Box3 {
	bb := f.s.Bounds()
	return sdf.Box3{
		Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// unwrap2 extracts the underlying sdf.SDF2 from a kernel.Profile.
func unwrap2(p kernel.Profile) sdf.SDF2 {
	if w, ok := p.(profile); ok {
		return w.s
	}
	return foreign2{p: p}
}

// unwrap3 extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap3(s kernel.Solid) sdf.SDF3 {
	if w, ok := s.(solid); ok {
		return w.s
	}
	return foreign3{s: s}
}

// Polygon returns the region enclosed by loop.
func (k *Kernel) Polygon(loop []r2.Vec) (kernel.Profile, error) {
	vs := make([]v2.Vec, len(loop))
	for i, v := range loop {
		vs[i] = v2.Vec{X: v.X, Y: v.Y}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return profile{s: s}, nil
}

// Circle returns a disc of the given radius.
func (k *Kernel) Circle(radius float64) (kernel.Profile, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
	}
	return profile{s: s}, nil
}

// Union joins profiles, rounding the joints by fillet.
func (k *Kernel) Union(fillet float64, profiles ...kernel.Profile) (kernel.Profile, error) {
	if len(profiles) == 0 {
		return nil, errors.New("sdfx: union of no profiles")
	}
	ss := make([]sdf.SDF2, len(profiles))
	for i, p := range profiles {
		if p == nil {
			return nil, kernel.ErrNil
		}
		ss[i] = unwrap2(p)
	}
	if len(ss) == 1 {
		return profiles[0], nil
	}
	u := sdf.Union2D(ss...)
	if fillet > 0 {
		setter, ok := u.(interface{ SetMin(sdf.MinFunc) })
		if !ok {
			return nil, errors.New("sdfx: union does not support blending")
		}
		setter.SetMin(sdf.RoundMin(fillet))
	}
	return profile{s: u}, nil
}

// Repeat unions count translated copies of p.
func (k *Kernel) Repeat(p kernel.Profile, count int, period float64) (kernel.Profile, error) {
	if p == nil {
		return nil, kernel.ErrNil
	}
	if count <= 0 || period <= 0 {
		return nil, fmt.Errorf("sdfx: invalid repeat count %d or period %g", count, period)
	}
	if count == 1 {
		return p, nil
	}
	s := unwrap2(p)
	x0 := -float64(count-1) * period / 2
	copies := make([]sdf.SDF2, count)
	for i := range copies {
		copies[i] = sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: x0 + float64(i)*period}))
	}
	return profile{s: sdf.Union2D(copies...)}, nil
}

// Extrude extrudes p symmetrically about z=0.
func (k *Kernel) Extrude(p kernel.Profile, depth float64) (kernel.Solid, error) {
	if p == nil {
		return nil, kernel.ErrNil
	}
	if depth <= 0 {
		return nil, fmt.Errorf("sdfx: extrusion depth must be positive, got %g", depth)
	}
	return solid{s: sdf.Extrude3D(unwrap2(p), depth)}, nil
}

// Sweep extrudes p while shearing it along x by skew per unit z.
func (k *Kernel) Sweep(p kernel.Profile, depth, skew float64) (kernel.Solid, error) {
	if skew == 0 {
		return k.Extrude(p, depth)
	}
	if p == nil {
		return nil, kernel.ErrNil
	}
	if depth <= 0 {
		return nil, fmt.Errorf("sdfx: sweep depth must be positive, got %g", depth)
	}
	s := unwrap2(p)
	bb := s.BoundingBox()
	h := depth / 2
	shift := math.Abs(skew) * h
	return solid{s: &shear3{
		sdf:  s,
		h:    h,
		skew: skew,
		lip:  1 / math.Hypot(1, skew),
		bb: sdf.Box3{
			Min: v3.Vec{X: bb.Min.X - shift, Y: bb.Min.Y, Z: -h},
			Max: v3.Vec{X: bb.Max.X + shift, Y: bb.Max.Y, Z: h},
		},
	}}, nil
}

// shear3 is a sheared extrusion. sdfx extrusions take their
// bounding box from the profile so the shear needs its own type.
type shear3 struct {
	sdf  sdf.SDF2
	h    float64
	skew float64
	lip  float64
	bb   sdf.Box3
}

func (s *shear3) Evaluate(p v3.Vec) float64 {
	a := s.sdf.Evaluate(v2.Vec{X: p.X - p.Z*s.skew, Y: p.Y}) * s.lip
	return math.Max(a, math.Abs(p.Z)-s.h)
}

func (s *shear3) BoundingBox() sdf.Box3 { return s.bb }

// Subtract returns a - b.
func (k *Kernel) Subtract(a, b kernel.Solid) (kernel.Solid, error) {
	if a == nil || b == nil {
		return nil, kernel.ErrNil
	}
	return solid{s: sdf.Difference3D(unwrap3(a), unwrap3(b))}, nil
}

// Place translates s by offset then rotates it about z.
func (k *Kernel) Place(s kernel.Solid, offset r3.Vec, angle float64) (kernel.Solid, error) {
	if s == nil {
		return nil, kernel.ErrNil
	}
	m := sdf.RotateZ(angle).Mul(sdf.Translate3d(v3.Vec{X: offset.X, Y: offset.Y, Z: offset.Z}))
	return solid{s: sdf.Transform3D(unwrap3(s), m)}, nil
}

// Mesh converts a solid to triangles using marching cubes.
func (k *Kernel) Mesh(s kernel.Solid, cells int) ([]render.Triangle3, error) {
	if s == nil {
		return nil, kernel.ErrNil
	}
	return render.MarchingCubesSDFX(unwrap3(s), cells)
}
