package sdf

import (
	"math"

	"github.com/soypat/gears/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

type SDF3Diff interface {
	SDF3
	SetMax(MaxFunc)
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf     SDF2
	height  float64
	extrude ExtrudeFunc
	// lip scales the profile distance when the
	// extrude function is not distance preserving.
	lip float64
	bb  r3.Box
}

// Extrude3D does a linear extrude on an SDF2. The extrusion
// is symmetric about z=0.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	s := extrude3{}
	s.sdf = sdf
	s.height = height / 2
	s.extrude = NormalExtrude
	s.lip = 1
	// work out the bounding box
	bb := sdf.Bounds()
	s.bb = r3.Box{Min: d3.FromR2(bb.Min, -s.height), Max: d3.FromR2(bb.Max, s.height)}
	return &s
}

// ShearExtrude3D extrudes an SDF2 while shifting it along x by skew per unit
// of height. The profile is centered at z=0, so the faces at z=±height/2
// are offset by ±skew*height/2. A skew of tan(beta) produces a helical
// rack cutter of helix angle beta.
func ShearExtrude3D(sdf SDF2, height, skew float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	s := extrude3{}
	s.sdf = sdf
	s.height = height / 2
	s.extrude = ShearExtrude(skew)
	s.lip = 1 / math.Hypot(1, skew)
	bb := sdf.Bounds()
	shift := math.Abs(skew) * s.height
	s.bb = r3.Box{
		Min: r3.Vec{X: bb.Min.X - shift, Y: bb.Min.Y, Z: -s.height},
		Max: r3.Vec{X: bb.Max.X + shift, Y: bb.Max.Y, Z: s.height},
	}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(s.extrude(p)) * s.lip
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	// return the intersection
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// transform3 is an SDF3 moved by a rigid transform.
type transform3 struct {
	sdf     SDF3
	inverse d3.Transform
	bb      r3.Box
}

// Transform3D moves an SDF3 by the rigid transform t.
func Transform3D(sdf SDF3, t d3.Transform) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	s := transform3{}
	s.sdf = sdf
	s.inverse = t.Inv()
	s.bb = r3.Box(t.ApplyBox(d3.Box(sdf.Bounds())))
	return &s
}

// Evaluate returns the minimum distance to a transformed SDF3.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.Apply(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
	// pruned is true while max is math.Max.
	pruned bool
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3Diff {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	s := diff3{}
	s.s0 = s0
	s.s1 = s1
	s.max = math.Max
	s.pruned = true
	s.bb = s0.Bounds()
	return &s
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	d0 := s.s0.Evaluate(p)
	// A point far enough outside the subtrahend bounds cannot be affected by it.
	if d0 >= -boxDist(d3.Box(s.s1.Bounds()), p) && s.pruned {
		return d0
	}
	return s.max(d0, -s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *diff3) SetMax(max MaxFunc) {
	s.max = max
	s.pruned = false
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// boxDist returns the euclidean distance from p to the box, zero inside.
func boxDist(b d3.Box, p r3.Vec) float64 {
	dx := math.Max(0, math.Max(b.Min.X-p.X, p.X-b.Max.X))
	dy := math.Max(0, math.Max(b.Min.Y-p.Y, p.Y-b.Max.Y))
	dz := math.Max(0, math.Max(b.Min.Z-p.Z, p.Z-b.Max.Z))
	return r3.Norm(r3.Vec{X: dx, Y: dy, Z: dz})
}

// Slice2D returns the cross section of an SDF3 by the plane z=z0.
func Slice2D(sdf SDF3, z0 float64) SDF2 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	bb := sdf.Bounds()
	return &slice2{
		sdf: sdf,
		z:   z0,
		bb:  r2.Box{Min: r2.Vec{X: bb.Min.X, Y: bb.Min.Y}, Max: r2.Vec{X: bb.Max.X, Y: bb.Max.Y}},
	}
}

type slice2 struct {
	sdf SDF3
	z   float64
	bb  r2.Box
}

func (s *slice2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(d3.FromR2(p, s.z))
}

func (s *slice2) Bounds() r2.Box { return s.bb }
