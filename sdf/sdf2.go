package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/gears/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D signed distance function utility functions.

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate takes a point in 2D space as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64

	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

type SDF2Union interface {
	SDF2
	SetMin(MinFunc)
}

// union2 is a union of multiple SDF2 objects.
type union2 struct {
	sdf []SDF2
	min MinFunc
	bb  r2.Box
}

// Union2D returns the union of multiple SDF2 objects.
// Union2D panics if less than two arguments are passed or
// if an argument is nil.
func Union2D(sdf ...SDF2) SDF2Union {
	if len(sdf) < 2 {
		panic("union requires at least 2 sdfs")
	}
	s := union2{sdf: sdf}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union2D")
		}
	}
	// work out the bounding box
	bb := d2.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d2.Box(x.Bounds()))
	}
	s.bb = r2.Box(bb)
	s.min = math.Min
	return &s
}

// Evaluate returns the minimum distance to the SDF2 union.
func (s *union2) Evaluate(p r2.Vec) float64 {
	// work out the min/max distance for every bounding box
	var buf [8]r2.Vec
	vs := buf[:0]
	if len(s.sdf) > len(buf) {
		vs = make([]r2.Vec, 0, len(s.sdf))
	}
	minIndex := 0
	for i := range s.sdf {
		vs = append(vs, d2.Box(s.sdf[i].Bounds()).MinMaxDist2(p))
		// record the sdf with the minimum minimum d2 value
		if vs[i].X < vs[minIndex].X {
			minIndex = i
		}
	}
	var d float64
	first := true
	for i := range s.sdf {
		// only an sdf whose min/max distances overlap
		// the minimum box are worthy of consideration
		if i != minIndex && !d2.Overlap(vs[minIndex], vs[i]) {
			continue
		}
		x := s.sdf[i].Evaluate(p)
		if first {
			first = false
			d = x
		} else {
			d = s.min(d, x)
		}
	}
	return d
}

// SetMin sets the minimum function to control SDF2 blending.
func (s *union2) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF2 union.
func (s *union2) Bounds() r2.Box {
	return s.bb
}

// repeatX2 repeats an SDF2 a fixed number of times along the x axis.
type repeatX2 struct {
	sdf    SDF2
	num    int
	period float64
	x0     float64 // x offset of the first copy
	bb     r2.Box
}

// RepeatX2D returns num copies of sdf spaced period apart along x and
// centered about x=0. Only the nearest copies are evaluated so the cost
// does not grow with num. The copies must not extend past their neighbors.
func RepeatX2D(sdf SDF2, num int, period float64) SDF2 {
	if sdf == nil {
		panic("nil sdf argument to RepeatX2D")
	}
	if num <= 0 || period <= 0 {
		panic("invalid repeat count or period")
	}
	s := repeatX2{
		sdf:    sdf,
		num:    num,
		period: period,
		x0:     -float64(num-1) * period / 2,
	}
	bb := d2.Box(sdf.Bounds())
	s.bb = r2.Box(bb.Translate(r2.Vec{X: s.x0}).Extend(bb.Translate(r2.Vec{X: -s.x0})))
	return &s
}

// Evaluate returns the minimum distance to the nearest copies.
func (s *repeatX2) Evaluate(p r2.Vec) float64 {
	k := int(math.Round((p.X - s.x0) / s.period))
	k = clampInt(k, 0, s.num-1)
	d := math.MaxFloat64
	for i := k - 1; i <= k+1; i++ {
		if i < 0 || i >= s.num {
			continue
		}
		q := r2.Vec{X: p.X - s.x0 - float64(i)*s.period, Y: p.Y}
		d = math.Min(d, s.sdf.Evaluate(q))
	}
	return d
}

// Bounds returns the bounding box of all copies.
func (s *repeatX2) Bounds() r2.Box {
	return s.bb
}

// transform2 is an SDF2 under a rigid 2d transform.
type transform2 struct {
	sdf     SDF2
	inverse d2.Transform
	bb      r2.Box
}

// Transform2D applies a transform to an SDF2.
// Distance is only preserved for rigid transforms.
func Transform2D(sdf SDF2, t d2.Transform) SDF2 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	return &transform2{
		sdf:     sdf,
		inverse: t.Inv(),
		bb:      r2.Box(t.ApplyBox(d2.Box(sdf.Bounds()))),
	}
}

// Evaluate returns the minimum distance to a transformed SDF2.
func (s *transform2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.Apply(p))
}

// Bounds returns the bounding box of a transformed SDF2.
func (s *transform2) Bounds() r2.Box {
	return s.bb
}
