// Package rack builds the straight toothed cutter that generates involute
// gears by hobbing.
//
// Rack coordinates: the pitch line is y=0 and teeth point in +y, toward the
// center of the gear being cut. Tooth tips reach y=hf and cut the root
// circle, the gaps between teeth reach down to y=-ha and trim the tip
// circle. A base bar 3m tall carries the teeth below y=-ha.
package rack

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/gears/form2"
	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/kernel"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate is returned when the tooth shape of a rack collapses: no tip
// land, no gap between teeth or fillets that do not fit.
var ErrDegenerate = errors.New("rack: degenerate tooth")

// ExtraTeeth is the number of teeth added to the largest tooth count of a
// group so the rack covers the whole blank circumference while rolling.
const ExtraTeeth = 4

const filletFacets = 8

// Rack is a cutter shared by every gear of a compatible group. It is
// immutable once built.
type Rack struct {
	params  gear.Parameters
	teeth   int
	width   float64
	outline []r2.Vec
	profile kernel.Profile
	solid   kernel.Solid
}

// New builds the rack for the gears of params selected by group. The first
// member of group leads: its module, angles and coefficients shape the
// teeth. The rack is long enough for the largest tooth count plus
// ExtraTeeth and as wide as the widest member.
func New(k kernel.Kernel, params []gear.Parameters, group []int) (*Rack, error) {
	if len(group) == 0 {
		return nil, errors.New("rack: empty group")
	}
	for _, i := range group {
		if i < 0 || i >= len(params) {
			return nil, fmt.Errorf("rack: group index %d out of range [0,%d)", i, len(params))
		}
	}
	leader := params[group[0]]
	maxZ, width := leader.Z, leader.B
	for _, i := range group[1:] {
		maxZ = max(maxZ, params[i].Z)
		width = math.Max(width, params[i].B)
	}
	teeth := maxZ + ExtraTeeth

	r := &Rack{params: leader, teeth: teeth, width: width}
	var err error
	r.outline, err = Outline(leader, teeth)
	if err != nil {
		return nil, err
	}
	r.profile, err = profile(k, leader, teeth)
	if err != nil {
		return nil, fmt.Errorf("rack: building profile: %w", err)
	}
	if leader.Helical() {
		r.solid, err = k.Sweep(r.profile, width, math.Tan(leader.BetaRad))
	} else {
		r.solid, err = k.Extrude(r.profile, width)
	}
	if err != nil {
		return nil, fmt.Errorf("rack: building solid: %w", err)
	}
	return r, nil
}

// Params returns the parameters of the group leader.
func (r *Rack) Params() gear.Parameters { return r.params }

// Teeth returns the number of teeth of the rack.
func (r *Rack) Teeth() int { return r.teeth }

// Length returns the length of the rack along x.
func (r *Rack) Length() float64 { return float64(r.teeth) * r.params.P }

// Width returns the extent of the rack along z.
func (r *Rack) Width() float64 { return r.width }

// Profile returns the 2D cross section of the rack in the kernel it was
// built with.
func (r *Rack) Profile() kernel.Profile { return r.profile }

// Solid returns the rack cutter solid, symmetric about z=0.
func (r *Rack) Solid() kernel.Solid { return r.solid }

// Outline returns a copy of the closed counter clockwise outline.
func (r *Rack) Outline() []r2.Vec {
	return append([]r2.Vec(nil), r.outline...)
}

// tooth holds the measurements of one rack tooth.
type tooth struct {
	ha, hf float64 // root depth below and tip height above the pitch line
	root   float64 // half width at y=-ha
	tip    float64 // half width at y=hf
	rho    float64 // fillet radius
	bar    float64 // base bar height
}

func measure(p gear.Parameters) (tooth, error) {
	ta := math.Tan(p.AlphaTRad)
	// half width is p/4 on the datum line at y=-x*m.
	half := func(y float64) float64 { return p.P/4 - (p.X*p.M+y)*ta }
	t := tooth{
		ha:   p.Ha,
		hf:   p.Hf,
		root: half(-p.Ha),
		tip:  half(p.Hf),
		rho:  p.RhoF,
		bar:  3 * p.M,
	}
	// distance from a corner to the fillet tangent points. Tip and root
	// corners both open at 90+alpha degrees.
	d1 := t.rho * math.Tan(math.Pi/4-p.AlphaTRad/2)
	flank := (t.ha + t.hf) / math.Cos(p.AlphaTRad)
	gap := p.P - 2*t.root
	switch {
	case t.tip <= 0:
		return t, fmt.Errorf("%w: tip land %g", ErrDegenerate, 2*t.tip)
	case gap <= 0:
		return t, fmt.Errorf("%w: gap between teeth %g", ErrDegenerate, gap)
	case t.ha+t.hf <= 0:
		return t, fmt.Errorf("%w: tooth height %g", ErrDegenerate, t.ha+t.hf)
	case 2*t.tip < 2*d1, gap < 2*d1, flank < 2*d1:
		return t, fmt.Errorf("%w: fillet radius %g does not fit", ErrDegenerate, t.rho)
	}
	return t, nil
}

// Outline returns the closed counter clockwise outline of a rack with
// teeth teeth for gear p, centered about x=0. Tip and root corners are
// rounded by the gear's root fillet radius; the four bar corners stay sharp.
func Outline(p gear.Parameters, teeth int) ([]r2.Vec, error) {
	if teeth <= 0 {
		return nil, fmt.Errorf("rack: invalid tooth count %d", teeth)
	}
	t, err := measure(p)
	if err != nil {
		return nil, err
	}
	half := float64(teeth) * p.P / 2
	b := form2.NewPolygon()
	b.Close()
	b.Add(-half, -t.ha-t.bar)
	b.Add(half, -t.ha-t.bar)
	b.Add(half, -t.ha)
	for k := teeth - 1; k >= 0; k-- {
		c := (float64(k) - float64(teeth-1)/2) * p.P
		b.Add(c+t.root, -t.ha).Smooth(t.rho, filletFacets)
		b.Add(c+t.tip, t.hf).Smooth(t.rho, filletFacets)
		b.Add(c-t.tip, t.hf).Smooth(t.rho, filletFacets)
		b.Add(c-t.root, -t.ha).Smooth(t.rho, filletFacets)
	}
	b.Add(-half, -t.ha)
	v, err := form2.Vertices(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	return v, nil
}

// profile builds the rack cross section from one period of the outline,
// a tooth and the bar below it, repeated along x. The copies meet on the
// period boundaries, so the union has the same fillets as Outline.
func profile(k kernel.Kernel, p gear.Parameters, teeth int) (kernel.Profile, error) {
	t, err := measure(p)
	if err != nil {
		return nil, err
	}
	half := p.P / 2
	b := form2.NewPolygon()
	b.Close()
	b.Add(-half, -t.ha-t.bar)
	b.Add(half, -t.ha-t.bar)
	b.Add(half, -t.ha)
	b.Add(t.root, -t.ha).Smooth(t.rho, filletFacets)
	b.Add(t.tip, t.hf).Smooth(t.rho, filletFacets)
	b.Add(-t.tip, t.hf).Smooth(t.rho, filletFacets)
	b.Add(-t.root, -t.ha).Smooth(t.rho, filletFacets)
	b.Add(-half, -t.ha)
	loop, err := form2.Vertices(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	single, err := k.Polygon(loop)
	if err != nil {
		return nil, err
	}
	return k.Repeat(single, teeth, p.P)
}
