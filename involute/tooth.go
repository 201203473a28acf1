package involute

import (
	"fmt"
	"math"

	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/internal/d2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// FlankProfile is one assembled tooth flank: the root trochoid from the
// root circle up to the transition point followed by the involute from the
// transition point up to the tip.
type FlankProfile struct {
	Flank    Flank
	Trochoid []r2.Vec // root circle to transition point
	Involute []r2.Vec // transition point to tip

	// Roll angles bounding the two curves.
	PhiRoot       float64 // trochoid at the root circle
	PhiTransition Solution2
	PhiTip        float64 // involute at the tip, clamped when pointed

	// Undercut is set when the trochoid crosses the involute instead of
	// running into it tangentially. CrossingAngle is the angle between
	// the two curves at the transition point.
	Undercut      bool
	CrossingAngle float64
	// Pointed is set when the flanks meet below the tip circle.
	Pointed bool
	// Apex is the self intersection solve, valid when Pointed is set.
	Apex Solution
}

// Points returns the flank from root to tip.
func (fp *FlankProfile) Points() []r2.Vec {
	pts := make([]r2.Vec, 0, len(fp.Trochoid)+len(fp.Involute))
	pts = append(pts, fp.Trochoid...)
	if len(fp.Trochoid) > 0 && len(fp.Involute) > 0 &&
		r2.Norm(r2.Sub(fp.Trochoid[len(fp.Trochoid)-1], fp.Involute[0])) < 1e-6 {
		return append(pts, fp.Involute[1:]...)
	}
	return append(pts, fp.Involute...)
}

// Tooth assembles flank f of a tooth of gear p sampling each of its two
// curves with n points.
func Tooth(p gear.Parameters, n int, f Flank) (FlankProfile, error) {
	if n < 2 {
		return FlankProfile{}, fmt.Errorf("%w: need at least 2 points per curve, got %d", ErrDomain, n)
	}
	sg := f.sign()
	fp := FlankProfile{Flank: f}
	dp, db, df, da, alpha := p.D, p.Db, p.Df, p.Da, p.AlphaTRad

	gamma, err := HalfBaseToothAngle(p.M, dp, db)
	if err != nil {
		return FlankProfile{}, err
	}
	shift := ShiftAngle(p)
	tip, err := PhiAtDiameter(da, db, f)
	if err != nil {
		return FlankProfile{}, err
	}
	apex, err := selfIntersection(sg*tip, gamma+shift, Newton{})
	if err != nil {
		return FlankProfile{}, err
	}
	if apex.Status == Converged && apex.Value > 0 && apex.Value < sg*tip {
		fp.Pointed = true
		fp.Apex = apex
		tip = sg * apex.Value
	}
	fp.PhiTip = tip

	fp.PhiRoot = UndercutPhi0(dp, df, alpha, f)
	fp.PhiTransition = transition(p, f)
	phiInv, phiU := fp.PhiTransition.Involute, fp.PhiTransition.Undercut
	if fp.PhiTransition.Status != Converged {
		// Trochoid up to the base circle, involute from it.
		phiInv = 0
		phiU, err = UndercutPhiAtDiameter(math.Max(db, df), dp, df, alpha, f)
		if err != nil {
			return FlankProfile{}, err
		}
	} else {
		fp.CrossingAngle = CrossingAngle(fp.PhiTransition, dp, df, alpha, f)
		fp.Undercut = fp.CrossingAngle > UndercutAngle
	}
	if sg*phiInv >= sg*tip {
		return FlankProfile{}, fmt.Errorf("%w: no involute flank left between transition %g and tip %g", ErrDomain, phiInv, tip)
	}

	fp.Involute, err = Positioned(p.M, dp, db, floats.Span(make([]float64, n), phiInv, tip), f)
	if err != nil {
		return FlankProfile{}, err
	}
	fp.Involute = RotatePoints(fp.Involute, -sg*shift)
	if sg*(fp.PhiRoot-phiU) > 1e-12 {
		fp.Trochoid, err = UndercutPositioned(p.M, df, dp, db, alpha, floats.Span(make([]float64, n), fp.PhiRoot, phiU), f)
		if err != nil {
			return FlankProfile{}, err
		}
		fp.Trochoid = RotatePoints(fp.Trochoid, -sg*shift)
	}
	return fp, nil
}

// ShiftAngle is the angle a profile shift adds to each side of the half
// tooth angle: a rack moved out by x·m leaves a tooth 2·x·m·tan(alpha)
// thicker at the pitch circle.
func ShiftAngle(p gear.Parameters) float64 {
	return 2 * p.X * math.Tan(p.AlphaTRad) / float64(p.Z)
}

// UndercutAngle is the crossing angle in radians above which a flank is
// undercut. Tangential transitions solve to well below it.
const UndercutAngle = 1e-3

// CrossingAngle returns the angle in [0, pi/2] between the involute and
// the root trochoid of flank f at the transition sol.
func CrossingAngle(sol Solution2, dp, df, alphaT float64, f Flank) float64 {
	// The involute tangent at roll angle phi points along phi.
	ti := r2.Vec{X: math.Cos(sol.Involute), Y: math.Sin(sol.Involute)}
	tu := d2.Rotate(-f.sign() * alphaT).Apply(undercutTangent(dp, df, f.sign()*df*math.Tan(alphaT), sol.Undercut))
	n := r2.Norm(tu)
	if n == 0 {
		return 0
	}
	return math.Asin(math.Min(1, math.Abs(r2.Cross(ti, tu))/n))
}

// transition finds where the root trochoid of flank f hands over to the
// involute. Seeds start half way between the pitch circle and the lowest
// point the involute can reach.
func transition(p gear.Parameters, f Flank) Solution2 {
	sg := f.sign()
	low := math.Max(p.Db, p.Df)
	ds := low + (p.D-low)/2
	si, err := PhiAtDiameter(ds, p.Db, f)
	if err != nil {
		return Solution2{Status: MaxIterationsExceeded}
	}
	su, err := UndercutPhiAtDiameter(ds, p.D, p.Df, p.AlphaTRad, f)
	if err != nil {
		return Solution2{Status: MaxIterationsExceeded}
	}
	var best Solution2
	for i, seed := range [][2]float64{{si, su}, {si, si}} {
		sol, err := UndercutInvoluteIntersection(seed[0], seed[1], p.Df, p.D, p.Db, p.AlphaTRad, f, Newton{})
		if err != nil {
			return Solution2{Status: MaxIterationsExceeded}
		}
		if i == 0 {
			best = sol
		}
		if sol.Status != Converged {
			continue
		}
		r := r2.Norm(InvolutePoint(p.Db/2, sol.Involute))
		if sg*sol.Involute >= -1e-9 && r <= p.Da/2 {
			return sol
		}
	}
	best.Status = MaxIterationsExceeded
	return best
}

// Profile is a full tooth built from both flanks.
type Profile struct {
	Params gear.Parameters
	Right  FlankProfile
	Left   FlankProfile
}

// ToothProfile assembles both flanks of a tooth of gear p with n points per
// curve.
func ToothProfile(p gear.Parameters, n int) (*Profile, error) {
	right, err := Tooth(p, n, Right)
	if err != nil {
		return nil, fmt.Errorf("right flank: %w", err)
	}
	left, err := Tooth(p, n, Left)
	if err != nil {
		return nil, fmt.Errorf("left flank: %w", err)
	}
	return &Profile{Params: p, Right: right, Left: left}, nil
}

// Undercut reports whether the flanks are undercut by the root trochoid.
func (tp *Profile) Undercut() bool { return tp.Right.Undercut || tp.Left.Undercut }

// Pointed reports whether the flanks meet below the tip circle.
func (tp *Profile) Pointed() bool { return tp.Right.Pointed || tp.Left.Pointed }

// Outline returns the tooth from the right flank root over the tip land to
// the left flank root.
func (tp *Profile) Outline() []r2.Vec {
	right := tp.Right.Points()
	left := tp.Left.Points()
	out := make([]r2.Vec, 0, len(right)+len(left)+8)
	out = append(out, right...)
	if !tp.Pointed() && len(right) > 0 && len(left) > 0 {
		a0 := math.Atan2(right[len(right)-1].Y, right[len(right)-1].X)
		a1 := math.Atan2(left[len(left)-1].Y, left[len(left)-1].X)
		ra := tp.Params.Da / 2
		const land = 8
		for i := 1; i < land; i++ {
			a := a0 + (a1-a0)*float64(i)/land
			out = append(out, r2.Vec{X: ra * math.Cos(a), Y: ra * math.Sin(a)})
		}
	}
	for i := len(left) - 1; i >= 0; i-- {
		out = append(out, left[i])
	}
	return out
}
