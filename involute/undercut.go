package involute

import (
	"fmt"
	"math"

	"github.com/soypat/gears/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// undercutPoint is the position of the rack tip corner in the gear frame
// at roll angle phi. b carries the flank sign.
func undercutPoint(dp, a, b, phi float64) r2.Vec {
	s, c := math.Sincos(phi)
	return r2.Vec{
		X: (a*c - b*s + dp*phi*s) / 2,
		Y: (b*c + a*s - dp*phi*c) / 2,
	}
}

// undercutTangent is the derivative of undercutPoint with respect to phi.
func undercutTangent(dp, a, b, phi float64) r2.Vec {
	s, c := math.Sincos(phi)
	return r2.Vec{
		X: (-a*s - b*c + dp*s + dp*phi*c) / 2,
		Y: (-b*s + a*c - dp*c + dp*phi*s) / 2,
	}
}

// Undercut samples the trochoid traced by the tip corner of a rack cutter
// generating flank f of a gear with pitch diameter dp, root diameter df and
// pressure angle alphaT, at roll angles phi.
func Undercut(dp, df, alphaT float64, phi []float64, f Flank) []r2.Vec {
	b := f.sign() * df * math.Tan(alphaT)
	pts := make([]r2.Vec, len(phi))
	for i, p := range phi {
		pts[i] = undercutPoint(dp, df, b, p)
	}
	return pts
}

// UndercutPhi0 returns the roll angle at which the trochoid touches the
// root circle.
func UndercutPhi0(dp, df, alphaT float64, f Flank) float64 {
	return f.sign() * df / dp * math.Tan(alphaT)
}

// UndercutPhiAtDiameter returns the roll angle at which the trochoid
// leaving the root circle crosses the circle of diameter dStar.
func UndercutPhiAtDiameter(dStar, dp, df, alphaT float64, f Flank) (float64, error) {
	if !(dp > 0 && df > 0) || dStar < df {
		return math.NaN(), fmt.Errorf("%w: diameter %g inside root circle %g", ErrDomain, dStar, df)
	}
	q, qf := dStar/dp, df/dp
	return f.sign() * (qf*math.Tan(alphaT) - math.Sqrt(q*q-qf*qf)), nil
}

// UndercutPositioned samples the root trochoid of flank f at roll angles
// phi in the same tooth frame as Positioned.
func UndercutPositioned(m, df, dp, db, alphaT float64, phi []float64, f Flank) ([]r2.Vec, error) {
	gamma, err := HalfBaseToothAngle(m, dp, db)
	if err != nil {
		return nil, err
	}
	return d2.Rotate(-f.sign() * (gamma + alphaT)).ApplySet(Undercut(dp, df, alphaT, phi, f)), nil
}

// UndercutIntuitive builds the right flank trochoid by rolling the pitch
// circle of radius rp: the rack tip corner sits at a fixed offset from the
// rolling point expressed in the rolling frame.
func UndercutIntuitive(rp, rf, alphaT float64, phi []float64) []r2.Vec {
	offset := r2.Vec{X: rf - rp, Y: rf * math.Tan(alphaT)}
	pts := Involute(rp, phi, CCW)
	for i, p := range phi {
		pts[i] = r2.Add(pts[i], d2.Rotate(p).Apply(offset))
	}
	return pts
}
