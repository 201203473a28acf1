// Package involute computes the flank curves of involute gear teeth: the
// involute of the base circle, the trochoid a rack cutter tip leaves at the
// tooth root, and the roll angles where those curves meet each other, a
// given diameter or the tooth center line.
//
// Angles are in radians. Every curve function returns a freshly allocated
// point slice. Tooth curves are positioned in a frame with the tooth center
// line on the +x axis; the right flank lies below it (y<0) and the left
// flank is its mirror image above it.
package involute

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/gears/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDomain is returned when an argument lies outside the domain of a curve
// or of its inverse.
var ErrDomain = errors.New("involute: argument out of domain")

// Direction is the sense in which an involute unrolls from its base circle.
type Direction int

const (
	CCW Direction = iota // counter clockwise, y>0 for small positive roll angles
	CW                   // clockwise, mirror image of CCW about the x axis
)

// Flank selects one side of a tooth.
type Flank int

const (
	Right Flank = iota
	Left
)

func (f Flank) String() string {
	if f == Left {
		return "left"
	}
	return "right"
}

// sign is +1 for the right flank and -1 for the left.
func (f Flank) sign() float64 {
	if f == Left {
		return -1
	}
	return 1
}

// InvolutePoint returns the point of the involute of the circle of radius r
// at roll angle phi.
func InvolutePoint(r, phi float64) r2.Vec {
	s, c := math.Sincos(phi)
	return r2.Vec{
		X: r * (c + phi*s),
		Y: r * (s - phi*c),
	}
}

// Involute samples the involute of the circle of radius r at each roll
// angle of phi.
func Involute(r float64, phi []float64, dir Direction) []r2.Vec {
	pts := make([]r2.Vec, len(phi))
	for i, p := range phi {
		pts[i] = InvolutePoint(r, p)
		if dir == CW {
			pts[i].Y = -pts[i].Y
		}
	}
	return pts
}

// TangentAngles estimates the direction of travel at every point of a
// polyline with central differences, one sided at both ends. It returns nil
// for fewer than two points.
func TangentAngles(pts []r2.Vec) []float64 {
	n := len(pts)
	if n < 2 {
		return nil
	}
	angles := make([]float64, n)
	for i := range pts {
		var g r2.Vec
		switch i {
		case 0:
			g = r2.Sub(pts[1], pts[0])
		case n - 1:
			g = r2.Sub(pts[n-1], pts[n-2])
		default:
			g = r2.Scale(0.5, r2.Sub(pts[i+1], pts[i-1]))
		}
		angles[i] = math.Atan2(g.Y, g.X)
	}
	return angles
}

// HalfBaseToothAngle returns the angle at the base circle subtended by half
// a tooth of module m, pitch diameter dp and base diameter db.
func HalfBaseToothAngle(m, dp, db float64) (float64, error) {
	if !(m > 0 && db > 0 && dp > db) {
		return math.NaN(), fmt.Errorf("%w: half base tooth angle needs 0 < db < dp and m > 0, got m=%g dp=%g db=%g", ErrDomain, m, dp, db)
	}
	q := dp / db
	theta := math.Sqrt(q*q - 1)
	return m*math.Pi/(2*dp) + theta - math.Atan(theta), nil
}

// PhiAtDiameter returns the roll angle at which the flank involute of base
// diameter db crosses the circle of diameter dStar.
func PhiAtDiameter(dStar, db float64, f Flank) (float64, error) {
	if !(db > 0) || dStar < db {
		return math.NaN(), fmt.Errorf("%w: diameter %g inside base circle %g", ErrDomain, dStar, db)
	}
	q := dStar / db
	return f.sign() * math.Sqrt(q*q-1), nil
}

// Positioned samples the involute flank f of a tooth of module m, pitch
// diameter dp and base diameter db at the roll angles phi. Left flank roll
// angles are negative.
func Positioned(m, dp, db float64, phi []float64, f Flank) ([]r2.Vec, error) {
	gamma, err := HalfBaseToothAngle(m, dp, db)
	if err != nil {
		return nil, err
	}
	return d2.Rotate(-f.sign() * gamma).ApplySet(Involute(db/2, phi, CCW)), nil
}

// RotatePoints returns pts rotated counter clockwise by angle about the origin.
func RotatePoints(pts []r2.Vec, angle float64) []r2.Vec {
	return d2.Rotate(angle).ApplySet(pts)
}

// TranslatePoints returns pts displaced by v.
func TranslatePoints(pts []r2.Vec, v r2.Vec) []r2.Vec {
	return d2.Translate(v).ApplySet(pts)
}
