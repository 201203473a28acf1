// Package gear derives the geometry of cylindrical involute gears from
// their nominal design values and groups gears that one rack cutter can
// produce.
package gear

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalid is returned for design values that do not describe a gear.
	ErrInvalid = errors.New("gear: invalid parameters")
	// ErrUnsupported is returned for gear types this package does not model.
	ErrUnsupported = errors.New("gear: unsupported gear type")
)

// Tolerance is the default comparison tolerance of Compatible.
const Tolerance = 1e-6

// Input holds the nominal design values of a gear. Angles are in degrees.
type Input struct {
	M float64 // module
	Z int     // number of teeth
	B float64 // face width
	X float64 // profile shift coefficient

	AlphaT float64 // transverse pressure angle
	Beta   float64 // helix angle at the pitch circle
	Delta  float64 // cone angle, 90 for cylindrical gears

	HaStar   float64 // addendum coefficient
	CStar    float64 // clearance coefficient
	RhoFStar float64 // root fillet radius coefficient
}

// DefaultInput returns the standard basic rack values with
// zero module, teeth and face width.
func DefaultInput() Input {
	return Input{
		AlphaT:   20,
		Delta:    90,
		HaStar:   1,
		CStar:    0.167,
		RhoFStar: 0.3,
	}
}

// Parameters is the complete derived geometry of a gear. It is a value
// type: create it with New and never modify its fields.
type Parameters struct {
	M float64
	Z int
	B float64
	X float64

	AlphaT, AlphaTRad float64
	AlphaN, AlphaNRad float64
	Beta, BetaRad     float64
	BetaB, BetaBRad   float64

	HaStar, CStar, RhoFStar float64

	Ha   float64 // addendum
	Hf   float64 // dedendum
	RhoF float64 // root fillet radius

	D  float64 // pitch diameter
	Db float64 // base diameter
	Da float64 // tip diameter
	Df float64 // root diameter

	P float64 // circular pitch
}

// New derives gear Parameters from in.
func New(in Input) (Parameters, error) {
	switch {
	case in.Delta != 90:
		return Parameters{}, fmt.Errorf("%w: cone angle %g, only cylindrical gears (90) are modeled", ErrUnsupported, in.Delta)
	case in.Z <= 0:
		return Parameters{}, fmt.Errorf("%w: tooth count %d", ErrInvalid, in.Z)
	case !(in.M > 0) || math.IsInf(in.M, 0):
		return Parameters{}, fmt.Errorf("%w: module %g", ErrInvalid, in.M)
	case !(in.B > 0) || math.IsInf(in.B, 0):
		return Parameters{}, fmt.Errorf("%w: face width %g", ErrInvalid, in.B)
	case !(in.AlphaT > 0 && in.AlphaT < 90):
		return Parameters{}, fmt.Errorf("%w: pressure angle %g", ErrInvalid, in.AlphaT)
	case !(math.Abs(in.Beta) < 90):
		return Parameters{}, fmt.Errorf("%w: helix angle %g", ErrInvalid, in.Beta)
	case math.IsNaN(in.X) || math.IsNaN(in.HaStar) || math.IsNaN(in.CStar) || math.IsNaN(in.RhoFStar):
		return Parameters{}, fmt.Errorf("%w: NaN coefficient", ErrInvalid)
	}

	p := Parameters{
		M:        in.M,
		Z:        in.Z,
		B:        in.B,
		X:        in.X,
		AlphaT:   in.AlphaT,
		Beta:     in.Beta,
		HaStar:   in.HaStar,
		CStar:    in.CStar,
		RhoFStar: in.RhoFStar,
	}
	p.AlphaTRad = in.AlphaT * math.Pi / 180
	p.BetaRad = in.Beta * math.Pi / 180
	if in.Beta == 0 {
		p.AlphaNRad = p.AlphaTRad
	} else {
		p.AlphaNRad = math.Atan(math.Tan(p.AlphaTRad) * math.Sin(p.BetaRad))
	}
	p.AlphaN = p.AlphaNRad * 180 / math.Pi
	p.BetaBRad = math.Atan(math.Tan(p.BetaRad) * math.Cos(p.AlphaTRad))
	p.BetaB = p.BetaBRad * 180 / math.Pi

	p.P = math.Pi * in.M
	p.Ha = (in.HaStar + in.X) * in.M
	p.Hf = (in.HaStar + in.CStar - in.X) * in.M
	p.RhoF = math.Abs(in.RhoFStar) * in.M
	p.D = in.M * float64(in.Z)
	p.Db = p.D * math.Cos(p.AlphaTRad)
	p.Df = p.D - 2*p.Hf
	p.Da = p.D + 2*p.Ha

	switch {
	case p.Hf < 0:
		return Parameters{}, fmt.Errorf("%w: negative dedendum %g", ErrInvalid, p.Hf)
	case !(p.Ha > 0):
		return Parameters{}, fmt.Errorf("%w: tip diameter %g not above pitch diameter %g", ErrInvalid, p.Da, p.D)
	case !(p.Db > 0 && p.Db < p.D):
		return Parameters{}, fmt.Errorf("%w: base diameter %g", ErrInvalid, p.Db)
	case !(p.Df > 0):
		return Parameters{}, fmt.Errorf("%w: root diameter %g", ErrInvalid, p.Df)
	}
	return p, nil
}

// Input returns the design values p was derived from.
func (p Parameters) Input() Input {
	return Input{
		M:        p.M,
		Z:        p.Z,
		B:        p.B,
		X:        p.X,
		AlphaT:   p.AlphaT,
		Beta:     p.Beta,
		Delta:    90,
		HaStar:   p.HaStar,
		CStar:    p.CStar,
		RhoFStar: p.RhoFStar,
	}
}

// Helical reports whether the gear has a non-zero helix angle.
func (p Parameters) Helical() bool { return p.Beta != 0 }

func (p Parameters) String() string {
	return fmt.Sprintf("m=%g z=%d b=%g x=%g alpha=%g beta=%g", p.M, p.Z, p.B, p.X, p.AlphaT, p.Beta)
}
