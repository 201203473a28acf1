package involute

import (
	"fmt"
	"math"
)

// Newton configures the iterative root finders. The zero value uses
// 200 iterations and a tolerance of 1e-10.
type Newton struct {
	// MaxIter bounds the number of iterations.
	MaxIter int
	// Tol is the residual below which a solve has converged.
	Tol float64
}

func (n Newton) limits() (int, float64) {
	maxIter, tol := n.MaxIter, n.Tol
	if maxIter <= 0 {
		maxIter = 200
	}
	if tol <= 0 {
		tol = 1e-10
	}
	return maxIter, tol
}

// Status is the outcome of an iterative solve.
type Status int

const (
	Converged Status = iota
	MaxIterationsExceeded
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterationsExceeded:
		return "max iterations exceeded"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Solution is the result of a one variable solve. When Status is not
// Converged, Value holds the last finite estimate.
type Solution struct {
	Value      float64
	Iterations int
	Residual   float64
	Status     Status
}

// Solution2 is the result of the involute and trochoid intersection solve.
// Residual is the distance between the two curve points.
type Solution2 struct {
	Involute   float64 // involute roll angle
	Undercut   float64 // trochoid roll angle
	Iterations int
	Residual   float64
	Status     Status
}

// SelfIntersection finds the roll angle at which the right flank involute
// of a tooth reaches the tooth center line, starting from phi0. The left
// flank meets it at the negated angle. Past this angle a tooth is pointed.
// The residual is measured on the unit involute.
func SelfIntersection(phi0, m, dp, db float64, opt Newton) (Solution, error) {
	gamma, err := HalfBaseToothAngle(m, dp, db)
	if err != nil {
		return Solution{}, err
	}
	return selfIntersection(phi0, gamma, opt)
}

// selfIntersection solves for the roll angle at which the unit involute
// turned by -gamma reaches the x axis.
func selfIntersection(phi0, gamma float64, opt Newton) (Solution, error) {
	if phi0 == 0 || math.IsNaN(phi0) {
		return Solution{}, fmt.Errorf("%w: self intersection seed %g", ErrDomain, phi0)
	}
	maxIter, tol := opt.limits()
	tg := math.Tan(gamma)
	phi := phi0
	sol := Solution{Value: phi, Status: MaxIterationsExceeded}
	for sol.Iterations = 0; ; sol.Iterations++ {
		s, c := math.Sincos(phi)
		a := c + phi*s
		b := s - phi*c
		res := b - tg*a
		sol.Residual = math.Abs(res)
		if sol.Residual <= tol {
			sol.Status = Converged
			break
		}
		if sol.Iterations == maxIter {
			break
		}
		next := phi - a/(phi*phi)*res
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		phi = next
		sol.Value = phi
	}
	return sol, nil
}

// UndercutInvoluteIntersection solves for the roll angles at which the
// involute flank f of base diameter db meets the root trochoid of a gear
// with pitch diameter dp, root diameter df and pressure angle alphaT. The
// solve starts from the involute roll angle phiInv0 and the trochoid roll
// angle phiU0.
//
// A singular Jacobian ends the solve with MaxIterationsExceeded.
func UndercutInvoluteIntersection(phiInv0, phiU0, df, dp, db, alphaT float64, f Flank, opt Newton) (Solution2, error) {
	if !(db > 0 && dp > 0 && df > 0) {
		return Solution2{}, fmt.Errorf("%w: diameters must be positive, got df=%g dp=%g db=%g", ErrDomain, df, dp, db)
	}
	maxIter, tol := opt.limits()
	sg := f.sign()
	a := df
	b := sg * df * math.Tan(alphaT)
	c := math.Cos(alphaT)
	d := sg * math.Sin(alphaT)

	x0, x1 := phiInv0, phiU0
	sol := Solution2{Involute: x0, Undercut: x1, Status: MaxIterationsExceeded}
	for sol.Iterations = 0; ; sol.Iterations++ {
		s0, c0 := math.Sincos(x0)
		s1, c1 := math.Sincos(x1)
		ix := c0 + x0*s0
		iy := s0 - x0*c0
		f1 := db*(c*ix-d*iy) - a*c1 + b*s1 - dp*x1*s1
		f2 := db*(d*ix+c*iy) - b*c1 - a*s1 + dp*x1*c1
		sol.Residual = math.Hypot(f1, f2) / 2
		if sol.Residual <= tol {
			sol.Status = Converged
			break
		}
		if sol.Iterations == maxIter {
			break
		}
		j11 := db * x0 * (c*c0 - d*s0)
		j12 := a*s1 + b*c1 - dp*s1 - dp*x1*c1
		j21 := db * x0 * (d*c0 + c*s0)
		j22 := b*s1 - a*c1 + dp*c1 - dp*x1*s1
		det := j11*j22 - j12*j21
		if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
			break
		}
		n0 := x0 - (j22*f1-j12*f2)/det
		n1 := x1 - (j11*f2-j21*f1)/det
		if math.IsNaN(n0) || math.IsNaN(n1) || math.IsInf(n0, 0) || math.IsInf(n1, 0) {
			break
		}
		x0, x1 = n0, n1
		sol.Involute, sol.Undercut = x0, x1
	}
	return sol, nil
}
