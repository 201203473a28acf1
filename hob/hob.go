// Package hob simulates generating a gear by rolling a rack cutter around
// a cylindrical blank. Every step places the rack at the next position of
// the rolling motion and removes it from the blank.
package hob

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/kernel"
	"github.com/soypat/gears/rack"
	"github.com/soypat/gears/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNoRack is returned when a gear is cut without a rack.
	ErrNoRack = errors.New("hob: no rack assigned")
	// ErrSteps is returned for a non positive step count.
	ErrSteps = errors.New("hob: step count must be positive")
)

// Pose is the placement of the rack at one step: the rack is translated by
// Offset and then rotated by Angle radians about the blank axis.
type Pose struct {
	Step   int     // zero based cut index
	T      float64 // rolling parameter in [0,1)
	Shift  float64 // rack travel along its pitch line
	Offset r3.Vec
	Angle  float64
}

// Plan returns the rack poses of a steps step simulation of gear p. The
// rack travels p*z from +p*z/2 toward -p*z/2 while the blank turns by the
// matching pitch circle arc.
func Plan(p gear.Parameters, steps int) []Pose {
	if steps <= 0 {
		return nil
	}
	r := p.D / 2
	travel := p.P * float64(p.Z)
	poses := make([]Pose, steps)
	for i := range poses {
		t := float64(i) / float64(steps)
		x := travel * (0.5 - t)
		poses[i] = Pose{
			Step:   i,
			T:      t,
			Shift:  x,
			Offset: r3.Vec{X: -x, Y: -r},
			Angle:  x / r,
		}
	}
	return poses
}

// StepSink observes the intermediate solids of a simulation. The blank is
// observed as step 0 with a nil pose and the result of cut i as step i+1.
// Implementations must not modify the solid.
type StepSink interface {
	Observe(step int, s kernel.Solid, pose *Pose) error
}

// StepSinkFunc adapts a function to StepSink.
type StepSinkFunc func(step int, s kernel.Solid, pose *Pose) error

// Observe calls f.
func (f StepSinkFunc) Observe(step int, s kernel.Solid, pose *Pose) error {
	return f(step, s, pose)
}

// MultiSink forwards every observation to all of its sinks in order.
type MultiSink []StepSink

// Observe forwards to every sink and joins their errors.
func (m MultiSink) Observe(step int, s kernel.Solid, pose *Pose) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Observe(step, s, pose); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Simulator cuts gears out of blanks. A Simulator holds no per gear state
// and may cut several gears concurrently when its Kernel and Sink allow it.
type Simulator struct {
	Kernel kernel.Kernel
	// Steps is the number of rack positions.
	Steps int
	// Sink, if not nil, observes the blank and every cut.
	Sink StepSink
	// Logger receives a debug message per step and a summary per gear.
	// The zero value discards everything.
	Logger zerolog.Logger
}

// Blank returns the uncut blank of gear p: a cylinder of diameter d+3m and
// length b centered on the origin.
func (sim *Simulator) Blank(p gear.Parameters) (kernel.Solid, error) {
	disc, err := sim.Kernel.Circle((p.D + 3*p.M) / 2)
	if err != nil {
		return nil, err
	}
	return sim.Kernel.Extrude(disc, p.B)
}

// Cut generates gear p with rack r. Steps are applied strictly in order and
// a kernel or sink failure aborts the gear. ctx is checked between steps.
func (sim *Simulator) Cut(ctx context.Context, p gear.Parameters, r *rack.Rack) (kernel.Solid, error) {
	if r == nil {
		return nil, ErrNoRack
	}
	if sim.Steps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrSteps, sim.Steps)
	}
	if sim.Kernel == nil {
		return nil, kernel.ErrNil
	}
	if !gear.Compatible(p, r.Params()) {
		return nil, fmt.Errorf("hob: rack for %v cannot cut %v", r.Params(), p)
	}
	if p.Z+rack.ExtraTeeth > r.Teeth() {
		return nil, fmt.Errorf("hob: rack with %d teeth too short for %d tooth gear", r.Teeth(), p.Z)
	}
	log := sim.Logger
	start := time.Now()

	result, err := sim.Blank(p)
	if err != nil {
		return nil, fmt.Errorf("hob: blank: %w", err)
	}
	if err := sim.observe(0, result, nil); err != nil {
		return nil, err
	}
	for _, pose := range Plan(p, sim.Steps) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tool, err := sim.Kernel.Place(r.Solid(), pose.Offset, pose.Angle)
		if err != nil {
			return nil, fmt.Errorf("hob: placing rack at step %d: %w", pose.Step, err)
		}
		result, err = sim.Kernel.Subtract(result, tool)
		if err != nil {
			return nil, fmt.Errorf("hob: cut %d: %w", pose.Step, err)
		}
		log.Debug().Int("step", pose.Step).Float64("shift", pose.Shift).Float64("angle", pose.Angle).Msg("cut")
		if err := sim.observe(pose.Step+1, result, &pose); err != nil {
			return nil, err
		}
	}
	log.Info().Stringer("gear", p).Int("steps", sim.Steps).Dur("elapsed", time.Since(start)).Msg("gear cut")
	return result, nil
}

func (sim *Simulator) observe(step int, s kernel.Solid, pose *Pose) error {
	if sim.Sink == nil {
		return nil
	}
	if err := sim.Sink.Observe(step, s, pose); err != nil {
		return fmt.Errorf("hob: observing step %d: %w", step, err)
	}
	return nil
}

// RadiusAt returns the largest radius at which the ray from the z axis at
// height z0 and the given angle is inside s, searching inward from maxR. It
// returns 0 if the ray misses s.
func RadiusAt(s kernel.Solid, z0, angle, maxR float64) float64 {
	return radiusAt(sdf.Slice2D(s, z0), angle, maxR)
}

func radiusAt(section sdf.SDF2, angle, maxR float64) float64 {
	const marchSteps, bisections = 400, 40
	sn, cs := math.Sincos(angle)
	inside := func(r float64) bool {
		return section.Evaluate(r2.Vec{X: r * cs, Y: r * sn}) < 0
	}
	step := maxR / marchSteps
	r := maxR
	for r > 0 && !inside(r) {
		r -= step
	}
	if r <= 0 {
		return 0
	}
	lo, hi := r, math.Min(r+step, maxR)
	if inside(hi) {
		return hi
	}
	for i := 0; i < bisections; i++ {
		mid := (lo + hi) / 2
		if inside(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// TipDiameter measures the circumscribed diameter of the section of s at
// height z0 along samples equally spaced rays.
func TipDiameter(s kernel.Solid, z0, maxR float64, samples int) float64 {
	section := sdf.Slice2D(s, z0)
	var rmax float64
	for i := 0; i < samples; i++ {
		rmax = math.Max(rmax, radiusAt(section, 2*math.Pi*float64(i)/float64(samples), maxR))
	}
	return 2 * rmax
}
