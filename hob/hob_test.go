package hob

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/involute"
	"github.com/soypat/gears/kernel"
	"github.com/soypat/gears/kernel/sdfx"
	"github.com/soypat/gears/rack"
	"github.com/soypat/gears/sdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func reference(t *testing.T) gear.Parameters {
	t.Helper()
	in := gear.DefaultInput()
	in.M, in.Z, in.B = 2, 20, 4
	p, err := gear.New(in)
	require.NoError(t, err)
	return p
}

func newRack(t *testing.T, k kernel.Kernel, p gear.Parameters) *rack.Rack {
	t.Helper()
	r, err := rack.New(k, []gear.Parameters{p}, []int{0})
	require.NoError(t, err)
	return r
}

func TestPlan(t *testing.T) {
	p := reference(t)
	poses := Plan(p, 100)
	require.Len(t, poses, 100)

	first := poses[0]
	assert.InDelta(t, math.Pi*p.D/2, first.Shift, 1e-12)
	assert.InDelta(t, math.Pi, first.Angle, 1e-12)
	assert.Equal(t, r3.Vec{X: -first.Shift, Y: -p.D / 2}, first.Offset)

	for i := 1; i < len(poses); i++ {
		assert.Equal(t, i, poses[i].Step)
		assert.InDelta(t, 2*math.Pi/100, poses[i-1].Angle-poses[i].Angle, 1e-12)
		// rolling without slip: arc length equals rack travel.
		assert.InDelta(t, poses[i].Shift, poses[i].Angle*p.D/2, 1e-12)
	}
	assert.Nil(t, Plan(p, 0))
}

func TestCutPreconditions(t *testing.T) {
	p := reference(t)
	k := kernel.Native()
	sim := &Simulator{Kernel: k, Steps: 10}
	_, err := sim.Cut(context.Background(), p, nil)
	require.ErrorIs(t, err, ErrNoRack)

	r := newRack(t, k, p)
	sim.Steps = 0
	_, err = sim.Cut(context.Background(), p, r)
	require.ErrorIs(t, err, ErrSteps)

	other := p.Input()
	other.AlphaT = 25
	q, err := gear.New(other)
	require.NoError(t, err)
	sim.Steps = 3
	_, err = sim.Cut(context.Background(), q, r)
	assert.Error(t, err)

	bigger := p.Input()
	bigger.Z = 40
	q, err = gear.New(bigger)
	require.NoError(t, err)
	_, err = sim.Cut(context.Background(), q, r)
	assert.Error(t, err, "rack too short")
}

func TestCutObservations(t *testing.T) {
	p := reference(t)
	for name, k := range map[string]kernel.Kernel{"native": kernel.Native(), "sdfx": sdfx.New()} {
		t.Run(name, func(t *testing.T) {
			var steps []int
			var poses []*Pose
			sim := &Simulator{
				Kernel: k,
				Steps:  5,
				Sink: StepSinkFunc(func(step int, s kernel.Solid, pose *Pose) error {
					require.NotNil(t, s)
					steps = append(steps, step)
					poses = append(poses, pose)
					return nil
				}),
			}
			s, err := sim.Cut(context.Background(), p, newRack(t, k, p))
			require.NoError(t, err)
			require.NotNil(t, s)
			assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, steps)
			assert.Nil(t, poses[0])
			for i, pose := range poses[1:] {
				require.NotNil(t, pose)
				assert.Equal(t, i, pose.Step)
			}
			// the blank center is never reached by the rack.
			assert.Less(t, s.Evaluate(r3.Vec{}), 0.0)
		})
	}
}

func TestCutAborts(t *testing.T) {
	p := reference(t)
	k := kernel.Native()
	r := newRack(t, k, p)
	errSink := errors.New("disk full")
	calls := 0
	sim := &Simulator{Kernel: k, Steps: 10, Sink: MultiSink{
		StepSinkFunc(func(step int, _ kernel.Solid, _ *Pose) error {
			calls++
			if step == 3 {
				return errSink
			}
			return nil
		}),
	}}
	_, err := sim.Cut(context.Background(), p, r)
	require.ErrorIs(t, err, errSink)
	assert.Equal(t, 4, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim.Sink = nil
	_, err = sim.Cut(ctx, p, r)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMultiSink(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	var order []string
	ms := MultiSink{
		StepSinkFunc(func(int, kernel.Solid, *Pose) error { order = append(order, "a"); return e1 }),
		StepSinkFunc(func(int, kernel.Solid, *Pose) error { order = append(order, "b"); return nil }),
		StepSinkFunc(func(int, kernel.Solid, *Pose) error { order = append(order, "c"); return e2 }),
	}
	err := ms.Observe(0, nil, nil)
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.NoError(t, MultiSink{}.Observe(0, nil, nil))
}

func TestHobbedReferenceGear(t *testing.T) {
	if testing.Short() {
		t.Skip("hobbing simulation is slow")
	}
	for _, tc := range []struct {
		name string
		z    int
		x    float64
		beta float64
	}{
		{"spur", 20, 0, 0},
		{"helical", 20, 0, 15},
		{"shifted", 12, 0.3, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := gear.DefaultInput()
			in.M, in.Z, in.B, in.X, in.Beta = 2, tc.z, 4, tc.x, tc.beta
			p, err := gear.New(in)
			require.NoError(t, err)
			k := kernel.Native()
			frames := 0
			sim := &Simulator{Kernel: k, Steps: 100, Sink: StepSinkFunc(func(int, kernel.Solid, *Pose) error {
				frames++
				return nil
			})}
			s, err := sim.Cut(context.Background(), p, newRack(t, k, p))
			require.NoError(t, err)
			assert.Equal(t, 101, frames)

			maxR := (p.D + 3*p.M) / 2
			assert.InDelta(t, p.Da, TipDiameter(s, 0, maxR, 360), 0.05)

			rmin := maxR
			for i := 0; i < 360; i++ {
				rmin = math.Min(rmin, RadiusAt(s, 0, 2*math.Pi*float64(i)/360, maxR))
			}
			assert.InDelta(t, p.Df/2, rmin, 0.1)

			pitch := 2 * math.Pi / float64(p.Z)
			for i := 0; i < 24; i++ {
				a := 0.013 + pitch*float64(i)/24
				r0 := RadiusAt(s, 0, a, maxR)
				for _, n := range []int{1, 7} {
					assert.InDelta(t, r0, RadiusAt(s, 0, a+float64(n)*pitch, maxR), 1e-3, "angle %g", a)
				}
			}
		})
	}
}

// The analytic involute flanks of profile shifted teeth must lie on the
// surface the rack leaves behind.
func TestHobbedMatchesToothProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("hobbing simulation is slow")
	}
	for _, tc := range []struct {
		z int
		x float64
	}{{20, 0}, {12, 0.3}, {30, 0.5}} {
		in := gear.DefaultInput()
		in.M, in.Z, in.B, in.X, in.RhoFStar = 2, tc.z, 4, tc.x, 0
		p, err := gear.New(in)
		require.NoError(t, err)
		tp, err := involute.ToothProfile(p, 40)
		require.NoError(t, err)
		require.False(t, tp.Pointed())

		k := kernel.Native()
		sim := &Simulator{Kernel: k, Steps: 360}
		s, err := sim.Cut(context.Background(), p, newRack(t, k, p))
		require.NoError(t, err)
		section := sdf.Slice2D(s, 0)

		// Keep clear of the tip corner and of the transition point.
		var flank []r2.Vec
		rlo := r2.Norm(tp.Right.Involute[0]) + 0.3
		for _, fp := range []involute.FlankProfile{tp.Right, tp.Left} {
			for _, v := range fp.Involute {
				if r := r2.Norm(v); r > rlo && r < p.Da/2-0.3 {
					flank = append(flank, v)
				}
			}
		}
		require.NotEmpty(t, flank)

		// Tooth centers sit a whole number of half pitches from -y.
		pitch := 2 * math.Pi / float64(p.Z)
		best := math.Inf(1)
		for _, center := range []float64{-math.Pi / 2, -math.Pi/2 + pitch/2} {
			var worst float64
			for _, v := range involute.RotatePoints(flank, center) {
				worst = math.Max(worst, math.Abs(section.Evaluate(v)))
			}
			best = math.Min(best, worst)
		}
		assert.Less(t, best, 0.03, "z=%d x=%g", tc.z, tc.x)
	}
}

func TestRadiusAt(t *testing.T) {
	k := kernel.Native()
	disc, err := k.Circle(3)
	require.NoError(t, err)
	cyl, err := k.Extrude(disc, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3, RadiusAt(cyl, 0, 1, 5), 1e-9)
	assert.InDelta(t, 6, TipDiameter(cyl, 0.5, 5, 12), 1e-9)
	assert.Zero(t, RadiusAt(cyl, 4, 0, 5), "ray above the cylinder")
	assert.Equal(t, 2.0, RadiusAt(cyl, 0, 0, 2), "starting inside")
}
