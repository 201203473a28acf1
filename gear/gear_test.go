package gear

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spur(m float64, z int) Input {
	in := DefaultInput()
	in.M = m
	in.Z = z
	in.B = 10
	return in
}

func TestNewReferenceGear(t *testing.T) {
	p, err := New(spur(2, 20))
	require.NoError(t, err)

	assert.InDelta(t, 40.0, p.D, 1e-12)
	assert.InDelta(t, 44.0, p.Da, 1e-12)
	assert.InDelta(t, 40*math.Cos(20*math.Pi/180), p.Db, 1e-12)
	assert.InDelta(t, 37.5877, p.Db, 1e-4)
	assert.InDelta(t, 35.332, p.Df, 1e-12)
	assert.InDelta(t, 2.0, p.Ha, 1e-12)
	assert.InDelta(t, 2.334, p.Hf, 1e-12)
	assert.InDelta(t, 0.6, p.RhoF, 1e-12)
	assert.InDelta(t, 2*math.Pi, p.P, 1e-12)

	assert.Equal(t, p.AlphaT, p.AlphaN, "spur gears use the transverse pressure angle")
	assert.Zero(t, p.BetaB)
	assert.False(t, p.Helical())

	assert.Greater(t, p.Da, p.D)
	assert.Greater(t, p.D, p.Db)
	assert.Less(t, p.Df, p.D)
}

func TestNewHelical(t *testing.T) {
	in := spur(1.5, 31)
	in.Beta = -15
	p, err := New(in)
	require.NoError(t, err)
	assert.True(t, p.Helical())
	assert.InDelta(t, math.Atan(math.Tan(p.AlphaTRad)*math.Sin(p.BetaRad)), p.AlphaNRad, 1e-15)
	// base helix angle is smaller in magnitude and keeps the hand
	assert.Less(t, p.BetaB, 0.0)
	assert.Less(t, math.Abs(p.BetaB), math.Abs(p.Beta))
	assert.InDelta(t, math.Tan(p.BetaRad)*math.Cos(p.AlphaTRad), math.Tan(p.BetaBRad), 1e-12)
}

func TestNewProfileShift(t *testing.T) {
	in := spur(2, 12)
	in.X = 0.4
	p, err := New(in)
	require.NoError(t, err)
	assert.InDelta(t, 2.8, p.Ha, 1e-12)
	assert.InDelta(t, 1.534, p.Hf, 1e-12)
	assert.InDelta(t, 24+5.6, p.Da, 1e-12)
	assert.Equal(t, in, p.Input())
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		want   error
	}{
		{"zero teeth", func(in *Input) { in.Z = 0 }, ErrInvalid},
		{"negative teeth", func(in *Input) { in.Z = -3 }, ErrInvalid},
		{"zero module", func(in *Input) { in.M = 0 }, ErrInvalid},
		{"NaN module", func(in *Input) { in.M = math.NaN() }, ErrInvalid},
		{"zero width", func(in *Input) { in.B = 0 }, ErrInvalid},
		{"negative dedendum", func(in *Input) { in.X = 1.5 }, ErrInvalid},
		{"no addendum", func(in *Input) { in.X = -1 }, ErrInvalid},
		{"pressure angle", func(in *Input) { in.AlphaT = 90 }, ErrInvalid},
		{"helix angle", func(in *Input) { in.Beta = 90 }, ErrInvalid},
		{"root below center", func(in *Input) { in.Z = 2 }, ErrInvalid},
		{"bevel", func(in *Input) { in.Delta = 45 }, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := spur(2, 20)
			tt.modify(&in)
			_, err := New(in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompatibleSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var ps []Parameters
	for i := 0; i < 40; i++ {
		in := spur([]float64{1, 2}[rng.Intn(2)], 10+rng.Intn(40))
		in.Beta = []float64{0, 10, -10}[rng.Intn(3)]
		in.X = []float64{0, 0.2}[rng.Intn(2)]
		p, err := New(in)
		require.NoError(t, err)
		ps = append(ps, p)
	}
	for _, a := range ps {
		assert.True(t, Compatible(a, a))
		for _, b := range ps {
			assert.Equal(t, Compatible(a, b), Compatible(b, a))
		}
	}
}

func TestCompatibleHand(t *testing.T) {
	left, right := spur(2, 20), spur(2, 33)
	left.Beta, right.Beta = -12, 12
	a, err := New(left)
	require.NoError(t, err)
	b, err := New(right)
	require.NoError(t, err)
	assert.True(t, Compatible(a, b), "left and right hand helices share a rack")
	assert.InDelta(t, -a.AlphaN, b.AlphaN, 1e-12)
	assert.Equal(t, [][]int{{0, 1}}, Group([]Parameters{a, b}))
}

func TestGroup(t *testing.T) {
	mk := func(z int, alpha float64) Parameters {
		in := spur(2, z)
		in.AlphaT = alpha
		p, err := New(in)
		require.NoError(t, err)
		return p
	}
	assert.Empty(t, Group(nil))
	assert.Equal(t, [][]int{{0}}, Group([]Parameters{mk(20, 20)}))

	ps := []Parameters{mk(20, 20), mk(35, 20), mk(20, 20+2e-6), mk(50, 20)}
	groups := Group(ps)
	assert.Equal(t, [][]int{{0, 1, 3}, {2}}, groups)
	assertPartition(t, groups, len(ps))
}

func TestGroupLeader(t *testing.T) {
	// b is within tolerance of both a and c but a and c are not.
	mk := func(x float64) Parameters {
		in := spur(1, 30)
		in.X = x
		p, err := New(in)
		require.NoError(t, err)
		return p
	}
	a, b, c := mk(0), mk(0.6e-6), mk(1.2e-6)
	require.True(t, Compatible(a, b))
	require.True(t, Compatible(b, c))
	require.False(t, Compatible(a, c))
	groups := Group([]Parameters{a, b, c})
	assert.Equal(t, [][]int{{0, 1}, {2}}, groups)
	assertPartition(t, groups, 3)
}

func assertPartition(t *testing.T, groups [][]int, n int) {
	t.Helper()
	seen := make(map[int]bool)
	for _, g := range groups {
		require.NotEmpty(t, g)
		for _, i := range g {
			require.False(t, seen[i], "index %d in two groups", i)
			require.True(t, i >= 0 && i < n)
			seen[i] = true
		}
	}
	assert.Len(t, seen, n)
}
