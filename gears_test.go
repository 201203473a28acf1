package gears

import (
	"context"
	"sync"
	"testing"

	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/hob"
	"github.com/soypat/gears/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inputs() []gear.Input {
	mk := func(z int, b, alpha float64) gear.Input {
		in := gear.DefaultInput()
		in.M, in.Z, in.B, in.AlphaT = 1, z, b, alpha
		return in
	}
	return []gear.Input{mk(12, 3, 20), mk(18, 5, 20), mk(14, 2, 25)}
}

func TestInitialize(t *testing.T) {
	c, err := Initialize(inputs())
	require.NoError(t, err)
	require.Len(t, c.Gears, 3)
	assert.Equal(t, [][]int{{0, 1}, {2}}, c.Groups)
	assert.NotEqual(t, c.Gears[0].ID, c.Gears[1].ID)
	for _, g := range c.Gears {
		assert.Nil(t, g.Rack)
		assert.Nil(t, g.Solid)
	}

	bad := inputs()
	bad[0].Z = 0
	bad[2].M = -1
	_, err = Initialize(bad)
	require.ErrorIs(t, err, gear.ErrInvalid)
	assert.Contains(t, err.Error(), "gear 0")
	assert.Contains(t, err.Error(), "gear 2")
}

func TestAssignRacks(t *testing.T) {
	c, err := Initialize(inputs())
	require.NoError(t, err)
	require.NoError(t, c.AssignRacks(kernel.Native()))

	assert.Same(t, c.Gears[0].Rack, c.Gears[1].Rack, "group shares one rack")
	assert.NotSame(t, c.Gears[0].Rack, c.Gears[2].Rack)
	assert.Equal(t, 18+4, c.Gears[0].Rack.Teeth())
	assert.Equal(t, 5.0, c.Gears[0].Rack.Width())
	assert.Equal(t, 14+4, c.Gears[2].Rack.Teeth())
}

func TestCutIsolatesFailures(t *testing.T) {
	c, err := Initialize(inputs())
	require.NoError(t, err)
	require.NoError(t, c.AssignRacks(kernel.Native()))
	c.Gears[1].Rack = nil

	var mu sync.Mutex
	frames := make(map[int]int)
	sinks := func(g *Gear) hob.StepSink {
		return hob.StepSinkFunc(func(int, kernel.Solid, *hob.Pose) error {
			mu.Lock()
			defer mu.Unlock()
			frames[g.Params.Z]++
			return nil
		})
	}
	err = c.Cut(context.Background(), hob.Simulator{Kernel: kernel.Native(), Steps: 3}, 2, sinks)
	require.ErrorIs(t, err, hob.ErrNoRack)
	assert.Contains(t, err.Error(), "gear 1")

	assert.NotNil(t, c.Gears[0].Solid)
	assert.Nil(t, c.Gears[1].Solid)
	assert.NotNil(t, c.Gears[2].Solid)
	assert.Equal(t, map[int]int{12: 4, 14: 4}, frames)
}

func TestCutCanceled(t *testing.T) {
	c, err := Initialize(inputs()[:1])
	require.NoError(t, err)
	require.NoError(t, c.AssignRacks(kernel.Native()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.Cut(ctx, hob.Simulator{Kernel: kernel.Native(), Steps: 3}, 0, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, c.Gears[0].Solid)
}
