// Package gears generates involute gears by simulated hobbing. Gears that
// one rack can cut are grouped, each group gets a shared rack cutter and
// every gear is then cut out of its blank.
//
//	c, err := gears.Initialize(inputs)
//	err = c.AssignRacks(kernel.Native())
//	err = c.Cut(ctx, hob.Simulator{Kernel: kernel.Native(), Steps: 100}, 4, nil)
package gears

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/hob"
	"github.com/soypat/gears/kernel"
	"github.com/soypat/gears/rack"
)

// Gear is one gear of a Collection.
type Gear struct {
	ID     uuid.UUID
	Params gear.Parameters
	// Rack is shared by every gear of the group. Nil until AssignRacks.
	Rack *rack.Rack
	// Solid is the cut gear. Nil until a successful Cut.
	Solid kernel.Solid
}

// Collection is an ordered set of gears partitioned into rack compatible
// groups of indices into Gears.
type Collection struct {
	Gears  []*Gear
	Groups [][]int
}

// Initialize derives the parameters of every input and groups the gears.
// Invalid inputs are reported together.
func Initialize(inputs []gear.Input) (*Collection, error) {
	params := make([]gear.Parameters, len(inputs))
	var errs []error
	for i, in := range inputs {
		p, err := gear.New(in)
		if err != nil {
			errs = append(errs, fmt.Errorf("gear %d: %w", i, err))
			continue
		}
		params[i] = p
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return NewCollection(params), nil
}

// NewCollection groups already derived parameters.
func NewCollection(params []gear.Parameters) *Collection {
	c := &Collection{
		Gears:  make([]*Gear, len(params)),
		Groups: gear.Group(params),
	}
	for i, p := range params {
		c.Gears[i] = &Gear{ID: uuid.New(), Params: p}
	}
	return c
}

// Params returns the parameters of all gears in order.
func (c *Collection) Params() []gear.Parameters {
	params := make([]gear.Parameters, len(c.Gears))
	for i, g := range c.Gears {
		params[i] = g.Params
	}
	return params
}

// AssignRacks builds one rack per group with k and hands it to every
// member of the group.
func (c *Collection) AssignRacks(k kernel.Kernel) error {
	params := c.Params()
	for gi, group := range c.Groups {
		r, err := rack.New(k, params, group)
		if err != nil {
			return fmt.Errorf("group %d: %w", gi, err)
		}
		for _, i := range group {
			c.Gears[i].Rack = r
		}
	}
	return nil
}

// Cut cuts every gear with a copy of sim, running up to workers gears at
// once. When sinks is not nil it supplies the step sink of each gear. A
// failing gear does not stop the others; all failures are joined in the
// returned error and the Solid of a failed gear stays nil.
func (c *Collection) Cut(ctx context.Context, sim hob.Simulator, workers int, sinks func(*Gear) hob.StepSink) error {
	if workers <= 0 {
		workers = 1
	}
	errs := make([]error, len(c.Gears))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, g := range c.Gears {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			gsim := sim
			gsim.Logger = sim.Logger.With().Int("index", i).Str("gear", g.ID.String()).Logger()
			if sinks != nil {
				gsim.Sink = sinks(g)
			}
			s, err := gsim.Cut(ctx, g.Params, g.Rack)
			if err != nil {
				gsim.Logger.Error().Err(err).Msg("cut failed")
				errs[i] = fmt.Errorf("gear %d (%v): %w", i, g.Params, err)
				return
			}
			g.Solid = s
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
