// Package kernel defines the solid modeling operations the gear cutting
// pipeline needs. Implementations build solids from 2D profiles and
// combine them with boolean operations. The abstraction allows swapping
// backends without changing the rest of the system.
package kernel

import (
	"errors"

	"github.com/soypat/gears/render"
	"github.com/soypat/gears/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Profile is a planar region in the XY plane.
type Profile = sdf.SDF2

// Solid is a closed 3D region.
type Solid = sdf.SDF3

// ErrNil is returned when a nil profile or solid is passed to a Kernel.
var ErrNil = errors.New("kernel: nil geometry argument")

// Kernel builds and combines solids. Returned values are immutable and
// safe to share between goroutines.
type Kernel interface {
	// Polygon returns the region enclosed by a closed vertex loop.
	Polygon(loop []r2.Vec) (Profile, error)
	// Circle returns a disc centered at the origin.
	Circle(radius float64) (Profile, error)
	// Union joins profiles. A positive fillet rounds the concave
	// corners where profiles meet.
	Union(fillet float64, profiles ...Profile) (Profile, error)
	// Repeat returns count copies of p spaced period apart along x and
	// centered about x=0. Copies must not reach past their neighbors.
	Repeat(p Profile, count int, period float64) (Profile, error)

	// Extrude extrudes a profile along z, symmetric about z=0.
	Extrude(p Profile, depth float64) (Solid, error)
	// Sweep extrudes a profile along z while shifting it along x
	// by skew per unit of z, symmetric about z=0.
	Sweep(p Profile, depth, skew float64) (Solid, error)
	// Subtract returns a with b removed.
	Subtract(a, b Solid) (Solid, error)
	// Place translates s by offset and then rotates it by angle
	// radians about the z axis.
	Place(s Solid, offset r3.Vec, angle float64) (Solid, error)

	// Mesh tessellates s with about cells cells along its longest side.
	Mesh(s Solid, cells int) ([]render.Triangle3, error)
}
