package form2

import (
	"runtime/debug"

	"github.com/soypat/gears/form2/must2"
	"github.com/soypat/gears/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrFillet is returned when a smoothed polygon vertex
// has no room for its fillet radius.
var ErrFillet = must2.ErrFillet

// Polygon returns an SDF2 made from a closed set of line segments.
func Polygon(vertex []r2.Vec) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Polygon(vertex), err
}

// NewPolygon returns an empty polygon.
func NewPolygon() *must2.PolygonBuilder {
	return must2.NewPolygon()
}

// Vertices returns the corners of b with the smoothed ones replaced by
// their fillet arcs. Fillets that do not fit give an error matching
// ErrFillet.
func Vertices(b *must2.PolygonBuilder) (v []r2.Vec, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return b.Vertices(), err
}
