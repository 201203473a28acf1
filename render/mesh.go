package render

import (
	"errors"
	"fmt"

	sdfxrender "github.com/deadsy/sdfx/render"
	sdfx "github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/gears/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// shape adapts an SDF3 to the sdfx interface so it can be
// meshed by the sdfx marching cubes renderer.
type shape struct {
	s sdf.SDF3
}

var _ sdfx.SDF3 = shape{}

func (s shape) Evaluate(p v3.Vec) float64 {
	return s.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (s shape) BoundingBox() sdfx.Box3 {
	bb := s.s.Bounds()
	return sdfx.Box3{
		Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// MarchingCubes meshes s with a uniform marching cubes grid of
// cells cells along the longest side of its bounding box.
func MarchingCubes(s sdf.SDF3, cells int) ([]Triangle3, error) {
	if s == nil {
		return nil, errors.New("nil SDF3")
	}
	if cells <= 0 {
		return nil, fmt.Errorf("mesh cells must be positive, got %d", cells)
	}
	return meshSDFX(shape{s: s}, cells), nil
}

// MarchingCubesSDFX meshes an sdfx solid directly.
func MarchingCubesSDFX(s sdfx.SDF3, cells int) ([]Triangle3, error) {
	if s == nil {
		return nil, errors.New("nil SDF3")
	}
	if cells <= 0 {
		return nil, fmt.Errorf("mesh cells must be positive, got %d", cells)
	}
	return meshSDFX(s, cells), nil
}

func meshSDFX(s sdfx.SDF3, cells int) []Triangle3 {
	tris := sdfxrender.ToTriangles(s, sdfxrender.NewMarchingCubesUniform(cells))
	model := make([]Triangle3, 0, len(tris))
	for _, tri := range tris {
		var t Triangle3
		for j := 0; j < 3; j++ {
			v := tri[j]
			t.V[j] = r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
		}
		// drop slivers that would collapse when stored as float32.
		if t.Degenerate(1e-5) || r3.Norm(r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))) < 1e-12 {
			continue
		}
		model = append(model, t)
	}
	return model
}
