package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	sdfxrender "github.com/deadsy/sdfx/render"
	sdfx "github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrEmptyMesh is returned when writing a mesh without triangles.
	ErrEmptyMesh = errors.New("render: empty mesh")
	// ErrNormalMismatch is returned by ReadSTL when a stored normal does
	// not match the winding of its triangle. The triangles are still
	// returned.
	ErrNormalMismatch = errors.New("render: stored normal disagrees with triangle winding")
)

// WriteSTL writes model to w as binary STL. Normals are computed from the
// winding of each triangle.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return ErrEmptyMesh
	}
	bw := bufio.NewWriter(w)
	header := sdfxrender.STLHeader{Count: uint32(len(model))}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return err
	}
	for i := range model {
		d := model[i].stl()
		if err := binary.Write(bw, binary.LittleEndian, &d); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveSTL writes model to a binary STL file at path.
func SaveSTL(path string, model []Triangle3) error {
	if len(model) == 0 {
		return ErrEmptyMesh
	}
	mesh := make([]*sdfx.Triangle3, len(model))
	for i, t := range model {
		mesh[i] = &sdfx.Triangle3{toV3(t.V[0]), toV3(t.V[1]), toV3(t.V[2])}
	}
	if err := sdfxrender.SaveSTL(path, mesh); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// LoadSTL reads the ASCII or binary STL file at path.
func LoadSTL(path string) ([]Triangle3, error) {
	mesh, err := sdfxrender.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	model := make([]Triangle3, len(mesh))
	for i, t := range mesh {
		model[i] = Triangle3{V: [3]r3.Vec{fromV3(t[0]), fromV3(t[1]), fromV3(t[2])}}
	}
	return model, nil
}

// ReadSTL reads a binary STL stream and checks every stored normal against
// the vertex winding. Mismatching triangles are kept and reported with an
// error matching ErrNormalMismatch.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	br := bufio.NewReader(r)
	var header sdfxrender.STLHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("render: STL header: %w", err)
	}
	if header.Count == 0 {
		return nil, fmt.Errorf("render: STL header: %w", ErrEmptyMesh)
	}
	model := make([]Triangle3, header.Count)
	mismatched := 0
	for i := range model {
		var d sdfxrender.STLTriangle
		if err := binary.Read(br, binary.LittleEndian, &d); err != nil {
			return nil, fmt.Errorf("render: STL triangle %d/%d: %w", i+1, header.Count, err)
		}
		if !finite(d.Normal) || !finite(d.Vertex1) || !finite(d.Vertex2) || !finite(d.Vertex3) {
			return nil, fmt.Errorf("render: STL triangle %d has inf/NaN components", i)
		}
		model[i] = Triangle3{V: [3]r3.Vec{from32(d.Vertex1), from32(d.Vertex2), from32(d.Vertex3)}}
		if !model[i].Degenerate(1e-12) && !normalAgrees(d.Normal, to32(model[i].Normal())) {
			mismatched++
		}
	}
	if mismatched > 0 {
		return model, fmt.Errorf("%w: %d of %d triangles", ErrNormalMismatch, mismatched, header.Count)
	}
	return model, nil
}

func (t *Triangle3) stl() sdfxrender.STLTriangle {
	var d sdfxrender.STLTriangle
	d.Normal = to32(t.Normal())
	d.Vertex1 = to32(t.V[0])
	d.Vertex2 = to32(t.V[1])
	d.Vertex3 = to32(t.V[2])
	return d
}

// normalAgrees accepts the calculated normal in either orientation.
func normalAgrees(stored, calc [3]float32) bool {
	const tol = 5e-2
	same, flipped := true, true
	for i := range stored {
		same = same && math32.Abs(stored[i]-calc[i]) <= tol
		flipped = flipped && math32.Abs(stored[i]+calc[i]) <= tol
	}
	return same || flipped
}

func finite(f [3]float32) bool {
	for _, c := range f {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func to32(v r3.Vec) [3]float32 { return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)} }

func from32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func toV3(v r3.Vec) v3.Vec { return v3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func fromV3(v v3.Vec) r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
