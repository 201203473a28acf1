package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/gears/form2"
	"github.com/soypat/gears/internal/d3"
	"github.com/soypat/gears/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

func cylinder(t testing.TB, r, h float64) sdf.SDF3 {
	c, err := form2.Circle(r)
	if err != nil {
		t.Fatal(err)
	}
	return sdf.Extrude3D(c, h)
}

func TestMarchingCubesSurface(t *testing.T) {
	const cells = 40
	s := cylinder(t, 5, 4)
	model, err := MarchingCubes(s, cells)
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("no triangles")
	}
	cell := r3.Norm(d3.Box(s.Bounds()).Size()) / cells
	for i, tri := range model {
		for _, v := range tri.V {
			if d := math.Abs(s.Evaluate(v)); d > cell {
				t.Fatalf("triangle %d vertex %v is %g from the surface", i, v, d)
			}
		}
	}
	bb := d3.Box(Bounds(model))
	if !bb.Equals(d3.Box(s.Bounds()), cell) {
		t.Errorf("mesh bounds %+v, want about %+v", bb, s.Bounds())
	}
}

func TestMarchingCubesArgs(t *testing.T) {
	if _, err := MarchingCubes(nil, 10); err == nil {
		t.Error("expected error for nil sdf")
	}
	if _, err := MarchingCubes(cylinder(t, 1, 1), 0); err == nil {
		t.Error("expected error for zero cells")
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	input, err := MarchingCubes(cylinder(t, 3, 2), 30)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84+50*len(input) {
		t.Fatalf("wrote %d bytes for %d triangles", b.Len(), len(input))
	}
	output, err := ReadSTL(&b)
	if err != nil && !errors.Is(err, ErrNormalMismatch) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], tol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got.V[i], expect.V[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestSaveSTLMatchesWriteSTL(t *testing.T) {
	model, err := MarchingCubes(cylinder(t, 2, 1), 20)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "disc.stl")
	if err := SaveSTL(path, model); err != nil {
		t.Fatal(err)
	}
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), saved) {
		t.Fatal("SaveSTL and WriteSTL output mismatch")
	}

	loaded, err := LoadSTL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(model) {
		t.Fatalf("loaded %d triangles, saved %d", len(loaded), len(model))
	}
	if !d3.EqualWithin(loaded[0].V[2], model[0].V[2], 1e-5) {
		t.Errorf("first triangle %v, want %v", loaded[0], model[0])
	}
}

func TestReadSTLNormalMismatch(t *testing.T) {
	model := []Triangle3{{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}}
	var b bytes.Buffer
	if err := WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	raw := b.Bytes()
	// overwrite the stored +z normal with +x.
	binary.LittleEndian.PutUint32(raw[84:], math.Float32bits(1))
	binary.LittleEndian.PutUint32(raw[92:], 0)
	got, err := ReadSTL(bytes.NewReader(raw))
	if !errors.Is(err, ErrNormalMismatch) {
		t.Fatalf("got error %v, want normal mismatch", err)
	}
	if len(got) != 1 {
		t.Fatal("mismatching triangles must be returned")
	}
	if _, err := ReadSTL(bytes.NewReader(raw[:84])); err == nil {
		t.Error("expected error for truncated stream")
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := WriteSTL(&b, nil); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("got %v, want ErrEmptyMesh", err)
	}
	if err := SaveSTL(filepath.Join(t.TempDir(), "empty.stl"), nil); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("got %v, want ErrEmptyMesh", err)
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}
	if n := tri.Normal(); !d3.EqualWithin(n, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("normal %v, want +z", n)
	}
	if tri.Degenerate(1e-9) {
		t.Error("triangle is not degenerate")
	}
	tri.V[2] = tri.V[1]
	if !tri.Degenerate(1e-9) {
		t.Error("triangle is degenerate")
	}
}
