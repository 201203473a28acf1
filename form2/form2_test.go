package form2

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestPolygonSquare(t *testing.T) {
	sq := []r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	s, err := Polygon(sq)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		p    r2.Vec
		want float64
	}{
		{p: r2.Vec{}, want: -1},
		{p: r2.Vec{X: 3}, want: 2},
		{p: r2.Vec{X: 0.5, Y: 0.25}, want: -0.5},
		{p: r2.Vec{X: 2, Y: 2}, want: math.Sqrt2},
	} {
		got := s.Evaluate(test.p)
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("Evaluate(%v)=%g, want %g", test.p, got, test.want)
		}
	}
	if math.Abs(Area(sq)-4) > 1e-12 {
		t.Errorf("area %g", Area(sq))
	}
}

func TestPolygonErrors(t *testing.T) {
	_, err := Polygon([]r2.Vec{{}, {X: 1}})
	if err == nil {
		t.Error("expected error for two vertices")
	}
	_, err = Circle(-1)
	if err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestSmoothedCorner(t *testing.T) {
	b := NewPolygon()
	b.Add(0, 0)
	b.Add(4, 0).Smooth(1, 8)
	b.Add(4, 4)
	b.Add(0, 4)
	b.Close()
	v, err := Vertices(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 3+9 {
		t.Fatalf("got %d vertices, want 12", len(v))
	}
	s, err := Polygon(v)
	if err != nil {
		t.Fatal(err)
	}
	// the sharp corner is cut away by the fillet.
	if d := s.Evaluate(r2.Vec{X: 3.95, Y: 0.05}); d <= 0 {
		t.Errorf("corner point should be outside the filleted polygon, got %g", d)
	}
	// fillet center sits one radius from the arc, less the chord sagitta.
	if d := s.Evaluate(r2.Vec{X: 3, Y: 1}); d > -math.Cos(math.Pi/16)+1e-9 || d < -1 {
		t.Errorf("fillet center distance %g, want about -1", d)
	}
	if SelfIntersects(v) {
		t.Error("filleted loop must not self intersect")
	}
}

func TestFilletTooLarge(t *testing.T) {
	b := NewPolygon()
	b.Add(0, 0)
	b.Add(1, 0).Smooth(5, 4)
	b.Add(1, 1)
	b.Close()
	_, err := Vertices(b)
	if !errors.Is(err, ErrFillet) {
		t.Errorf("want ErrFillet, got %v", err)
	}
}

func TestFilletsShareSide(t *testing.T) {
	// a rack tooth tip: both tip corners round into the same land.
	build := func(land float64) error {
		b := NewPolygon()
		b.Close()
		b.Add(-3, 0)
		b.Add(3, 0)
		b.Add(land/2, 2).Smooth(0.5, 4)
		b.Add(-land/2, 2).Smooth(0.5, 4)
		_, err := Vertices(b)
		return err
	}
	// each fillet takes about 0.16 of the land.
	if err := build(1); err != nil {
		t.Errorf("land 1: %v", err)
	}
	if err := build(0.2); !errors.Is(err, ErrFillet) {
		t.Errorf("land 0.2: want ErrFillet, got %v", err)
	}
}

func TestOpenPolygonEnds(t *testing.T) {
	b := NewPolygon()
	b.Add(0, 0).Smooth(1, 4)
	b.Add(4, 0).Smooth(1, 4)
	b.Add(4, 4).Smooth(1, 4)
	v, err := Vertices(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 1+5+1 {
		t.Fatalf("got %d vertices, only the middle corner rounds", len(v))
	}
	if v[0] != (r2.Vec{}) || v[len(v)-1] != (r2.Vec{X: 4, Y: 4}) {
		t.Errorf("open ends moved: %v", v)
	}
}

func TestPolygonRepeatedStart(t *testing.T) {
	loop := []r2.Vec{{}, {X: 2}, {X: 2, Y: 2}, {Y: 2}, {}}
	s, err := Polygon(loop)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Evaluate(r2.Vec{X: 1, Y: 1}); math.Abs(got+1) > 1e-12 {
		t.Errorf("center distance %g, want -1", got)
	}
	_, err = Polygon([]r2.Vec{{}, {X: 1}, {X: 1}, {Y: 1}})
	if err == nil {
		t.Error("expected error for a zero length side")
	}
}

func TestSelfIntersects(t *testing.T) {
	bowtie := []r2.Vec{{}, {X: 1, Y: 1}, {X: 1}, {Y: 1}}
	if !SelfIntersects(bowtie) {
		t.Error("bowtie should self intersect")
	}
}
