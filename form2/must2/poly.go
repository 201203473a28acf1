package must2

import (
	"math"

	"github.com/soypat/gears/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// polygon is the signed distance to the region enclosed by a loop of
// straight sides.
type polygon struct {
	sides []side
	bb    r2.Box
}

type side struct {
	a, b   r2.Vec
	dir    r2.Vec // unit vector from a to b
	length float64
}

// Polygon returns the SDF2 of the region enclosed by the vertex loop. The
// loop closes on its own; a repeated first vertex at the end is ignored.
// It panics for fewer than three distinct vertices or a zero length side.
func Polygon(vertex []r2.Vec) *polygon {
	n := len(vertex)
	if n > 1 && d2.EqualWithin(vertex[0], vertex[n-1], tolerance) {
		n--
	}
	if n < 3 {
		panic("polygon needs at least 3 vertices")
	}
	s := &polygon{sides: make([]side, n), bb: r2.Box(d2.BoxOf(vertex[:n]))}
	for i := range s.sides {
		a, b := vertex[i], vertex[(i+1)%n]
		l := r2.Norm(r2.Sub(b, a))
		if l < tolerance {
			panic("zero length polygon side")
		}
		s.sides[i] = side{a: a, b: b, dir: r2.Scale(1/l, r2.Sub(b, a)), length: l}
	}
	return s
}

// Evaluate returns the distance from p to the nearest side, negative when p
// is enclosed by the loop. Inclusion uses the winding number so either loop
// orientation works.
func (s *polygon) Evaluate(p r2.Vec) float64 {
	dd := math.MaxFloat64
	winding := 0
	for _, sd := range s.sides {
		pa := r2.Sub(p, sd.a)
		t := r2.Dot(pa, sd.dir)
		// positive when p is right of the side.
		dn := sd.dir.Y*pa.X - sd.dir.X*pa.Y
		switch {
		case t < 0:
			dd = math.Min(dd, r2.Norm2(pa))
		case t > sd.length:
			dd = math.Min(dd, r2.Norm2(r2.Sub(p, sd.b)))
		default:
			dd = math.Min(dd, dn*dn)
		}
		if sd.a.Y <= p.Y {
			if sd.b.Y > p.Y && dn < 0 {
				winding++
			}
		} else if sd.b.Y <= p.Y && dn > 0 {
			winding--
		}
	}
	if winding != 0 {
		return -math.Sqrt(dd)
	}
	return math.Sqrt(dd)
}

// Bounds returns the bounding box of the vertices.
func (s *polygon) Bounds() r2.Box {
	return s.bb
}

// PolygonBuilder collects the corners of a polygon, any of which may be
// rounded by a circular fillet.
type PolygonBuilder struct {
	closed  bool
	corners []*Corner
}

// Corner is one vertex of a PolygonBuilder.
type Corner struct {
	at     r2.Vec
	radius float64
	facets int
}

// Smooth rounds the corner with an arc of the given radius made of facets
// straight pieces. A zero radius or facet count leaves it sharp.
func (c *Corner) Smooth(radius float64, facets int) *Corner {
	if radius != 0 && facets != 0 {
		c.radius, c.facets = radius, facets
	}
	return c
}

// NewPolygon returns an empty polygon builder.
func NewPolygon() *PolygonBuilder {
	return &PolygonBuilder{}
}

// Close joins the last corner to the first. The end corners of an open
// polygon are never rounded.
func (p *PolygonBuilder) Close() {
	p.closed = true
}

// Add appends the corner at x,y.
func (p *PolygonBuilder) Add(x, y float64) *Corner {
	c := &Corner{at: r2.Vec{X: x, Y: y}}
	p.corners = append(p.corners, c)
	return c
}

// Vertices returns the polygon with every smoothed corner replaced by its
// fillet arc. It panics with ErrFillet when the fillets of a side need more
// room than the side has.
func (p *PolygonBuilder) Vertices() []r2.Vec {
	n := len(p.corners)
	if n == 0 {
		panic("polygon builder has no corners")
	}
	arcs := make([][]r2.Vec, n)
	trim := make([]float64, n)
	for i, c := range p.corners {
		if c.radius == 0 || !p.closed && (i == 0 || i == n-1) {
			arcs[i] = []r2.Vec{c.at}
			continue
		}
		prev, next := p.corners[(i+n-1)%n].at, p.corners[(i+1)%n].at
		arcs[i], trim[i] = fillet(prev, c.at, next, c.radius, c.facets)
	}
	for i := range p.corners {
		j := (i + 1) % n
		if j == 0 && !p.closed {
			break
		}
		l := r2.Norm(r2.Sub(p.corners[j].at, p.corners[i].at))
		if !(trim[i]+trim[j] <= l+tolerance) {
			panic(ErrFillet)
		}
	}
	v := make([]r2.Vec, 0, n)
	for _, arc := range arcs {
		v = append(v, arc...)
	}
	return v
}

// fillet returns the facets+1 points of the arc of the given radius tangent
// to both sides of the corner at, and how far the arc reaches along each
// side. Corners on a straight line are returned as is.
func fillet(prev, at, next r2.Vec, radius float64, facets int) ([]r2.Vec, float64) {
	u0 := r2.Unit(r2.Sub(prev, at))
	u1 := r2.Unit(r2.Sub(next, at))
	theta := math.Acos(math.Max(-1, math.Min(1, r2.Dot(u0, u1))))
	if math.Pi-theta < tolerance {
		return []r2.Vec{at}, 0
	}
	trim := radius / math.Tan(theta/2)
	center := r2.Add(at, r2.Scale(radius/math.Sin(theta/2), r2.Unit(r2.Add(u0, u1))))
	start := r2.Sub(r2.Add(at, r2.Scale(trim, u0)), center)
	a0 := math.Atan2(start.Y, start.X)
	sweep := sign(r2.Cross(u1, u0)) * (math.Pi - theta)
	arc := make([]r2.Vec, facets+1)
	for j := range arc {
		s, c := math.Sincos(a0 + sweep*float64(j)/float64(facets))
		arc[j] = r2.Vec{X: center.X + radius*c, Y: center.Y + radius*s}
	}
	return arc, trim
}
