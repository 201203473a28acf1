package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/involute"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const arcPoints = 64

var (
	colorInvolute = color.RGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff}
	colorTrochoid = color.RGBA{R: 0xb6, G: 0x49, B: 0x26, A: 0xff}
	colorCircle   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

func xys(pts []r2.Vec) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, v := range pts {
		out[i].X, out[i].Y = v.X, v.Y
	}
	return out
}

// arc samples the circle of radius r between angles a0 and a1.
func arc(r, a0, a1 float64) []r2.Vec {
	angles := floats.Span(make([]float64, arcPoints), a0, a1)
	pts := make([]r2.Vec, len(angles))
	for i, a := range angles {
		pts[i] = r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return pts
}

func addLine(p *plot.Plot, name string, pts []r2.Vec, c color.Color, dashed bool) error {
	if len(pts) < 2 {
		return nil
	}
	l, err := plotter.NewLine(xys(pts))
	if err != nil {
		return fmt.Errorf("report: %s: %w", name, err)
	}
	l.Color = c
	l.Width = vg.Points(1)
	if dashed {
		l.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
	}
	p.Add(l)
	if name != "" {
		p.Legend.Add(name, l)
	}
	return nil
}

// equalAxes makes both axes span the same length around the data.
func equalAxes(p *plot.Plot) {
	w := p.X.Max - p.X.Min
	h := p.Y.Max - p.Y.Min
	if w > h {
		c := (p.Y.Max + p.Y.Min) / 2
		p.Y.Min, p.Y.Max = c-w/2, c+w/2
	} else {
		c := (p.X.Max + p.X.Min) / 2
		p.X.Min, p.X.Max = c-h/2, c+h/2
	}
}

// ToothPlot plots both flanks of tp split into trochoid and involute
// together with arcs of the reference circles around the tooth.
func ToothPlot(tp *involute.Profile) (*plot.Plot, error) {
	if tp == nil {
		return nil, ErrEmpty
	}
	prm := tp.Params
	p := plot.New()
	p.Title.Text = fmt.Sprintf("tooth m=%g z=%d x=%g", prm.M, prm.Z, prm.X)
	p.X.Label.Text = "x [mm]"
	p.Y.Label.Text = "y [mm]"
	p.Add(plotter.NewGrid())

	span := 1.5 * math.Pi / float64(prm.Z)
	circles := []struct {
		name string
		d    float64
	}{
		{"d", prm.D},
		{"db", prm.Db},
		{"da", prm.Da},
		{"df", prm.Df},
	}
	for _, c := range circles {
		if err := addLine(p, "", arc(c.d/2, -span, span), colorCircle, true); err != nil {
			return nil, err
		}
	}
	for i, f := range []*involute.FlankProfile{&tp.Right, &tp.Left} {
		inv, tro := "", ""
		if i == 0 {
			inv, tro = "involute", "trochoid"
		}
		if err := addLine(p, inv, f.Involute, colorInvolute, false); err != nil {
			return nil, err
		}
		if err := addLine(p, tro, f.Trochoid, colorTrochoid, false); err != nil {
			return nil, err
		}
	}
	equalAxes(p)
	return p, nil
}

// ProfileShiftPlot overlays the tooth outlines of gear in for each profile
// shift coefficient in shifts, n points per curve.
func ProfileShiftPlot(in gear.Input, shifts []float64, n int) (*plot.Plot, error) {
	if len(shifts) == 0 {
		return nil, ErrEmpty
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("profile shift m=%g z=%d", in.M, in.Z)
	p.X.Label.Text = "x [mm]"
	p.Y.Label.Text = "y [mm]"
	p.Add(plotter.NewGrid())
	for i, x := range shifts {
		in.X = x
		prm, err := gear.New(in)
		if err != nil {
			return nil, fmt.Errorf("report: shift %g: %w", x, err)
		}
		tp, err := involute.ToothProfile(prm, n)
		if err != nil {
			return nil, fmt.Errorf("report: shift %g: %w", x, err)
		}
		if err := addLine(p, fmt.Sprintf("x=%g", x), tp.Outline(), plotutil.Color(i), false); err != nil {
			return nil, err
		}
	}
	equalAxes(p)
	return p, nil
}

// SavePlot writes p to path. The format follows the file extension.
func SavePlot(p *plot.Plot, path string, size vg.Length) error {
	return p.Save(size, size, path)
}
