package artifact

import (
	"errors"
	"fmt"

	"github.com/soypat/gears/involute"
	"github.com/soypat/gears/rack"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"gonum.org/v1/gonum/spatial/r2"
)

// DXF layer names.
const (
	LayerTooth = "TOOTH"
	LayerRack  = "RACK"
	LayerPitch = "PITCH"
	LayerBase  = "BASE"
	LayerTip   = "TIP"
	LayerRoot  = "ROOT"
)

// WriteDXF writes a drawing of the tooth profile tp centered on the +x
// axis together with its pitch, base, tip and root circles. When rackTeeth
// is positive the rack cutter outline is drawn engaged with the tooth at
// the pitch point.
func WriteDXF(path string, tp *involute.Profile, rackTeeth int) error {
	if tp == nil {
		return errors.New("artifact: nil tooth profile")
	}
	p := tp.Params
	d := dxf.NewDrawing()

	circles := []struct {
		layer string
		col   color.ColorNumber
		dia   float64
	}{
		{LayerPitch, color.Red, p.D},
		{LayerBase, color.Blue, p.Db},
		{LayerTip, color.Green, p.Da},
		{LayerRoot, color.Magenta, p.Df},
	}
	for _, c := range circles {
		if _, err := d.AddLayer(c.layer, c.col, dxf.DefaultLineType, true); err != nil {
			return err
		}
		if _, err := d.Circle(0, 0, 0, c.dia/2); err != nil {
			return err
		}
	}

	if _, err := d.AddLayer(LayerTooth, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	if err := polyline(d, tp.Outline(), false); err != nil {
		return err
	}

	if rackTeeth > 0 {
		outline, err := rack.Outline(p, rackTeeth)
		if err != nil {
			return fmt.Errorf("rack outline: %w", err)
		}
		if _, err := d.AddLayer(LayerRack, color.Yellow, dxf.DefaultLineType, true); err != nil {
			return err
		}
		if err := polyline(d, Engage(outline, p.D/2, p.P, rackTeeth), true); err != nil {
			return err
		}
	}
	return d.SaveAs(path)
}

// Engage maps a rack outline from its own frame into the tooth frame: the
// pitch line becomes tangent to the pitch circle of radius r at (r, 0) with
// the rack teeth pointing toward the center and a tooth gap facing the
// tooth on the +x axis.
func Engage(outline []r2.Vec, r, pitch float64, teeth int) []r2.Vec {
	var shift float64
	if teeth%2 == 1 {
		shift = pitch / 2
	}
	out := make([]r2.Vec, len(outline))
	for i, v := range outline {
		out[i] = r2.Vec{X: r - v.Y, Y: v.X - shift}
	}
	return out
}

func polyline(d *drawing.Drawing, pts []r2.Vec, closed bool) error {
	if len(pts) < 2 {
		return errors.New("artifact: polyline needs two points")
	}
	n := len(pts) - 1
	if closed {
		n++
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return err
		}
	}
	return nil
}
