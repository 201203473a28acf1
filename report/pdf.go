package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/involute"
)

// Page layout in mm, A4 portrait.
const (
	pageWidth   = 210.0
	pageHeight  = 297.0
	margin      = 15.0
	titleHeight = 10.0
	rowHeight   = 6.0
	tableWidth  = 90.0
	drawTop     = margin + titleHeight + 5
)

// WritePDF writes a datasheet with one page per gear to w: the derived
// parameters as a table and, when the profile is known, a drawing of one
// tooth with its reference circles.
func WritePDF(w io.Writer, gears []Gear) error {
	if len(gears) == 0 {
		return ErrEmpty
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)
	for _, g := range gears {
		pdf.AddPage()
		datasheetPage(pdf, g)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: pdf: %w", err)
	}
	return pdf.Output(w)
}

func datasheetPage(pdf *fpdf.Fpdf, g Gear) {
	p := g.Params
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(margin, margin)
	title := fmt.Sprintf("%s: m=%g z=%d", g.Name, p.M, p.Z)
	if p.Helical() {
		title += fmt.Sprintf(" helical %g deg", p.Beta)
	}
	pdf.CellFormat(pageWidth-2*margin, titleHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	y := drawTop
	for i, f := range fields(p) {
		fill := i%2 == 0
		pdf.SetFillColor(235, 235, 235)
		pdf.SetXY(margin, y)
		pdf.CellFormat(tableWidth*0.6, rowHeight, f.name, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(tableWidth*0.4, rowHeight, f.String(), "1", 0, "R", fill, 0, "")
		y += rowHeight
	}
	y += rowHeight
	pdf.SetXY(margin, y)
	pdf.CellFormat(tableWidth, rowHeight, "rack group: "+groupLabel(g.Group), "", 0, "L", false, 0, "")
	if g.Profile != nil {
		y += rowHeight
		pdf.SetXY(margin, y)
		pdf.CellFormat(tableWidth, rowHeight, flags(g.Profile), "", 0, "L", false, 0, "")
		drawTooth(pdf, g.Profile, margin+tableWidth+10, drawTop, pageWidth-margin-(margin+tableWidth+10))
	}
}

func groupLabel(g int) string {
	if g < 0 {
		return "-"
	}
	return fmt.Sprint(g)
}

func flags(tp *involute.Profile) string {
	switch {
	case tp.Undercut() && tp.Pointed():
		return "undercut, pointed tip"
	case tp.Undercut():
		return "undercut"
	case tp.Pointed():
		return "pointed tip"
	}
	return "regular tooth"
}

// drawTooth draws the tooth in a size x size box with its top left corner
// at (left, top). The tooth axis points up the page.
func drawTooth(pdf *fpdf.Fpdf, tp *involute.Profile, left, top, size float64) {
	p := tp.Params
	outline := tp.Outline()
	if len(outline) < 2 {
		return
	}
	// tooth frame x runs from below the root circle to the tip circle.
	lo := p.Df/2 - p.M
	hi := p.Da/2 + p.M/2
	scale := size / (hi - lo)
	cx := left + size/2
	toPage := func(x, y float64) (float64, float64) {
		return cx - y*scale, top + (hi-x)*scale
	}
	centerX, centerY := toPage(0, 0)

	pdf.SetLineWidth(0.15)
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for _, d := range []float64{p.D, p.Db, p.Da, p.Df} {
		r := d / 2 * scale
		// only the part of the circle near the tooth lies inside the box.
		span := math.Min(math.Pi/2, (size/2)/r)
		deg := span * 180 / math.Pi
		pdf.Arc(centerX, centerY, r, r, 0, 90-deg, 90+deg, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(0x46, 0x89, 0x66)
	x0, y0 := toPage(outline[0].X, outline[0].Y)
	for _, v := range outline[1:] {
		x1, y1 := toPage(v.X, v.Y)
		pdf.Line(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}

// Datasheet builds a report entry for p with a tooth profile of n points
// per curve. A profile that cannot be built is left out.
func Datasheet(name string, p gear.Parameters, group, n int) Gear {
	g := Gear{Name: name, Params: p, Group: group}
	if tp, err := involute.ToothProfile(p, n); err == nil {
		g.Profile = tp
	}
	return g
}
