// Package report produces human readable summaries of gears: datasheets,
// spreadsheets and profile plots.
package report

import (
	"errors"
	"fmt"

	"github.com/soypat/gears/gear"
	"github.com/soypat/gears/involute"
)

// ErrEmpty is returned when a report has no gears.
var ErrEmpty = errors.New("report: no gears")

// Gear is one gear of a report.
type Gear struct {
	Name   string
	Params gear.Parameters
	// Profile is drawn on datasheets when not nil.
	Profile *involute.Profile
	// Group is the index of the rack group cutting the gear, -1 if unknown.
	Group int
}

type field struct {
	name, unit string
	value      float64
}

// fields lists the derived quantities of p in report order.
func fields(p gear.Parameters) []field {
	return []field{
		{"module m", "mm", p.M},
		{"teeth z", "", float64(p.Z)},
		{"face width b", "mm", p.B},
		{"profile shift x", "", p.X},
		{"transverse pressure angle", "deg", p.AlphaT},
		{"normal pressure angle", "deg", p.AlphaN},
		{"helix angle", "deg", p.Beta},
		{"base helix angle", "deg", p.BetaB},
		{"addendum coefficient", "", p.HaStar},
		{"clearance coefficient", "", p.CStar},
		{"root fillet coefficient", "", p.RhoFStar},
		{"addendum ha", "mm", p.Ha},
		{"dedendum hf", "mm", p.Hf},
		{"root fillet radius", "mm", p.RhoF},
		{"pitch diameter d", "mm", p.D},
		{"base diameter db", "mm", p.Db},
		{"tip diameter da", "mm", p.Da},
		{"root diameter df", "mm", p.Df},
		{"circular pitch p", "mm", p.P},
	}
}

func (f field) String() string {
	if f.unit == "" {
		return fmt.Sprintf("%.4g", f.value)
	}
	return fmt.Sprintf("%.4f %s", f.value, f.unit)
}
