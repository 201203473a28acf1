package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/soypat/gears"
	"github.com/soypat/gears/artifact"
	"github.com/soypat/gears/internal/config"
	"github.com/soypat/gears/report"
	"gonum.org/v1/plot/vg"
)

// profileShifts are the coefficients compared in the profile shift plot.
var profileShifts = []float64{-0.3, 0, 0.3, 0.6}

const plotSize = 5 * vg.Inch

// writeReports writes the collection datasheet and table to cfg.Out and the
// drawings of every gear to its directory. Drawings of a gear whose tooth
// profile cannot be built are skipped with a warning.
func writeReports(cfg config.Config, c *gears.Collection, dirs map[*gears.Gear]string, logger zerolog.Logger) error {
	group := make([]int, len(c.Gears))
	for gi, members := range c.Groups {
		for _, i := range members {
			group[i] = gi
		}
	}
	sheets := make([]report.Gear, len(c.Gears))
	for i, g := range c.Gears {
		name := cfg.Gears[i].Name
		if name == "" {
			name = fmt.Sprintf("gear %d", i)
		}
		sheets[i] = report.Datasheet(name, g.Params, group[i], cfg.ProfilePoints)
		glog := logger.With().Str("gear", g.ID.String()).Logger()
		dir := dirs[g]

		tp := sheets[i].Profile
		if tp == nil {
			glog.Warn().Stringer("params", g.Params).Msg("no tooth profile, drawings skipped")
			continue
		}
		if tp.Undercut() {
			glog.Warn().Msg("tooth is undercut")
		}
		if tp.Pointed() {
			glog.Warn().Msg("tooth tip is pointed")
		}
		if err := artifact.WriteDXF(filepath.Join(dir, "tooth.dxf"), tp, rackTeeth); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		p, err := report.ToothPlot(tp)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := report.SavePlot(p, filepath.Join(dir, "tooth.png"), plotSize); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		p, err = report.ProfileShiftPlot(g.Params.Input(), profileShifts, cfg.ProfilePoints)
		if err != nil {
			glog.Warn().Err(err).Msg("profile shift plot skipped")
			continue
		}
		if err := report.SavePlot(p, filepath.Join(dir, "profile_shift.png"), plotSize); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := writeFile(filepath.Join(cfg.Out, "datasheet.pdf"), func(f *os.File) error {
		return report.WritePDF(f, sheets)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(cfg.Out, "gears.xlsx"), func(f *os.File) error {
		return report.WriteXLSX(f, sheets)
	})
}

// rackTeeth is the number of rack teeth drawn next to a tooth.
const rackTeeth = 3

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
