package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the gear table.
const SheetName = "Gears"

// WriteXLSX writes a workbook with one row per gear to w. The columns are
// the gear name, its rack group and every derived parameter.
func WriteXLSX(w io.Writer, gears []Gear) error {
	if len(gears) == 0 {
		return ErrEmpty
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	header := []any{"name", "group"}
	for _, fl := range fields(gears[0].Params) {
		h := fl.name
		if fl.unit != "" {
			h += " [" + fl.unit + "]"
		}
		header = append(header, h)
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, g := range gears {
		row := []any{g.Name, g.Group}
		for _, fl := range fields(g.Params) {
			row = append(row, fl.value)
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report: xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}
