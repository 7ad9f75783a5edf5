package documents

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"shop-backend/internal/models"
)

const (
	SheetName    = "Order Summary"
	firstDataRow = 4
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "B0B0B0", Style: 1},
	{Type: "top", Color: "B0B0B0", Style: 1},
	{Type: "right", Color: "B0B0B0", Style: 1},
	{Type: "bottom", Color: "B0B0B0", Style: 1},
}

type sheetStyles struct {
	brand, subtitle, header, plain, shaded int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	if s.brand, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0D47A1"}},
		Alignment: center,
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: center,
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1976D2"}},
		Alignment: center,
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	if s.plain, err = f.NewStyle(&excelize.Style{Border: thinBorder}); err != nil {
		return s, err
	}
	s.shaded, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F3F6FA"}},
		Border: thinBorder,
	})
	return s, err
}

// RenderSpreadsheet builds a single-sheet workbook: brand band, subtitle
// band, column header row, then one row per line.
func (g *Generator) RenderSpreadsheet(lines []models.OrderLine, timestamp, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, fmt.Errorf("create styles: %w", err)
	}

	set := func(axis string, v any, style int) error {
		if err := f.SetCellValue(SheetName, axis, v); err != nil {
			return err
		}
		return f.SetCellStyle(SheetName, axis, axis, style)
	}

	steps := []func() error{
		func() error { return f.MergeCell(SheetName, "A1", "C1") },
		func() error { return f.MergeCell(SheetName, "A2", "C2") },
		func() error { return set("A1", g.brand, styles.brand) },
		func() error { return f.SetCellStyle(SheetName, "B1", "C1", styles.brand) },
		func() error { return set("A2", subtitle(title, timestamp), styles.subtitle) },
		func() error { return f.SetCellStyle(SheetName, "B2", "C2", styles.subtitle) },
		func() error { return set("A3", "Category", styles.header) },
		func() error { return set("B3", "Item", styles.header) },
		func() error { return set("C3", "Quantity", styles.header) },
		func() error { return f.SetColWidth(SheetName, "A", "A", 20) },
		func() error { return f.SetColWidth(SheetName, "B", "B", 30) },
		func() error { return f.SetColWidth(SheetName, "C", "C", 12) },
		func() error { return f.SetRowHeight(SheetName, 1, 24) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("render spreadsheet: %w", err)
		}
	}

	for i, line := range lines {
		row := firstDataRow + i
		style := styles.plain
		if row%2 == 0 {
			style = styles.shaded
		}
		category, name, _ := lineText(line)
		values := []any{category, name, line.Quantity}
		for c, v := range values {
			axis, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return nil, err
			}
			if err := set(axis, v, style); err != nil {
				return nil, fmt.Errorf("render spreadsheet row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
