package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet is a worksheet reduced to text and fill presence, addressed with
// 1-based row and column numbers like the spreadsheet itself.
type Sheet struct {
	rows [][]Cell
}

func NewSheet(rows [][]Cell) *Sheet {
	return &Sheet{rows: rows}
}

func (s *Sheet) Cell(row, col int) Cell {
	if row < 1 || row > len(s.rows) {
		return Cell{}
	}
	r := s.rows[row-1]
	if col < 1 || col > len(r) {
		return Cell{}
	}
	return r[col-1]
}

func (s *Sheet) RowCount() int {
	return len(s.rows)
}

func (s *Sheet) ColCount() int {
	n := 0
	for _, r := range s.rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// ReadWorkbook loads the first worksheet of an xlsx document.
func ReadWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	name := sheets[0]

	// Raw values keep number formats like `0 "pcs"` out of quantity cells.
	values, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	fills := make(map[int]bool)
	rows := make([][]Cell, len(values))
	for r, vals := range values {
		rows[r] = make([]Cell, len(vals))
		for c, v := range vals {
			cell := Cell{Text: v}
			if v != "" {
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				filled, err := cellFilled(f, name, axis, fills)
				if err != nil {
					return nil, fmt.Errorf("read style of %s: %w", axis, err)
				}
				cell.Filled = filled
			}
			rows[r][c] = cell
		}
	}
	return &Sheet{rows: rows}, nil
}

// cellFilled reports whether the cell's fill carries a foreground colour,
// given either as RGB or as a theme index. The pattern type is not
// consulted.
func cellFilled(f *excelize.File, sheet, axis string, cache map[int]bool) (bool, error) {
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return false, err
	}
	if filled, ok := cache[styleID]; ok {
		return filled, nil
	}
	// GetStyle validates the id and loads the stylesheet. Its resolved
	// colours stay empty when the workbook has no theme part, so the raw
	// fill definition is read instead.
	if _, err := f.GetStyle(styleID); err != nil {
		return false, err
	}
	filled := hasForegroundColor(f, styleID)
	cache[styleID] = filled
	return filled, nil
}

func hasForegroundColor(f *excelize.File, styleID int) bool {
	s := f.Styles
	if s == nil || s.CellXfs == nil || s.Fills == nil || styleID >= len(s.CellXfs.Xf) {
		return false
	}
	fillID := s.CellXfs.Xf[styleID].FillID
	if fillID == nil || *fillID < 0 || *fillID >= len(s.Fills.Fill) {
		return false
	}
	fill := s.Fills.Fill[*fillID]
	if fill == nil || fill.PatternFill == nil || fill.PatternFill.FgColor == nil {
		return false
	}
	fg := fill.PatternFill.FgColor
	return fg.RGB != "" || fg.Theme != nil
}
