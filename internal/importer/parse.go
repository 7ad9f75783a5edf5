package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsedItem is an item row read from the sheet.
type ParsedItem struct {
	Name     string
	Quantity int
}

// Group is a category marker and the item rows under it.
type Group struct {
	Name  string
	Items []ParsedItem
}

// ParseStats counts rows by classification.
type ParseStats struct {
	Categories int
	Items      int
	Orphans    int
	Skipped    int
}

type ParseResult struct {
	Groups   []Group
	Stats    ParseStats
	Warnings []string
}

// Parse walks the sheet one column pair at a time: odd columns hold item
// names and the column to their right holds quantities. Row 1 is a banner.
func Parse(sheet *Sheet) ParseResult {
	var res ParseResult
	for col := 1; col <= sheet.ColCount(); col += 2 {
		current := -1
		for row := 2; row <= sheet.RowCount(); row++ {
			cell := sheet.Cell(row, col)
			switch ClassifyRow(cell) {
			case Skip:
				if strings.TrimSpace(cell.Text) != "" {
					res.Stats.Skipped++
				}
			case CategoryMarker:
				res.Groups = append(res.Groups, Group{Name: categoryName(cell.Text)})
				current = len(res.Groups) - 1
				res.Stats.Categories++
			case ItemRow:
				name := strings.TrimSpace(cell.Text)
				if current < 0 {
					res.Stats.Orphans++
					res.Warnings = append(res.Warnings,
						fmt.Sprintf("row %d col %d: item %q has no category above it, skipped", row, col, name))
					continue
				}
				qtyText := strings.TrimSpace(sheet.Cell(row, col+1).Text)
				qty, ok := parseQuantity(qtyText)
				if !ok {
					res.Warnings = append(res.Warnings,
						fmt.Sprintf("row %d col %d: quantity %q for %q is not a valid count, using 0", row, col+1, qtyText, name))
				}
				g := &res.Groups[current]
				g.Items = append(g.Items, ParsedItem{Name: name, Quantity: qty})
				res.Stats.Items++
			}
		}
	}
	return res
}

// parseQuantity returns 0 for blank cells. ok is false only when a
// non-blank value had to be replaced.
func parseQuantity(text string) (int, bool) {
	if text == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0 {
		return 0, false
	}
	return int(math.Round(v)), true
}
