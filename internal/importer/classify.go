package importer

import "strings"

// Cell is the part of a worksheet cell the importer looks at.
type Cell struct {
	Text   string
	Filled bool
}

type RowKind int

const (
	Skip RowKind = iota
	CategoryMarker
	ItemRow
)

func (k RowKind) String() string {
	switch k {
	case CategoryMarker:
		return "category"
	case ItemRow:
		return "item"
	default:
		return "skip"
	}
}

var headerTokens = map[string]bool{
	"ITEMS NAME": true,
	"QTY":        true,
}

// ClassifyRow decides what an item-name cell means. Blank cells and the
// literal column headers are skipped, a filled cell opens a category, and
// anything else is an item of the current category.
func ClassifyRow(c Cell) RowKind {
	text := strings.TrimSpace(c.Text)
	if text == "" || headerTokens[strings.ToUpper(text)] {
		return Skip
	}
	if c.Filled {
		return CategoryMarker
	}
	return ItemRow
}

// categoryName collapses internal whitespace runs to a single space.
func categoryName(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
