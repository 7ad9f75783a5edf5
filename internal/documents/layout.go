package documents

import "math"

// Layout holds the PDF page geometry in points.
type Layout struct {
	PageWidth      float64
	PageHeight     float64
	Margin         float64
	TitleHeight    float64
	TitleGap       float64
	SubtitleHeight float64
	SubtitleGap    float64
	HeaderHeight   float64
	HeaderGap      float64
	RowHeight      float64
	FooterReserve  float64
}

// A4 portrait with 40pt margins.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:      595.28,
		PageHeight:     841.89,
		Margin:         40,
		TitleHeight:    22,
		TitleGap:       6,
		SubtitleHeight: 16,
		SubtitleGap:    14,
		HeaderHeight:   26,
		HeaderGap:      6,
		RowHeight:      20,
		FooterReserve:  40,
	}
}

// Columns are the left edges of the three table columns.
type Columns struct {
	Category float64
	Item     float64
	Quantity float64
}

func (l Layout) Left() float64 { return l.Margin }

func (l Layout) ContentWidth() float64 { return l.PageWidth - 2*l.Margin }

func (l Layout) TableWidth() float64 { return math.Min(520, l.ContentWidth()) }

func (l Layout) Columns() Columns {
	left := l.Left()
	return Columns{
		Category: left,
		Item:     left + 200,
		Quantity: left + l.TableWidth() - 60,
	}
}

// BottomLimit is the lowest y a row may reach before a page break.
func (l Layout) BottomLimit() float64 {
	return l.PageHeight - l.Margin - l.FooterReserve
}

// FirstTableTop is where the header band starts on page one, below the
// brand title and subtitle.
func (l Layout) FirstTableTop() float64 {
	return l.Margin + l.TitleHeight + l.TitleGap + l.SubtitleHeight + l.SubtitleGap
}

// Cursor is the current drawing position.
type Cursor struct {
	Page int
	Y    float64
}

type HeaderBand struct {
	Page int
	Y    float64
}

type RowBand struct {
	Page   int
	Y      float64
	Index  int
	Shaded bool
}

func (l Layout) ShouldBreak(c Cursor) bool {
	return c.Y+l.RowHeight > l.BottomLimit()
}

func (l Layout) NextPage(c Cursor) Cursor {
	return Cursor{Page: c.Page + 1, Y: l.Margin}
}

func (l Layout) PlaceHeader(c Cursor) (HeaderBand, Cursor) {
	return HeaderBand{Page: c.Page, Y: c.Y}, Cursor{Page: c.Page, Y: c.Y + l.HeaderHeight + l.HeaderGap}
}

// PlaceRow positions row index. Shading follows the running index, so it
// does not restart on a new page.
func (l Layout) PlaceRow(c Cursor, index int) (RowBand, Cursor) {
	band := RowBand{Page: c.Page, Y: c.Y, Index: index, Shaded: index%2 == 0}
	return band, Cursor{Page: c.Page, Y: c.Y + l.RowHeight}
}

type PagePlan struct {
	Number int
	Header HeaderBand
	Rows   []RowBand
}

// Plan is the complete placement of a table with n rows.
type Plan struct {
	Pages   []PagePlan
	Empty   bool
	EmptyY  float64
	FooterY float64
}

func (l Layout) Plan(n int) Plan {
	c := Cursor{Page: 1, Y: l.FirstTableTop()}
	var header HeaderBand
	header, c = l.PlaceHeader(c)
	plan := Plan{Pages: []PagePlan{{Number: 1, Header: header}}}

	if n == 0 {
		plan.Empty = true
		plan.EmptyY = c.Y
		c.Y += l.RowHeight
	}

	for i := 0; i < n; i++ {
		if l.ShouldBreak(c) {
			c = l.NextPage(c)
			header, c = l.PlaceHeader(c)
			plan.Pages = append(plan.Pages, PagePlan{Number: c.Page, Header: header})
		}
		var row RowBand
		row, c = l.PlaceRow(c, i)
		page := &plan.Pages[len(plan.Pages)-1]
		page.Rows = append(page.Rows, row)
	}

	plan.FooterY = c.Y + 12
	return plan
}
