package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayoutGeometry(t *testing.T) {
	l := DefaultLayout()

	assert.InDelta(t, 515.28, l.TableWidth(), 0.001)
	cols := l.Columns()
	assert.InDelta(t, 40, cols.Category, 0.001)
	assert.InDelta(t, 240, cols.Item, 0.001)
	assert.InDelta(t, 495.28, cols.Quantity, 0.001)
	assert.InDelta(t, 761.89, l.BottomLimit(), 0.001)
	assert.InDelta(t, 98, l.FirstTableTop(), 0.001)
}

func TestTableWidthIsCapped(t *testing.T) {
	l := DefaultLayout()
	l.PageWidth = 842
	assert.InDelta(t, 520, l.TableWidth(), 0.001)
}

func TestShouldBreak(t *testing.T) {
	l := DefaultLayout()
	assert.False(t, l.ShouldBreak(Cursor{Page: 1, Y: 741}))
	assert.True(t, l.ShouldBreak(Cursor{Page: 1, Y: 742}))
}

func TestPlaceHeaderAndRowAdvanceCursor(t *testing.T) {
	l := DefaultLayout()

	band, c := l.PlaceHeader(Cursor{Page: 2, Y: 40})
	assert.Equal(t, HeaderBand{Page: 2, Y: 40}, band)
	assert.InDelta(t, 72, c.Y, 0.001)

	row, next := l.PlaceRow(c, 3)
	assert.Equal(t, 3, row.Index)
	assert.False(t, row.Shaded)
	assert.InDelta(t, 92, next.Y, 0.001)
	assert.Equal(t, 2, next.Page)
}

func TestPlanEmpty(t *testing.T) {
	plan := DefaultLayout().Plan(0)

	require.Len(t, plan.Pages, 1)
	assert.True(t, plan.Empty)
	assert.Empty(t, plan.Pages[0].Rows)
	assert.InDelta(t, 130, plan.EmptyY, 0.001)
	assert.InDelta(t, 162, plan.FooterY, 0.001)
}

func TestPlanFirstPageCapacity(t *testing.T) {
	l := DefaultLayout()

	assert.Len(t, l.Plan(31).Pages, 1)

	plan := l.Plan(32)
	require.Len(t, plan.Pages, 2)
	assert.Len(t, plan.Pages[0].Rows, 31)
	require.Len(t, plan.Pages[1].Rows, 1)
	assert.InDelta(t, 40, plan.Pages[1].Header.Y, 0.001)
	assert.InDelta(t, 72, plan.Pages[1].Rows[0].Y, 0.001)
}

func TestPlanMultiPage(t *testing.T) {
	l := DefaultLayout()
	plan := l.Plan(100)

	require.Len(t, plan.Pages, 4)
	want := []int{31, 34, 34, 1}
	next := 0
	for i, page := range plan.Pages {
		assert.Equal(t, i+1, page.Number)
		assert.Equal(t, i+1, page.Header.Page)
		assert.Len(t, page.Rows, want[i])
		for _, row := range page.Rows {
			assert.Equal(t, next, row.Index)
			assert.Equal(t, row.Index%2 == 0, row.Shaded, "row %d", row.Index)
			assert.LessOrEqual(t, row.Y+l.RowHeight, l.BottomLimit())
			next++
		}
	}
	assert.False(t, plan.Empty)
	last := plan.Pages[3].Rows[0]
	assert.InDelta(t, last.Y+l.RowHeight+12, plan.FooterY, 0.001)
}
