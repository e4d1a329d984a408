package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
)

func TestHalfRange(t *testing.T) {
	assert.Equal(t, Cols(24, 74), HalfRange(Cols(1, 99), 50))
}

func TestGeometryValidate(t *testing.T) {
	require.NoError(t, Letter().Validate())

	g := Letter()
	g.MarginSide = 5
	assert.Error(t, g.Validate())

	g = Letter()
	g.DPI = 0
	assert.Error(t, g.Validate())
}

func TestCellTypeFormat(t *testing.T) {
	assert.Equal(t, "abc", CellString.Format("abc"))
	assert.Equal(t, "1,234.50", CellNumber(2).Format("1234.5"))
	assert.Equal(t, "$1,234.57", CellCurrency(2).Format("$1,234.567"))
	assert.Equal(t, "-$3.00", CellCurrency(2).Format("-3"))
	assert.Equal(t, "n/a", CellNumber(2).Format("n/a"))
	assert.Equal(t, "12,345,678,901,234.57", CellNumber(2).Format("12345678901234.565"))
	assert.Equal(t, "$0.10", CellCurrency(2).Format("0.1"))
	assert.Equal(t, "7", CellNumber(0).Format("7.2"))
}

func TestTextBoxRecordsGroupExtent(t *testing.T) {
	m := NewManager(Letter())
	tb := NewTextBox("And", 12)
	tb.Group = 3
	require.NoError(t, m.Reserve(Cols(24, 74), false).SetHeight(21.6).Draw(tb))

	res := m.Result()
	require.Len(t, res.Borders, 1)
	b := res.Borders[0]
	assert.Equal(t, 3, b.Group)
	assert.Zero(t, b.Width)
	assert.InDelta(t, 21.6, b.Rect.H, 1e-9)
	assert.NotEmpty(t, res.Pages[0])
}

func TestReserveNewPage(t *testing.T) {
	m := NewManager(Letter())

	// an empty page is reused
	m.Reserve(Cols(0, 100), true).SetHeight(10).Skip()
	assert.Equal(t, 0, m.Page())

	m.Reserve(Cols(0, 100), true).SetHeight(10).Skip()
	assert.Equal(t, 1, m.Page())
}

func TestTablePaginatesAndRepeatsHeader(t *testing.T) {
	m := NewManager(Letter())
	rows := make([]Row, 80)
	for i := range rows {
		rows[i] = Row{Cells: []string{"x", "1"}}
	}
	table := Table{
		Columns:    []float64{1, 1},
		Header:     []string{"Name", "Qty"},
		HeaderFont: 12,
		ItemFont:   10,
		Types:      []CellType{CellString, CellNumber(2)},
		Rows:       rows,
		Border:     BorderStyle{Inner: 1.4, Outer: 1.4},
		Group:      NoGroup,
	}
	require.NoError(t, m.Reserve(Cols(2, 93), false).Draw(table))

	res := m.Result()
	require.Greater(t, len(res.Pages), 1)

	_, _, top, bottom := res.Geometry.printable()
	outlines := 0
	for _, b := range res.Borders {
		assert.GreaterOrEqual(t, b.Rect.Y, bottom-1e-9)
		assert.LessOrEqual(t, b.Rect.Top(), top+1e-9)
		if b.Width == 1.4 && b.Rect.H > 30 {
			outlines++
		}
	}
	assert.Equal(t, len(res.Pages), outlines)

	headers := 0
	for _, page := range res.Pages {
		for _, op := range page {
			if op.Operator == "Tj" && op.Operands[0] == pdf.Text("Name") {
				headers++
			}
		}
	}
	assert.Equal(t, len(res.Pages), headers)
}

func TestGroupFrames(t *testing.T) {
	borders := []Border{
		{Rect: Rect{X: 10, Y: 10, W: 10, H: 10}, Page: 0, Group: 1},
		{Rect: Rect{X: 30, Y: 5, W: 5, H: 5}, Page: 0, Group: 1},
		{Rect: Rect{X: 0, Y: 0, W: 1, H: 1}, Page: 1, Group: 1},
		{Rect: Rect{X: 50, Y: 50, W: 10, H: 10}, Page: 0, Group: 0},
		{Rect: Rect{X: 0, Y: 0, W: 500, H: 500}, Page: 0, Group: NoGroup},
	}

	frames := GroupFrames(borders, 6)
	require.Len(t, frames, 3)

	assert.Equal(t, Frame{Group: 0, Page: 0, Rect: Rect{X: 44, Y: 44, W: 22, H: 22}}, frames[0])
	assert.Equal(t, Frame{Group: 1, Page: 0, Rect: Rect{X: 4, Y: -1, W: 37, H: 27}}, frames[1])
	assert.Equal(t, 1, frames[2].Page)

	for _, f := range frames {
		for _, b := range borders {
			if b.Group == f.Group && b.Page == f.Page {
				assert.True(t, f.Rect.Inflate(-6).Contains(b.Rect))
			}
		}
	}
}

func TestFrameStyleColorFor(t *testing.T) {
	s := FrameStyle{Palette: []pdf.Color{pdf.Red, pdf.Green, pdf.Yellow, pdf.Magenta, pdf.Black}}
	assert.Equal(t, pdf.Red, s.ColorFor(0))
	assert.Equal(t, pdf.Black, s.ColorFor(4))
	assert.Equal(t, pdf.Green, s.ColorFor(6))
	assert.Equal(t, pdf.Black, FrameStyle{}.ColorFor(2))
}
