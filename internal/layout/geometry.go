// =============================================================================
// Promo Missing Report - Layout Engine
// =============================================================================
//
// A small top-down flow layout over fixed-size pages. Content is placed in
// column ranges expressed in abstract units (0 = left printable edge,
// 100 = right printable edge); the manager owns the vertical cursor and opens
// new pages when content would cross the bottom margin.
//
// Borders are never stroked here. They are recorded with their page and
// group and handed back in the Result, so the assembler can draw them
// together with the per-group frames.
//
// =============================================================================

package layout

import (
	"fmt"

	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
)

// Geometry describes the page. Sizes and margins are in inches.
type Geometry struct {
	WidthIn      float64
	HeightIn     float64
	DPI          float64
	MarginTop    float64
	MarginBottom float64
	MarginSide   float64
}

// Letter is an 8.5x11in portrait page with quarter-inch margins.
func Letter() Geometry {
	return Geometry{WidthIn: 8.5, HeightIn: 11, DPI: 72, MarginTop: 0.25, MarginBottom: 0.25, MarginSide: 0.25}
}

// Points converts inches to points.
func (g Geometry) Points(in float64) float64 { return in * g.DPI }

func (g Geometry) PageWidth() float64  { return g.Points(g.WidthIn) }
func (g Geometry) PageHeight() float64 { return g.Points(g.HeightIn) }

// Validate reports an unusable geometry.
func (g Geometry) Validate() error {
	if g.WidthIn <= 0 || g.HeightIn <= 0 || g.DPI <= 0 {
		return fmt.Errorf("page size must be positive (got %.2fx%.2fin at %.0f dpi)", g.WidthIn, g.HeightIn, g.DPI)
	}
	if g.MarginTop < 0 || g.MarginBottom < 0 || g.MarginSide < 0 {
		return fmt.Errorf("page margins must not be negative")
	}
	if 2*g.MarginSide >= g.WidthIn || g.MarginTop+g.MarginBottom >= g.HeightIn {
		return fmt.Errorf("page margins leave no printable area")
	}
	return nil
}

// printable returns the printable box in points: left, right, top, bottom.
func (g Geometry) printable() (left, right, top, bottom float64) {
	left = g.Points(g.MarginSide)
	right = g.PageWidth() - g.Points(g.MarginSide)
	top = g.PageHeight() - g.Points(g.MarginTop)
	bottom = g.Points(g.MarginBottom)
	return
}

// ColumnRange is a horizontal span in column units.
type ColumnRange struct {
	Start, End float64
}

// Cols builds a ColumnRange.
func Cols(start, end float64) ColumnRange { return ColumnRange{Start: start, End: end} }

func (r ColumnRange) Width() float64 { return r.End - r.Start }

// HalfRange centres a span of the given width on the half-width point of
// outer, (End-Start)/2. For 1..99 and a width of 50 this yields 24..74.
func HalfRange(outer ColumnRange, width float64) ColumnRange {
	mid := outer.Width() / 2
	return ColumnRange{Start: mid - width/2, End: mid + width/2}
}

// Rect is an axis-aligned rectangle in page points, origin bottom-left.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Top() float64   { return r.Y + r.H }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Top(), o.Top())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Top() <= r.Top()
}

// NoGroup marks content that belongs to no frame group.
const NoGroup = -1

// Border is a recorded rectangle. Width 0 records an extent only.
type Border struct {
	Rect  Rect
	Page  int
	Width float64
	Color pdf.Color
	Group int
}
