package layout

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
)

// Drawable is anything that can be drawn into a Placement.
type Drawable interface {
	draw(p *Placement) error
}

// FrameStyle controls how group frames are drawn by the assembler.
type FrameStyle struct {
	Margin  float64
	Width   float64
	Palette []pdf.Color
}

// ColorFor returns the frame colour of a group.
func (s FrameStyle) ColorFor(group int) pdf.Color {
	if len(s.Palette) == 0 {
		return pdf.Black
	}
	return s.Palette[group%len(s.Palette)]
}

// Result is everything a render produced.
type Result struct {
	Pages    [][]pdf.Operation
	Borders  []Border
	Geometry Geometry
	Frames   FrameStyle
}

// Manager lays content out top to bottom.
type Manager struct {
	geo     Geometry
	pages   [][]pdf.Operation
	cursor  float64 // distance below the top margin on the current page
	borders []Border
}

// NewManager starts a layout with one empty page.
func NewManager(geo Geometry) *Manager {
	return &Manager{geo: geo, pages: [][]pdf.Operation{nil}}
}

// Page is the zero-based index of the current page.
func (m *Manager) Page() int { return len(m.pages) - 1 }

// Reserve opens a placement in the given column range. With newPage set the
// placement starts on a fresh page unless the current page is still empty.
func (m *Manager) Reserve(r ColumnRange, newPage bool) *Placement {
	if newPage && m.cursor > 0 {
		m.breakPage()
	}
	return &Placement{m: m, rng: r}
}

// Result returns the pages and recorded borders.
func (m *Manager) Result() Result {
	borders := append([]Border(nil), m.borders...)
	return Result{Pages: m.pages, Borders: borders, Geometry: m.geo}
}

func (m *Manager) breakPage() {
	m.pages = append(m.pages, nil)
	m.cursor = 0
}

// ensure makes room for h points, breaking the page when needed. Content
// taller than a whole page is placed at the top of a page and clipped by
// the viewer.
func (m *Manager) ensure(h float64) {
	if !m.fits(h) {
		m.breakPage()
	}
}

// fits reports whether h more points fit on the current page. An empty
// page always fits.
func (m *Manager) fits(h float64) bool {
	_, _, top, bottom := m.geo.printable()
	return m.cursor == 0 || m.cursor+h <= top-bottom
}

// top returns the page y coordinate of the cursor.
func (m *Manager) top() float64 {
	_, _, top, _ := m.geo.printable()
	return top - m.cursor
}

func (m *Manager) emit(ops ...pdf.Operation) {
	i := len(m.pages) - 1
	m.pages[i] = append(m.pages[i], ops...)
}

func (m *Manager) record(b Border) {
	b.Page = m.Page()
	m.borders = append(m.borders, b)
}

// xSpan converts a column range to page x coordinates.
func (m *Manager) xSpan(r ColumnRange) (float64, float64) {
	left, right, _, _ := m.geo.printable()
	unit := (right - left) / 100
	return left + r.Start*unit, left + r.End*unit
}

// Placement is a reserved slot in the flow.
type Placement struct {
	m      *Manager
	rng    ColumnRange
	height float64
}

// SetHeight fixes the slot height in points.
func (p *Placement) SetHeight(h float64) *Placement {
	p.height = h
	return p
}

// Skip consumes the slot without drawing, as a vertical spacer.
func (p *Placement) Skip() {
	p.m.ensure(p.height)
	p.m.cursor += p.height
}

// Draw renders d into the slot.
func (p *Placement) Draw(d Drawable) error {
	if p.rng.End <= p.rng.Start {
		return fmt.Errorf("empty column range %.1f..%.1f", p.rng.Start, p.rng.End)
	}
	return d.draw(p)
}

// Frame is the outline of one group on one page.
type Frame struct {
	Group int
	Page  int
	Rect  Rect
}

// GroupFrames computes, for every (group, page) pair, the tightest rectangle
// enclosing that group's recorded borders, inflated by margin. Borders
// outside any group are ignored. Frames are ordered by page, then group.
func GroupFrames(borders []Border, margin float64) []Frame {
	type key struct{ group, page int }
	bounds := map[key]Rect{}
	for _, b := range borders {
		if b.Group < 0 {
			continue
		}
		k := key{b.Group, b.Page}
		if r, ok := bounds[k]; ok {
			bounds[k] = r.Union(b.Rect)
		} else {
			bounds[k] = b.Rect
		}
	}

	frames := make([]Frame, 0, len(bounds))
	for k, r := range bounds {
		frames = append(frames, Frame{Group: k.group, Page: k.page, Rect: r.Inflate(margin)})
	}
	sort.Slice(frames, func(i, j int) bool {
		if frames[i].Page != frames[j].Page {
			return frames[i].Page < frames[j].Page
		}
		return frames[i].Group < frames[j].Group
	})
	return frames
}
