package layout

import (
	"unicode/utf8"

	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
)

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// cellPad is the horizontal inset of text from its box edge.
const cellPad = 3

// TextWidth estimates the width of s in Helvetica at the given size.
func TextWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * 0.5
}

// TextBox is a single line of text.
type TextBox struct {
	Text  string
	Font  float64
	Align Align
	Color pdf.Color
	Group int
}

// NewTextBox returns a left-aligned black text box outside any group.
func NewTextBox(text string, font float64) TextBox {
	return TextBox{Text: text, Font: font, Group: NoGroup}
}

func (t TextBox) draw(p *Placement) error {
	m := p.m
	h := p.height
	if h <= 0 {
		h = t.Font * 1.3
	}
	m.ensure(h)

	x0, x1 := m.xSpan(p.rng)
	top := m.top()
	drawText(m, t.Text, t.Font, t.Align, t.Color, x0, x1, top-h, h)

	if t.Group >= 0 {
		m.record(Border{Rect: Rect{X: x0, Y: top - h, W: x1 - x0, H: h}, Group: t.Group})
	}
	m.cursor += h
	return nil
}

// drawText writes one line vertically centred in the box at (x0..x1, y..y+h).
func drawText(m *Manager, s string, font float64, align Align, color pdf.Color, x0, x1, y, h float64) {
	if s == "" {
		return
	}
	w := TextWidth(s, font)
	x := x0 + cellPad
	switch align {
	case AlignCenter:
		x = (x0+x1)/2 - w/2
	case AlignRight:
		x = x1 - cellPad - w
	}
	baseline := y + h/2 - font*0.35

	m.emit(
		pdf.SaveState(),
		pdf.FillColor(color),
		pdf.BeginText(),
		pdf.SetFont(font),
		pdf.MoveText(x, baseline),
		pdf.ShowText(s),
		pdf.EndText(),
		pdf.RestoreState(),
	)
}
