// =============================================================================
// Promo Missing Report - Report Compositor
// =============================================================================
//
// Turns the promotion book into laid-out pages:
//
//   - batch document: every customer, each starting on a new page
//   - customer document: one customer
//   - detail listing: the matched transactions behind one section
//
// Rendering is a pure function of its inputs. The border registry and the
// group counter live in a renderState owned by a single call.
//
// =============================================================================

package report

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/promo-missing-report/internal/layout"
	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
)

var (
	// ErrInvalidQuantity is returned when a detail listing meets a quantity
	// that is not a number.
	ErrInvalidQuantity = errors.New("invalid transaction quantity")

	// ErrUnknownCustomer is returned when a customer is not in the book.
	ErrUnknownCustomer = errors.New("unknown customer")
)

// PageBreakPolicy controls page breaks between customers.
type PageBreakPolicy int

const (
	// BreakBetweenCustomers starts every customer after the first on a new page.
	BreakBetweenCustomers PageBreakPolicy = iota
	// NoLeadingBreak never forces a page break.
	NoLeadingBreak
)

// FramePalette is the cycle of group frame colours.
var FramePalette = []pdf.Color{pdf.Red, pdf.Green, pdf.Yellow, pdf.Magenta, pdf.Black}

const (
	frameMargin = 6.0
	frameWidth  = 3.0
)

var highlight = pdf.Color{R: 0.3, G: 0.3, B: 0.9}

// Composer renders promotion documents on one page geometry.
type Composer struct {
	Geometry layout.Geometry

	// DateLayouts are the time layouts tried when sorting detail rows by
	// ship date. Dates that match none are compared as strings.
	DateLayouts []string
}

// NewComposer returns a Composer for the given page.
func NewComposer(geo layout.Geometry, dateLayouts []string) *Composer {
	return &Composer{Geometry: geo, DateLayouts: dateLayouts}
}

type renderState struct {
	m         *layout.Manager
	nextGroup int
}

func (c *Composer) newState() *renderState {
	return &renderState{m: layout.NewManager(c.Geometry)}
}

func (c *Composer) finish(st *renderState) layout.Result {
	res := st.m.Result()
	res.Frames = layout.FrameStyle{Margin: frameMargin, Width: frameWidth, Palette: FramePalette}
	return res
}

// inches converts a length in inches to points on this composer's page.
func (c *Composer) inches(in float64) float64 { return c.Geometry.Points(in) }

// RenderBatch renders every customer in lexicographic order.
func (c *Composer) RenderBatch(book promo.Book) (layout.Result, error) {
	return c.Render(book, book.Customers(), BreakBetweenCustomers)
}

// RenderCustomer renders a single customer's document.
func (c *Composer) RenderCustomer(book promo.Book, customer string) (layout.Result, error) {
	return c.Render(book, []string{customer}, NoLeadingBreak)
}

// Render renders the given customers in order.
func (c *Composer) Render(book promo.Book, customers []string, policy PageBreakPolicy) (layout.Result, error) {
	st := c.newState()

	for i, name := range customers {
		p, ok := book[name]
		if !ok {
			return layout.Result{}, fmt.Errorf("%w: %q", ErrUnknownCustomer, name)
		}
		newPage := policy == BreakBetweenCustomers && i > 0
		if err := c.renderCustomer(st, p, newPage); err != nil {
			return layout.Result{}, fmt.Errorf("customer %q: %w", name, err)
		}
	}

	return c.finish(st), nil
}

func (c *Composer) renderCustomer(st *renderState, p *promo.Promotion, newPage bool) error {
	m := st.m

	heading := layout.NewTextBox("For Customer: "+p.Customer, 16)
	if err := m.Reserve(layout.Cols(1, 99), newPage).SetHeight(c.inches(0.25)).Draw(heading); err != nil {
		return err
	}

	for k, section := range p.Sections {
		line := fmt.Sprintf("Qualified %d times for Promo %d", section.TimesQualified(), k+1)
		if err := m.Reserve(layout.Cols(1, 99), false).SetHeight(18).Draw(layout.NewTextBox(line, 14)); err != nil {
			return err
		}
		m.Reserve(layout.Cols(1, 99), false).SetHeight(18).Skip()

		label, rng := "To get the promo", layout.Cols(1, 99)
		if section.TimesQualified() > 0 {
			label, rng = "To get another promo", layout.Cols(2, 80)
		}
		if err := m.Reserve(rng, false).SetHeight(18).Draw(layout.NewTextBox(label, 12)); err != nil {
			return err
		}

		if err := c.renderTree(st, promo.BuildRequirements(section)); err != nil {
			return fmt.Errorf("promo %d: %w", k+1, err)
		}
		m.Reserve(layout.Cols(8, 92), false).SetHeight(c.inches(0.30)).Skip()
	}

	m.Reserve(layout.Cols(8, 92), false).SetHeight(c.inches(0.25)).Skip()
	return nil
}

// renderTree draws one section's requirement tree as a stack of bordered
// tables joined by "And" lines, all in a fresh frame group.
func (c *Composer) renderTree(st *renderState, tree []promo.NeededSection) error {
	group := st.nextGroup
	st.nextGroup++

	rng := layout.HalfRange(layout.Cols(1, 99), 50)

	for i, needed := range tree {
		table := layout.Table{
			Columns:     []float64{10, 10, 10, 10, 10},
			ItemFont:    12,
			Rows:        treeRows(needed),
			Border:      layout.BorderStyle{Inner: 2.0, Outer: 3.0},
			BorderColor: pdf.Black,
			Group:       group,
		}
		if err := st.m.Reserve(rng, false).Draw(table); err != nil {
			return err
		}

		if i < len(tree)-1 {
			and := layout.NewTextBox("And", 12)
			and.Group = group
			if err := st.m.Reserve(rng, false).SetHeight(c.inches(0.30)).Draw(and); err != nil {
				return err
			}
		}
	}
	return nil
}

// treeRows lays out one unmet part: a highlighted instruction row per
// missing line, then its part numbers five to a row.
func treeRows(needed promo.NeededSection) []layout.Row {
	var rows []layout.Row
	for j, missing := range needed.Missing {
		text := fmt.Sprintf("Purchase %d more", missing.AmountNeeded)
		if j > 0 {
			text = fmt.Sprintf("%s purchase %d more", needed.Join.Connective(), missing.AmountNeeded)
		}
		rows = append(rows, layout.Row{
			Cells:     []string{text},
			Merged:    true,
			Highlight: &highlight,
			Align:     layout.AlignCenter,
		})

		for start := 0; start < len(missing.PartNumbers); start += 5 {
			end := min(start+5, len(missing.PartNumbers))
			rows = append(rows, layout.Row{Cells: missing.PartNumbers[start:end]})
		}
	}
	return rows
}
