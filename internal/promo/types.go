// =============================================================================
// Promo Missing Report - Promotion Data Model
// =============================================================================
//
// This package holds the typed promotion graph built once per run by the data
// source and read by every renderer afterwards:
//
//   Book (customer -> Promotion)
//   └── Promotion
//       └── PromoSection   (one qualification tier)
//           └── Part       (requirement line, AND/OR joined)
//               └── TypeProd (interchangeable SKUs + credited quantity)
//
// The still-unmet views of sections and parts are computed by the
// constructors and cannot be edited independently of the data they describe.
//
// =============================================================================

package promo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// JOIN TYPES
// =============================================================================

// JoinKind identifies how sibling requirement lines of a Part are joined.
type JoinKind int

const (
	JoinAnd JoinKind = iota
	JoinOr
	JoinAny
	JoinNone
)

// AndOrType is the join operator of a Part. N is only meaningful for JoinAny.
type AndOrType struct {
	Kind JoinKind
	N    int
}

// And, Or, None and Any build the four join types.
func And() AndOrType      { return AndOrType{Kind: JoinAnd} }
func Or() AndOrType       { return AndOrType{Kind: JoinOr} }
func None() AndOrType     { return AndOrType{Kind: JoinNone} }
func Any(n int) AndOrType { return AndOrType{Kind: JoinAny, N: n} }

// Label is the join type's own display text.
func (t AndOrType) Label() string {
	switch t.Kind {
	case JoinOr:
		return "Or"
	case JoinAny:
		return "Any"
	case JoinNone:
		return "None"
	default:
		return "And"
	}
}

// String implements fmt.Stringer.
func (t AndOrType) String() string {
	if t.Kind == JoinAny {
		return fmt.Sprintf("Any(%d)", t.N)
	}
	return t.Label()
}

// Connective is the word placed in front of a sibling shortfall line.
// Any(n) always reads "Or"; its payload is not consulted.
func (t AndOrType) Connective() string {
	if t.Kind == JoinOr || t.Kind == JoinAny {
		return "Or"
	}
	return t.Label()
}

// Inline reports whether siblings are joined on one line in plain text.
func (t AndOrType) Inline() bool {
	return t.Kind == JoinOr
}

// ParseAndOrType accepts "and", "or", "none", "any:N" and "any(N)".
func ParseAndOrType(s string) (AndOrType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "and", "":
		return And(), nil
	case "or":
		return Or(), nil
	case "none":
		return None(), nil
	}

	if strings.HasPrefix(v, "any") {
		arg := strings.TrimPrefix(v, "any")
		arg = strings.TrimPrefix(arg, ":")
		arg = strings.TrimSuffix(strings.TrimPrefix(arg, "("), ")")
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return AndOrType{}, fmt.Errorf("invalid any count in %q: %w", s, err)
		}
		return Any(n), nil
	}

	return AndOrType{}, fmt.Errorf("unknown join type %q", s)
}

// UnmarshalText lets join types be decoded straight from JSON or YAML strings.
func (t *AndOrType) UnmarshalText(text []byte) error {
	parsed, err := ParseAndOrType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// Transaction is one matched row of the transaction export. Values are kept
// exactly as exported; only the detail listing reads them.
type Transaction struct {
	ShipDate    string
	Customer    string
	OrderNumber string
	Quantity    string
	PartNumber  string
	Description string
	SalePrice   string
}

// Fields returns the row in detail-listing column order.
func (t Transaction) Fields() []string {
	return []string{t.ShipDate, t.Customer, t.OrderNumber, t.Quantity, t.PartNumber, t.Description, t.SalePrice}
}

// =============================================================================
// PROMOTION GRAPH
// =============================================================================

// TypeProd is a requirement line satisfied by any of its part numbers.
type TypeProd struct {
	QtyNeeded   int64
	TotalQty    int64
	PartNumbers []string
	Found       []Transaction
}

// Qualifications is the number of full thresholds already credited.
func (tp *TypeProd) Qualifications() int64 {
	if tp.QtyNeeded <= 0 {
		return 0
	}
	return tp.TotalQty / tp.QtyNeeded
}

// Part joins one or more TypeProds.
type Part struct {
	join      AndOrType
	typeProds []TypeProd
	unmet     []*TypeProd
}

// NewPart builds a Part. Its unmet view is filled in by NewSection.
func NewPart(join AndOrType, typeProds []TypeProd) Part {
	return Part{join: join, typeProds: typeProds}
}

func (p *Part) Join() AndOrType { return p.join }

func (p *Part) TypeProds() []TypeProd { return p.typeProds }

// UnmetTypeProds returns the lines still short of the next qualification,
// in source order.
func (p *Part) UnmetTypeProds() []*TypeProd { return p.unmet }

// Qualifications is how many times this part is satisfied by itself.
func (p *Part) Qualifications() int64 {
	if len(p.typeProds) == 0 {
		return 0
	}

	switch p.join.Kind {
	case JoinOr, JoinAny:
		var sum int64
		for i := range p.typeProds {
			sum += p.typeProds[i].Qualifications()
		}
		if p.join.Kind == JoinAny && p.join.N > 1 {
			return sum / int64(p.join.N)
		}
		return sum
	default:
		least := p.typeProds[0].Qualifications()
		for i := 1; i < len(p.typeProds); i++ {
			if q := p.typeProds[i].Qualifications(); q < least {
				least = q
			}
		}
		return least
	}
}

// PromoSection is one qualification tier of a promotion.
type PromoSection struct {
	timesQualified int
	parts          []Part
	unmet          []*Part
}

// NewSection evaluates the section's qualification count and derives the
// still-unmet views of its parts for the next qualification.
func NewSection(parts []Part) *PromoSection {
	s := &PromoSection{parts: make([]Part, len(parts))}
	for i, part := range parts {
		s.parts[i] = Part{
			join:      part.join,
			typeProds: append([]TypeProd(nil), part.typeProds...),
		}
	}
	parts = s.parts
	if len(parts) == 0 {
		return s
	}

	least := parts[0].Qualifications()
	for i := 1; i < len(parts); i++ {
		if q := parts[i].Qualifications(); q < least {
			least = q
		}
	}
	s.timesQualified = int(least)

	target := least + 1
	for i := range s.parts {
		part := &s.parts[i]
		if part.Qualifications() >= target {
			continue
		}
		for j := range part.typeProds {
			if part.typeProds[j].Qualifications() < target {
				part.unmet = append(part.unmet, &part.typeProds[j])
			}
		}
		// Any(n) can stay short while every line is at target; then
		// credit on any line advances the part.
		if len(part.unmet) == 0 {
			for j := range part.typeProds {
				part.unmet = append(part.unmet, &part.typeProds[j])
			}
		}
		s.unmet = append(s.unmet, part)
	}
	return s
}

func (s *PromoSection) TimesQualified() int { return s.timesQualified }

func (s *PromoSection) Parts() []Part { return s.parts }

// UnmetParts returns the parts still short of the next qualification.
func (s *PromoSection) UnmetParts() []*Part { return s.unmet }

// Promotion is one customer's full promotion state.
type Promotion struct {
	Customer string
	Sections []*PromoSection
}

// Book maps customer names to their promotion.
type Book map[string]*Promotion

// Customers returns every customer name in ascending byte order.
func (b Book) Customers() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
