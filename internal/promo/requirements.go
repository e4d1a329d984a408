package promo

// MissingPartNumber is one shortfall line: buy AmountNeeded more of any of
// PartNumbers.
type MissingPartNumber struct {
	AmountNeeded int64
	PartNumbers  []string
}

// NeededSection is the shortfall of one still-unmet Part.
type NeededSection struct {
	Join    AndOrType
	Missing []MissingPartNumber
}

// BuildRequirements builds the requirement tree of a section: one entry per
// still-unmet part and, inside it, one line per still-unmet type product,
// both in source order.
func BuildRequirements(section *PromoSection) []NeededSection {
	unmet := section.UnmetParts()
	needed := make([]NeededSection, 0, len(unmet))

	for _, part := range unmet {
		lines := part.UnmetTypeProds()
		missing := make([]MissingPartNumber, 0, len(lines))
		for _, tp := range lines {
			missing = append(missing, MissingPartNumber{
				AmountNeeded: Shortfall(tp.QtyNeeded, tp.TotalQty),
				PartNumbers:  append([]string(nil), tp.PartNumbers...),
			})
		}
		needed = append(needed, NeededSection{Join: part.Join(), Missing: missing})
	}

	return needed
}
