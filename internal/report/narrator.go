package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/promo-missing-report/internal/promo"
)

// WriteText writes the plain-text missing report for every customer in
// lexicographic order. Lines end in CRLF.
func WriteText(w io.Writer, book promo.Book) error {
	bw := bufio.NewWriter(w)

	for _, name := range book.Customers() {
		p := book[name]
		fmt.Fprintf(bw, "For Customer: %s\r\n", name)

		for k, section := range p.Sections {
			fmt.Fprintf(bw, "Qualified %d times for Promo %d\r\n", section.TimesQualified(), k+1)
			if section.TimesQualified() == 0 {
				bw.WriteString("To get the promo you need to purchase:\r\n")
			} else {
				bw.WriteString("To get another you need to purchase:\r\n")
			}
			writeTree(bw, promo.BuildRequirements(section))
		}

		bw.WriteString("\r\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}
	return nil
}

func writeTree(w *bufio.Writer, tree []promo.NeededSection) {
	for _, needed := range tree {
		for j, missing := range needed.Missing {
			fmt.Fprintf(w, "%d of a ( %s )", missing.AmountNeeded, strings.Join(missing.PartNumbers, " ,"))
			if j < len(needed.Missing)-1 && needed.Join.Inline() {
				fmt.Fprintf(w, " %s ", needed.Join.Label())
			} else {
				w.WriteString("\r\n")
			}
		}
	}
}
