// =============================================================================
// Promo Missing Report - Archive Builder
// =============================================================================
//
// Produces the run's outputs:
//
//   master                                  batch document, every customer
//   Missing_Reports/<customer> Missing Report.pdf
//   <customer>/Promo#<i>.pdf                detail listing, qualified sections
//
// The archive is only finalised once every entry was stored. A document
// that fails to render or encode stops the build before the archive is
// closed; it is recorded in Stats.Failed for reporting.
//
// =============================================================================

package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/promo-missing-report/internal/document"
	"github.com/ginjaninja78/promo-missing-report/internal/layout"
	"github.com/ginjaninja78/promo-missing-report/internal/logging"
	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
	"github.com/ginjaninja78/promo-missing-report/internal/report"
)

// Stats summarises one build.
type Stats struct {
	Customers       int
	QualifiedPromos int
	Entries         int
	MasterBytes     int
	Failed          []FailedDocument
}

// FailedDocument is a document left out of the run.
type FailedDocument struct {
	Name string
	Err  error
}

// Builder renders and packages every document of a run.
type Builder struct {
	composer *report.Composer
	logger   logging.Logger
}

// NewBuilder creates a Builder. A nil logger discards messages.
func NewBuilder(composer *report.Composer, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Builder{composer: composer, logger: logger}
}

// CustomerEntry is the archive path of a customer's document.
func CustomerEntry(customer string) string {
	return fmt.Sprintf("Missing_Reports/%s Missing Report.pdf", customer)
}

// DetailEntry is the archive path of a section's detail listing.
func DetailEntry(customer string, section int) string {
	return fmt.Sprintf("%s/Promo#%d.pdf", customer, section)
}

// Build writes the master document to master and every per-customer and
// detail document to sink, then closes sink.
func (b *Builder) Build(book promo.Book, master io.Writer, sink EntryWriter) (Stats, error) {
	var stats Stats

	res, err := b.composer.RenderBatch(book)
	if err != nil {
		return stats, fmt.Errorf("failed to render master document: %w", err)
	}
	data, err := document.Encode(res)
	if err != nil {
		return stats, fmt.Errorf("failed to encode master document: %w", err)
	}
	if _, err := master.Write(data); err != nil {
		return stats, fmt.Errorf("failed to write master document: %w", err)
	}
	stats.MasterBytes = len(data)
	b.logger.Info("Master document written (%d bytes)", len(data))

	for _, customer := range book.Customers() {
		stats.Customers++

		if err := b.add(sink, CustomerEntry(customer), &stats, func() (layout.Result, error) {
			return b.composer.RenderCustomer(book, customer)
		}); err != nil {
			return stats, err
		}

		for i, section := range book[customer].Sections {
			if section.TimesQualified() <= 0 {
				continue
			}
			stats.QualifiedPromos++

			if err := b.add(sink, DetailEntry(customer, i), &stats, func() (layout.Result, error) {
				return b.composer.RenderDetail(customer, section)
			}); err != nil {
				return stats, err
			}
		}
	}

	if err := sink.Close(); err != nil {
		return stats, err
	}
	b.logger.Info("Archive finalized: %d entries", stats.Entries)
	return stats, nil
}

// add renders and stores one entry. Render and encoding failures are
// recorded in stats and returned.
func (b *Builder) add(sink EntryWriter, name string, stats *Stats, render func() (layout.Result, error)) error {
	res, err := render()
	var data []byte
	if err == nil {
		data, err = document.Encode(res)
	}
	if err != nil {
		if documentError(err) {
			b.logger.Error("Failed to render %s: %v", name, err)
			stats.Failed = append(stats.Failed, FailedDocument{Name: name, Err: err})
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := sink.Add(name, data); err != nil {
		return err
	}
	stats.Entries++
	b.logger.Debug("Added %s", name)
	return nil
}

func documentError(err error) bool {
	return errors.Is(err, report.ErrInvalidQuantity) || errors.Is(err, pdf.ErrEncoding)
}
