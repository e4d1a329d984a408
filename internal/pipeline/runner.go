// =============================================================================
// Promo Missing Report - Pipeline
// =============================================================================
//
// This module orchestrates one report run, from the input files to the
// master document and the archive.
//
// PIPELINE:
//   1. Read the promotion definition and the transaction export
//   2. Normalize and validate the rows
//   3. Build the promotion book (one copy of the promotion per customer)
//   4. Render and write the master document
//   5. Render every per-customer and detail document into the archive
//   6. Move both outputs into place and write the run summary
//
// Outputs are written under temporary names and only renamed once every
// document was rendered.
//
// =============================================================================

package pipeline

import (
	"io"
	"time"

	"github.com/ginjaninja78/promo-missing-report/internal/archive"
	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/document"
	"github.com/ginjaninja78/promo-missing-report/internal/layout"
	"github.com/ginjaninja78/promo-missing-report/internal/logging"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
	"github.com/ginjaninja78/promo-missing-report/internal/report"
	"github.com/ginjaninja78/promo-missing-report/internal/source"
	"github.com/ginjaninja78/promo-missing-report/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// MasterFile is the path of the batch document.
	// This is empty if the run failed.
	MasterFile string

	// ArchiveFile is the path of the zip archive.
	// This is empty if the run failed.
	ArchiveFile string

	// SummaryFile is the run summary log, when one was written.
	SummaryFile string

	// Success indicates whether both outputs were written.
	Success bool

	// Error contains the error if the run failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// Customers is the number of customers in the book.
	Customers int

	// QualifiedPromos is the number of sections with a detail listing.
	QualifiedPromos int

	// ArchiveEntries is the number of documents stored in the archive.
	ArchiveEntries int

	// Failed lists the documents that could not be rendered. A run with
	// failed documents writes neither output.
	Failed []archive.FailedDocument

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes report runs for one configuration.
type Runner struct {
	cfg    *config.MainConfig
	logger logging.Logger
	runID  string
}

// New creates a Runner. A nil logger discards messages.
//
// PARAMETERS:
//   - cfg: The validated run configuration.
//   - logger: Receives progress messages.
//   - runID: Identifies the run in logs and the summary file name.
func New(cfg *config.MainConfig, logger logging.Logger, runID string) *Runner {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Runner{cfg: cfg, logger: logger, runID: runID}
}

// Geometry converts the configured page into a layout geometry.
func Geometry(page config.PageSettings) layout.Geometry {
	return layout.Geometry{
		WidthIn:      page.WidthIn,
		HeightIn:     page.HeightIn,
		DPI:          page.DPI,
		MarginTop:    page.MarginTop,
		MarginBottom: page.MarginBottom,
		MarginSide:   page.MarginSide,
	}
}

// Composer returns the document composer for the configured page.
func (r *Runner) Composer() *report.Composer {
	return report.NewComposer(Geometry(r.cfg.Page), r.cfg.ShipDateLayouts)
}

// LoadBook reads the inputs and builds the promotion book.
func (r *Runner) LoadBook() (promo.Book, error) {
	return source.Load(r.cfg, r.logger)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the full pipeline.
//
// RETURNS:
//   - A Result struct containing the outcome of the run.
func (r *Runner) Run() Result {
	startTime := time.Now()
	result := Result{}

	r.logger.Info("Starting run: transactions=%s definition=%s", r.cfg.TransactionsFile, r.cfg.DefinitionFile)

	err := r.run(&result)
	result.Stats.ProcessingTime = time.Since(startTime)
	if err != nil {
		result.Error = err
		result.MasterFile = ""
		result.ArchiveFile = ""
		r.logger.Error("Run failed: %v", err)
	} else {
		result.Success = true
		r.logger.Info("Run complete in %s", result.Stats.ProcessingTime)
	}

	if r.cfg.SummaryDir != "" {
		path, err := utils.WriteSummaryLog(r.summary(result, startTime), r.cfg.SummaryDir)
		if err != nil {
			r.logger.Warn("Failed to write run summary: %v", err)
		} else {
			result.SummaryFile = path
		}
	}

	return result
}

func (r *Runner) run(result *Result) error {
	// =========================================================================
	// STEP 1: BUILD THE BOOK
	// =========================================================================

	book, err := r.LoadBook()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: OPEN OUTPUTS
	// =========================================================================

	master, err := utils.CreateOutputFile(r.cfg.MasterOutput)
	if err != nil {
		return err
	}
	defer master.Abort()

	zipFile, err := utils.CreateOutputFile(r.cfg.ArchiveOutput)
	if err != nil {
		return err
	}
	defer zipFile.Abort()

	// =========================================================================
	// STEP 3: RENDER DOCUMENTS
	// =========================================================================

	builder := archive.NewBuilder(r.Composer(), r.logger)
	stats, err := builder.Build(book, master, archive.NewZipWriter(zipFile))
	result.Stats.Customers = stats.Customers
	result.Stats.QualifiedPromos = stats.QualifiedPromos
	result.Stats.ArchiveEntries = stats.Entries
	result.Stats.Failed = stats.Failed
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: MOVE OUTPUTS INTO PLACE
	// =========================================================================

	if err := master.Commit(); err != nil {
		return err
	}
	result.MasterFile = r.cfg.MasterOutput

	if err := zipFile.Commit(); err != nil {
		return err
	}
	result.ArchiveFile = r.cfg.ArchiveOutput

	return nil
}

func (r *Runner) summary(result Result, startTime time.Time) utils.RunSummary {
	s := utils.RunSummary{
		RunID:            r.runID,
		StartTime:        startTime,
		EndTime:          startTime.Add(result.Stats.ProcessingTime),
		TransactionsFile: r.cfg.TransactionsFile,
		DefinitionFile:   r.cfg.DefinitionFile,
		MasterOutput:     result.MasterFile,
		ArchiveOutput:    result.ArchiveFile,
		Customers:        result.Stats.Customers,
		QualifiedPromos:  result.Stats.QualifiedPromos,
		ArchiveEntries:   result.Stats.ArchiveEntries,
	}
	for _, f := range result.Stats.Failed {
		s.FailedDocuments = append(s.FailedDocuments, utils.FailedDocumentInfo{Name: f.Name, ErrorMessage: f.Err.Error()})
	}
	if result.Error != nil {
		s.Error = result.Error.Error()
	}
	return s
}

// =============================================================================
// SINGLE OUTPUTS
// =============================================================================

// WriteSummary writes the plain-text missing report to w.
func (r *Runner) WriteSummary(w io.Writer) error {
	book, err := r.LoadBook()
	if err != nil {
		return err
	}
	return report.WriteText(w, book)
}

// WriteCustomer writes the document of one customer to w.
func (r *Runner) WriteCustomer(customer string, w io.Writer) error {
	book, err := r.LoadBook()
	if err != nil {
		return err
	}
	res, err := r.Composer().RenderCustomer(book, customer)
	if err != nil {
		return err
	}
	return document.Assemble(res, w)
}
