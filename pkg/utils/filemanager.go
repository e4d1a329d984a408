// =============================================================================
// Promo Missing Report - File Management Utilities
// =============================================================================
//
// This module provides utilities for file operations:
//   - Writing outputs through a temporary file so a failed run never leaves
//     a truncated report behind
//   - Writing run summary logs
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// =============================================================================
// OUTPUT FILES
// =============================================================================

// OutputFile is a file written under a temporary name and moved into place
// by Commit. Abort removes the temporary file.
type OutputFile struct {
	*os.File
	target string
	done   bool
}

// CreateOutputFile opens a temporary file next to path.
//
// USAGE:
//
//	out, err := utils.CreateOutputFile(path)
//	if err != nil {
//	    return err
//	}
//	defer out.Abort()
//	// write...
//	return out.Commit()
func CreateOutputFile(path string) (*OutputFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &OutputFile{File: f, target: path}, nil
}

// Commit closes the file and renames it to its final path.
func (o *OutputFile) Commit() error {
	if o.done {
		return nil
	}
	o.done = true
	if err := o.File.Close(); err != nil {
		os.Remove(o.File.Name())
		return fmt.Errorf("failed to close %s: %w", o.target, err)
	}
	if err := os.Rename(o.File.Name(), o.target); err != nil {
		os.Remove(o.File.Name())
		return fmt.Errorf("failed to move %s into place: %w", o.target, err)
	}
	return nil
}

// Abort discards the file. It is a no-op after Commit.
func (o *OutputFile) Abort() {
	if o.done {
		return
	}
	o.done = true
	o.File.Close()
	os.Remove(o.File.Name())
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about one report run.
type RunSummary struct {
	RunID            string
	StartTime        time.Time
	EndTime          time.Time
	TransactionsFile string
	DefinitionFile   string
	MasterOutput     string
	ArchiveOutput    string
	Customers        int
	QualifiedPromos  int
	ArchiveEntries   int
	FailedDocuments  []FailedDocumentInfo
	Error            string
}

// FailedDocumentInfo describes a document left out of the archive.
type FailedDocumentInfo struct {
	Name         string
	ErrorMessage string
}

// WriteSummaryLog writes a run summary to a log file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	timestamp := summary.StartTime.Format("20060102_150405")
	summaryFileName := fmt.Sprintf("run_summary_%s_%s.txt", timestamp, summary.RunID)
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	status := "SUCCESS"
	if summary.Error != "" {
		status = "FAILED"
	}

	fmt.Fprintf(writer, "Promo Missing Report - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Status:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Inputs:\n"+
		"  Transactions:   %s\n"+
		"  Definition:     %s\n\n"+
		"Outputs:\n"+
		"  Master:         %s\n"+
		"  Archive:        %s\n\n"+
		"Statistics:\n"+
		"  Customers:         %d\n"+
		"  Qualified Promos:  %d\n"+
		"  Archive Entries:   %d\n"+
		"  Failed Documents:  %d\n\n",
		summary.RunID,
		status,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.TransactionsFile,
		summary.DefinitionFile,
		summary.MasterOutput,
		summary.ArchiveOutput,
		summary.Customers,
		summary.QualifiedPromos,
		summary.ArchiveEntries,
		len(summary.FailedDocuments))

	if len(summary.FailedDocuments) > 0 {
		writer.WriteString("Failed Documents:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, fd := range summary.FailedDocuments {
			fmt.Fprintf(writer, "  Document: %s\n", fd.Name)
			fmt.Fprintf(writer, "  Error:    %s\n\n", fd.ErrorMessage)
		}
	}

	if summary.Error != "" {
		fmt.Fprintf(writer, "Error:\n  %s\n\n", summary.Error)
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
