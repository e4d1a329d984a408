// Package document turns a laid-out Result into PDF bytes.
package document

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/promo-missing-report/internal/layout"
	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
)

// Assemble strokes the recorded borders and group frames onto their pages,
// encodes the document and writes it to w. Nothing is written unless the
// whole document encoded.
func Assemble(res layout.Result, w io.Writer) error {
	data, err := Encode(res)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Encode is Assemble without the writer.
func Encode(res layout.Result) ([]byte, error) {
	if err := res.Geometry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", pdf.ErrEncoding, err)
	}

	pages := make([][]pdf.Operation, len(res.Pages))
	for i, ops := range res.Pages {
		pages[i] = append([]pdf.Operation(nil), ops...)
	}

	for _, b := range res.Borders {
		if b.Width <= 0 {
			continue
		}
		if b.Page < 0 || b.Page >= len(pages) {
			return nil, fmt.Errorf("%w: border on missing page %d", pdf.ErrEncoding, b.Page)
		}
		pages[b.Page] = append(pages[b.Page], strokeRect(b.Rect, b.Width, b.Color)...)
	}

	for _, f := range layout.GroupFrames(res.Borders, res.Frames.Margin) {
		if f.Page < 0 || f.Page >= len(pages) {
			return nil, fmt.Errorf("%w: frame on missing page %d", pdf.ErrEncoding, f.Page)
		}
		pages[f.Page] = append(pages[f.Page], strokeRect(f.Rect, res.Frames.Width, res.Frames.ColorFor(f.Group))...)
	}

	doc := &pdf.Document{
		Width:    res.Geometry.PageWidth(),
		Height:   res.Geometry.PageHeight(),
		Pages:    pages,
		Compress: true,
	}
	data, err := doc.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

func strokeRect(r layout.Rect, width float64, color pdf.Color) []pdf.Operation {
	return []pdf.Operation{
		pdf.SaveState(),
		pdf.LineWidth(width),
		pdf.StrokeColor(color),
		pdf.Rectangle(r.X, r.Y, r.W, r.H),
		pdf.Stroke(),
		pdf.RestoreState(),
	}
}
