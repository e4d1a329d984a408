package pdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

const (
	// Version is the header version written to every document.
	Version = "1.5"
	// FontResource is the resource name of the shared Helvetica font.
	FontResource = "F1"
)

// Document is a linear list of same-sized pages.
type Document struct {
	Width  float64 // points
	Height float64 // points
	Pages  [][]Operation

	// Compress enables FlateDecode on content streams.
	Compress bool
}

// Encode renders the whole document into memory. The output carries no
// timestamps or ids, so identical documents encode to identical bytes.
//
// Object layout:
//
//	1  Catalog
//	2  Pages (MediaBox and the shared Resources live here and are inherited)
//	3  Font /F1
//	4+ content stream, page object, for each page
func (d *Document) Encode() ([]byte, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid page size %.2fx%.2f", ErrEncoding, d.Width, d.Height)
	}

	pages := d.Pages
	if len(pages) == 0 {
		pages = [][]Operation{nil}
	}

	objects := make([]string, 3, 3+2*len(pages))
	kids := make([]string, 0, len(pages))

	for i, ops := range pages {
		content, err := EncodeContent(ops)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		stream, err := d.streamObject(content)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		objects = append(objects, stream)
		streamNum := len(objects)

		objects = append(objects, fmt.Sprintf("<< /Type /Page\n/Parent 2 0 R\n/Contents %d 0 R\n>>", streamNum))
		kids = append(kids, fmt.Sprintf("%d 0 R", len(objects)))
	}

	objects[0] = "<< /Type /Catalog\n/Pages 2 0 R\n>>"
	objects[1] = fmt.Sprintf("<< /Type /Pages\n/Kids [%s]\n/Count %d\n/MediaBox [0 0 %s %s]\n/Resources << /Font << /%s 3 0 R >> >>\n>>",
		strings.Join(kids, " "), len(pages), formatNumber(d.Width), formatNumber(d.Height), FontResource)
	objects[2] = "<< /Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n/Encoding /WinAnsiEncoding\n>>"

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%%PDF-%s\n", Version))
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj))
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	buf.WriteString(fmt.Sprintf("0 %d\n", len(objects)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}

	buf.WriteString("trailer\n")
	buf.WriteString(fmt.Sprintf("<< /Size %d\n/Root 1 0 R\n>>\n", len(objects)+1))
	buf.WriteString("startxref\n")
	buf.WriteString(fmt.Sprintf("%d\n", xrefPos))
	buf.WriteString("%%EOF\n")

	return buf.Bytes(), nil
}

func (d *Document) streamObject(content []byte) (string, error) {
	filter := ""
	if d.Compress {
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(content); err != nil {
			return "", fmt.Errorf("%w: compress: %v", ErrEncoding, err)
		}
		if err := w.Close(); err != nil {
			return "", fmt.Errorf("%w: compress: %v", ErrEncoding, err)
		}
		content = buf.Bytes()
		filter = "/Filter /FlateDecode\n"
	}
	return fmt.Sprintf("<< /Length %d\n%s>>\nstream\n%s\nendstream", len(content), filter, content), nil
}

func formatNumber(f float64) string {
	var buf bytes.Buffer
	_ = writeNumber(&buf, f)
	return buf.String()
}
