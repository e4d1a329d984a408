package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// EntryWriter receives named documents. Close finalises the container and
// is only called once every entry was added.
type EntryWriter interface {
	Add(name string, data []byte) error
	Close() error
}

// ZipWriter writes entries into a zip container. Entries carry a fixed
// modification time so identical input yields identical archives.
type ZipWriter struct {
	zw *zip.Writer
}

// NewZipWriter starts a zip container on w.
func NewZipWriter(w io.Writer) *ZipWriter {
	return &ZipWriter{zw: zip.NewWriter(w)}
}

var fixedModTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Add stores data as a deflated entry.
func (z *ZipWriter) Add(name string, data []byte) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: fixedModTime}
	w, err := z.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %q: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %q: %w", name, err)
	}
	return nil
}

// Close writes the central directory.
func (z *ZipWriter) Close() error {
	if err := z.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
