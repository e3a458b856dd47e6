// Package archive bundles named byte entries into one downloadable payload.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"time"
)

// Writer accepts (filename, bytes) pairs and produces a single contiguous
// payload on finalize. Writes are sequential and append-only.
type Writer interface {
	Add(name string, data []byte) error
	Finalize() ([]byte, error)
}

// ErrFinalized is returned when an archive is written to after Finalize.
var ErrFinalized = errors.New("archive: already finalized")

// Zip is a Writer producing a zip payload with stored (uncompressed)
// entries.
type Zip struct {
	buf  bytes.Buffer
	zw   *zip.Writer
	done bool
}

// NewZip creates an empty zip archive writer
func NewZip() *Zip {
	z := &Zip{}
	z.zw = zip.NewWriter(&z.buf)
	return z
}

// Add appends one entry under the given name
func (z *Zip) Add(name string, data []byte) error {
	if z.done {
		return ErrFinalized
	}
	if name == "" {
		return errors.New("archive: entry name is required")
	}

	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: time.Now(),
	}
	w, err := z.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("archive: create entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive: write entry %s: %w", name, err)
	}
	return nil
}

// Finalize closes the archive and returns the complete payload. The writer
// cannot be used afterwards.
func (z *Zip) Finalize() ([]byte, error) {
	if z.done {
		return nil, ErrFinalized
	}
	z.done = true
	if err := z.zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: close: %w", err)
	}
	return z.buf.Bytes(), nil
}
