// Package fs provides file-based output for crawled products.
package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/prodcrawl"
)

// Ensure CSVWriter implements prodcrawl.Sink at compile time.
var _ prodcrawl.Sink = (*CSVWriter)(nil)

// FileName returns the CSV file name for a run started at t.
func FileName(t time.Time) string {
	return "products_" + t.Format("20060102_150405") + ".csv"
}

// CSVWriter writes products as CSV rows to a fresh file per run.
// Every row is flushed to the file as soon as it is emitted.
// It is safe for concurrent use.
type CSVWriter struct {
	dir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes into dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir, Now: time.Now}
}

// Open creates the output directory and a new timestamped file, and writes
// the header row. An existing file is never overwritten: if the name is
// taken a numeric suffix is added.
func (w *CSVWriter) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return prodcrawl.Errorf(prodcrawl.ECONFLICT, "csv writer already open: %s", w.file.Name())
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := w.create()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(prodcrawl.Columns()); err != nil {
		file.Close()
		return fmt.Errorf("write header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		file.Close()
		return fmt.Errorf("write header: %w", err)
	}

	w.file = file
	w.w = cw
	return nil
}

func (w *CSVWriter) create() (*os.File, error) {
	name := FileName(w.Now())
	base := name[:len(name)-len(".csv")]
	for i := 0; i < 100; i++ {
		if i > 0 {
			name = fmt.Sprintf("%s_%d.csv", base, i)
		}
		file, err := os.OpenFile(filepath.Join(w.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("create output file: %w", err)
		}
		return file, nil
	}
	return nil, prodcrawl.Errorf(prodcrawl.ECONFLICT, "no free output file name for %s", base)
}

// Path returns the path of the open file, or "" before Open.
func (w *CSVWriter) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return ""
	}
	return w.file.Name()
}

// Emit appends the product as one row and flushes it.
func (w *CSVWriter) Emit(_ context.Context, product *prodcrawl.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return prodcrawl.Errorf(prodcrawl.EINVALID, "csv writer not open")
	}
	if err := w.w.Write(product.Values()); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.w.Flush()
	return w.w.Error()
}

// Complete syncs the file to stable storage.
func (w *CSVWriter) Complete(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close flushes and closes the file.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	w.w.Flush()
	err := errors.Join(w.w.Error(), w.file.Close())
	w.file, w.w = nil, nil
	return err
}
