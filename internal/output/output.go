// Package output writes merged tables as CSV files.
package output

import (
	"encoding/csv"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/logger"
)

// Tabular is anything with a header and rows aligned with it.
type Tabular interface {
	Header() []string
	Records() [][]string
}

// Writer writes tables to fs.
type Writer struct {
	fs  afero.Fs
	log logger.Logger
}

// NewWriter returns a Writer over fs.
func NewWriter(fs afero.Fs, log logger.Logger) *Writer {
	if log == nil {
		log = logger.Discard()
	}
	return &Writer{fs: fs, log: log.Module("output")}
}

// WriteCSV writes t to path, creating the parent directory and replacing
// any existing file.
func (w *Writer) WriteCSV(path string, t Tabular) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.New(fmt.Errorf("create output directory: %w", err)).
				Component("output").
				Category(errors.CategoryFileIO).
				Context("dir", dir).
				Build()
		}
	}

	f, err := w.fs.Create(path)
	if err != nil {
		return errors.FileError(err, path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.FileError(cerr, path)
		}
	}()

	records := t.Records()
	cw := csv.NewWriter(f)
	if err := cw.Write(t.Header()); err != nil {
		return errors.FileError(err, path)
	}
	if err := cw.WriteAll(records); err != nil {
		return errors.FileError(err, path)
	}

	fields := []logger.Field{
		logger.String("file", path),
		logger.Int("rows", len(records)),
	}
	if fi, statErr := f.Stat(); statErr == nil {
		fields = append(fields, logger.Int64("bytes", fi.Size()))
	}
	w.log.Info("table written", fields...)
	return nil
}
