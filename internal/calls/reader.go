package calls

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/logger"
)

// Reader loads the first worksheet of a workbook.
type Reader struct {
	fs  afero.Fs
	log logger.Logger
}

// NewReader returns a Reader over fs.
func NewReader(fs afero.Fs, log logger.Logger) *Reader {
	if log == nil {
		log = logger.Discard()
	}
	return &Reader{fs: fs, log: log.Module("calls")}
}

// Load reads path and parses its first worksheet.
func (r *Reader) Load(path string) (*Sheet, error) {
	rows, err := r.rows(path)
	if err != nil {
		return nil, err
	}

	sheet, err := ParseRows(path, rows)
	if err != nil {
		return nil, err
	}
	r.log.Debug("sheet loaded",
		logger.String("file", path),
		logger.Int("columns", len(sheet.Columns)),
		logger.Int("calls", sheet.Len()))
	return sheet, nil
}

func (r *Reader) rows(path string) ([][]string, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, errors.FileError(err, path)
	}
	defer func() { _ = f.Close() }()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, parseError(path, fmt.Errorf("open workbook: %w", err))
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			r.log.Debug("closing workbook failed", logger.String("file", path), logger.Error(cerr))
		}
	}()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(path, ErrNoHeader)
	}
	// Raw values keep full numeric precision regardless of cell formatting.
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseError(path, fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}
	return rows, nil
}
