package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"featurecard/domain/core"
	"featurecard/domain/dataset"
	"featurecard/internal"
	apperrors "featurecard/internal/errors"
)

// Table is a data file read into memory: a header row plus string cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the position of a header.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Headers {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns the cells of one column. Short rows read as empty cells.
func (t *Table) Column(name string) ([]string, bool) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			cells[i] = row[idx]
		}
	}
	return cells, true
}

// DataReader reads CSV and Excel data files.
type DataReader struct {
	filePath string
	format   dataset.Format
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a reader for a registered data file.
func NewDataReader(file *dataset.DataFile, mediaRoot string) *DataReader {
	return &DataReader{
		filePath: file.Resolve(mediaRoot),
		format:   file.Format,
		sheet:    file.Sheet,
		logger:   internal.DefaultLogger.With("DataReader"),
	}
}

// ReadTable reads the whole file. A missing file wraps core.ErrFileNotFound.
func (r *DataReader) ReadTable() (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	switch r.format {
	case dataset.FormatCSV:
		rows, err = r.readCSV()
	case dataset.FormatXLSX:
		rows, err = r.readExcel()
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.format))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s has no header row", r.filePath))
	}

	table := &Table{Headers: make([]string, len(rows[0])), Rows: rows[1:]}
	for i, header := range rows[0] {
		table.Headers[i] = strings.TrimSpace(header)
	}
	r.logger.Debug("%s read in %s (%d columns, %d rows)", r.filePath, time.Since(start), len(table.Headers), len(table.Rows))
	return table, nil
}

func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "failed to read CSV file"))
	}
	return rows, nil
}

func (r *DataReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.InvalidInput("Excel file has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.Wrap(err, fmt.Sprintf("failed to read sheet %s", sheet))
	}
	return rows, nil
}
