// Package loader reads tabular records from spreadsheet files.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// ExcelLoader loads .xlsx workbooks into ordered record sequences. The
// first row of the first sheet is the header; every cell value is kept as
// its textual representation.
type ExcelLoader struct {
	extensions []string
}

// NewExcelLoader returns a loader accepting the given extensions
// (defaults to .xlsx).
func NewExcelLoader(extensions ...string) *ExcelLoader {
	if len(extensions) == 0 {
		extensions = []string{".xlsx"}
	}
	return &ExcelLoader{extensions: extensions}
}

// Load reads all data rows from the first sheet. Header names are trimmed
// of surrounding whitespace; blank header cells get a synthetic column_N
// name. Rows that are blank across every cell are skipped. Fails when the
// file is missing, has an unsupported extension, cannot be parsed, or
// contains no data rows.
func (l *ExcelLoader) Load(path string) ([]domain.Record, error) {
	rows, err := l.readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.LoadError{Path: path, Cause: errors.New("spreadsheet is empty")}
	}

	columns := headerNames(rows[0])

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec := make(domain.Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &domain.LoadError{Path: path, Cause: errors.New("spreadsheet has no data rows")}
	}
	return records, nil
}

// Columns returns the header row's column names, in sheet order, with the
// same trimming and synthetic-name rules as Load.
func (l *ExcelLoader) Columns(path string) ([]string, error) {
	rows, err := l.readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.LoadError{Path: path, Cause: errors.New("spreadsheet is empty")}
	}
	return headerNames(rows[0]), nil
}

func (l *ExcelLoader) readRows(path string) ([][]string, error) {
	if err := l.checkFile(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Cause: fmt.Errorf("cannot read workbook: %w", err)}
	}
	defer func() {
		_ = f.Close() // Best-effort cleanup
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.LoadError{Path: path, Cause: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &domain.LoadError{Path: path, Cause: fmt.Errorf("cannot read sheet %s: %w", sheets[0], err)}
	}
	return rows, nil
}

func (l *ExcelLoader) checkFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &domain.LoadError{Path: path, Cause: fmt.Errorf("file not found: %w", err)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range l.extensions {
		if ext == allowed {
			return nil
		}
	}
	return &domain.LoadError{
		Path: path,
		Cause: fmt.Errorf("unsupported file format %q, supported: %s",
			ext, strings.Join(l.extensions, ", ")),
	}
}

// headerNames trims header cells and substitutes column_N for blanks.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		names[i] = name
	}
	return names
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
