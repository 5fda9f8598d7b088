// Package xlsx is the spreadsheet-parsing service: it turns the first sheet
// of a workbook into an in-memory table with header-row-driven column
// discovery.
package xlsx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"echo-deidentifier/internal/table"
)

// Read parses the workbook at path.
func Read(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()
	return fromFile(f)
}

// ReadBytes parses a workbook already held in memory, for shells that hand
// over raw bytes instead of a path.
func ReadBytes(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()
	return fromFile(f)
}

func fromFile(f *excelize.File) (*table.Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw cell values keep date cells as spreadsheet day serials, which the
	// date parser understands; formatted values would depend on the cell's
	// display format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return table.New(nil), nil
	}

	// Columns come from the declared header row, never from the keys of the
	// first data row: a parser that omits empty cells would silently lose a
	// column whose data starts further down.
	var columns []string
	for _, h := range rows[0] {
		if strings.TrimSpace(h) != "" {
			columns = append(columns, h)
		}
	}

	t := table.New(columns)
	for _, raw := range rows[1:] {
		if isEmpty(raw) {
			continue
		}
		r := make(table.Row, len(columns))
		for i, col := range rows[0] {
			if strings.TrimSpace(col) == "" || i >= len(raw) {
				continue
			}
			cell := raw[i]
			if cell == "" {
				continue // absent, not null
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				r[col] = table.Number(v)
			} else {
				r[col] = table.String(cell)
			}
		}
		t.Rows = append(t.Rows, r)
	}

	if len(t.Columns) == 0 {
		t.Columns = table.UnionColumns(t.Rows)
	}
	return t, nil
}

func isEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
