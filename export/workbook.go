// Package export renders record listings for download: an .xlsx workbook for
// spreadsheets and a printable HTML page.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"backoffice/records"
)

const (
	maxSheetName = 31
	minColWidth  = 10
	maxColWidth  = 60
)

// XLSXContentType is the media type of Workbook output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook writes items to a single sheet named after title. Row 1 holds the
// field labels in bold; every following row is one record.
func Workbook[T any](title string, fields []records.Field[T], items []T) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	widths := make([]int, len(fields))
	for col, field := range fields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("export: header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, field.Label); err != nil {
			return nil, fmt.Errorf("export: header %s: %w", field.Name, err)
		}
		widths[col] = len(field.Label)
	}
	if len(fields) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(fields), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("export: apply header style: %w", err)
		}
	}

	for row, item := range items {
		for col, field := range fields {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("export: cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, field.Value(item)); err != nil {
				return nil, fmt.Errorf("export: row %d %s: %w", row+2, field.Name, err)
			}
			if n := len(field.Text(item)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("export: column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, clampWidth(w)); err != nil {
			return nil, fmt.Errorf("export: column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf, nil
}

// sheetName strips characters Excel rejects and truncates to 31 runes.
func sheetName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, title)
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "'")
	if cleaned == "" {
		return "Export"
	}
	if runes := []rune(cleaned); len(runes) > maxSheetName {
		cleaned = strings.TrimSpace(string(runes[:maxSheetName]))
	}
	return cleaned
}

func clampWidth(n int) float64 {
	w := n + 2
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return float64(w)
}
