// Package report renders tabular reports as xlsx workbooks.
package report

import (
	"bytes"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet: a bold header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

const defaultSheet = "Sheet1"

// Workbook writes sheets in order into a single xlsx file. The first sheet
// is active when the file opens.
func Workbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F4CCCC"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh Sheet, headerStyle int) error {
	for col, h := range sh.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sh.Name, cell, h); err != nil {
			return fmt.Errorf("set header %s!%s: %w", sh.Name, cell, err)
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		width := float64(len(h) + 4)
		if width < 12 {
			width = 12
		}
		if err := f.SetColWidth(sh.Name, colName, colName, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if len(sh.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(sh.Headers), 1)
		if err := f.SetCellStyle(sh.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("set header style: %w", err)
		}
	}

	for r, row := range sh.Rows {
		for c, v := range row {
			v = cellValue(v)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sh.Name, cell, v); err != nil {
				return fmt.Errorf("set %s!%s: %w", sh.Name, cell, err)
			}
		}
	}
	return nil
}

// cellValue dereferences optional values so nil pointers and NULL dates
// become blank cells. Dates are written as YYYY-MM-DD text.
func cellValue(v any) any {
	switch x := v.(type) {
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *int:
		if x == nil {
			return nil
		}
		return *x
	case *float64:
		if x == nil {
			return nil
		}
		return *x
	case pgtype.Date:
		if !x.Valid {
			return nil
		}
		return x.Time.Format("2006-01-02")
	default:
		return v
	}
}
