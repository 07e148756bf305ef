package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	maxSheetNameLen = 31
	minColumnWidth  = 10
	maxColumnWidth  = 50
	maxNumericLen   = 15
)

// XLSX encodes the table as a single sheet workbook with a styled header,
// a frozen first row and an optional bold footer. Numeric cells are written
// as numbers so spreadsheets can sum them.
func XLSX(t *report.Table) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("report table is nil")
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	footerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create footer style: %w", err)
	}

	widths := make([]int, len(t.Columns))
	if err := writeRow(f, sheet, 1, t.Columns, widths); err != nil {
		return nil, err
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, row := range t.Rows {
		if err := writeRow(f, sheet, i+2, row, widths); err != nil {
			return nil, err
		}
	}

	if len(t.Footer) > 0 {
		footerRow := len(t.Rows) + 2
		if err := writeRow(f, sheet, footerRow, t.Footer, widths); err != nil {
			return nil, err
		}
		first, _ := excelize.CoordinatesToCellName(1, footerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Footer), footerRow)
		if err := f.SetCellStyle(sheet, first, last, footerStyle); err != nil {
			return nil, fmt.Errorf("failed to set footer style: %w", err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, float64(clampWidth(w+2))); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string, widths []int) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		var value any = v
		if n, ok := numeric(v); ok {
			value = n
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
		if col < len(widths) {
			if l := utf8.RuneCountInString(v); l > widths[col] {
				widths[col] = l
			}
		}
	}
	return nil
}

// numeric keeps identifiers such as "007" or long student numbers as text
func numeric(s string) (float64, bool) {
	if s == "" || len(s) > maxNumericLen {
		return 0, false
	}
	if strings.Trim(s, "0123456789.-") != "" {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sheetName strips characters Excel rejects and trims to 31 runes
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "Sheet1"
	}
	if utf8.RuneCountInString(name) > maxSheetNameLen {
		name = string([]rune(name)[:maxSheetNameLen])
	}
	return name
}

func clampWidth(w int) int {
	if w < minColumnWidth {
		return minColumnWidth
	}
	if w > maxColumnWidth {
		return maxColumnWidth
	}
	return w
}
