// Package export encodes report tables as CSV and XLSX files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/hostelhub/backend/internal/domain/report"
)

// utf8BOM makes spreadsheet applications detect UTF-8 in CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV encodes the table with a header row. The footer, when present, is the
// last record.
func CSV(t *report.Table) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("report table is nil")
	}
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	if len(t.Footer) > 0 {
		if err := w.Write(t.Footer); err != nil {
			return nil, fmt.Errorf("failed to write csv footer: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
