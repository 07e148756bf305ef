package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func occupancyTable() *report.Table {
	return report.OccupancyTable([]report.OccupancyRow{
		{RoomNumber: "A-101", Block: "A", Floor: 1, Type: "DOUBLE", Gender: "MALE", Capacity: 2, Occupancy: 2,
			Status: "OCCUPIED", MonthlyRent: decimal.NewFromInt(300), OccupancyRate: 1},
		{RoomNumber: "007", Block: "B", Floor: 0, Type: "SINGLE", Gender: "MIXED", Capacity: 1, Occupancy: 0,
			Status: "AVAILABLE", MonthlyRent: decimal.RequireFromString("275.5"), OccupancyRate: 0},
	}, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
}

func TestCSV(t *testing.T) {
	data, err := CSV(occupancyTable())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Room", records[0][0])
	assert.Equal(t, "A-101", records[1][0])
	assert.Equal(t, "275.50", records[2][9])
	assert.Equal(t, "Total", records[3][0])

	_, err = CSV(nil)
	assert.Error(t, err)
}

func TestCSV_QuotesSpecialCharacters(t *testing.T) {
	table := &report.Table{
		Columns: []string{"Name", "Note"},
		Rows:    [][]string{{"Doe, Jane", `said "hi"`}},
	}
	data, err := CSV(table)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Doe, Jane","said ""hi"""`)
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(occupancyTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Occupancy report"}, f.GetSheetList())

	rows, err := f.GetRows("Occupancy report")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Monthly rent", rows[0][9])
	assert.Equal(t, "A-101", rows[1][0])
	assert.Equal(t, "Total", rows[3][0])

	typ, err := f.GetCellType("Occupancy report", "F2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "capacity is numeric")

	room, err := f.GetCellValue("Occupancy report", "A3")
	require.NoError(t, err)
	assert.Equal(t, "007", room, "leading zeros are preserved")
}

func TestXLSX_EmptyTable(t *testing.T) {
	data, err := XLSX(&report.Table{Title: "Payments report", Columns: []string{"Payment"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payments report")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Equal(t, "Payments 20262027", sheetName("Payments 2026/2027"))
	assert.Len(t, []rune(sheetName("A very long report title that exceeds the limit")), maxSheetNameLen)
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"12", true},
		{"0", true},
		{"0.5", true},
		{"-3.25", true},
		{"007", false},
		{"NaN", false},
		{"Inf", false},
		{"66.7%", false},
		{"2026-03-01", false},
		{"1234567890123456", false},
	}
	for _, tt := range tests {
		_, ok := numeric(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
