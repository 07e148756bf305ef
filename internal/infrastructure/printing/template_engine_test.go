package printing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateEngine_RenderReport(t *testing.T) {
	engine := NewTemplateEngine()
	generated := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rows := []report.OccupancyRow{
		{RoomNumber: "A-101", Block: "A", Floor: 1, Type: "DOUBLE", Gender: "MALE", Capacity: 2, Occupancy: 1,
			Status: "AVAILABLE", MonthlyRent: decimal.NewFromInt(300), OccupancyRate: 0.5},
		{RoomNumber: "<B-7>", Block: "B", Floor: 2, Type: "SINGLE", Gender: "FEMALE", Capacity: 1, Occupancy: 1,
			Status: "OCCUPIED", MonthlyRent: decimal.NewFromInt(450), OccupancyRate: 1},
	}

	html, err := engine.RenderReport(report.OccupancyTable(rows, generated))
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Occupancy report</title>")
	assert.Contains(t, html, "Generated 2026-03-01 09:30")
	assert.Contains(t, html, "<th>Room</th>")
	assert.Contains(t, html, "<td>A-101</td>")
	assert.Contains(t, html, "&lt;B-7&gt;", "cell values are escaped")
	assert.Contains(t, html, "<tfoot>")
	assert.Contains(t, html, "<td>66.7%</td>")
}

func TestTemplateEngine_RenderReport_Empty(t *testing.T) {
	engine := NewTemplateEngine()

	html, err := engine.RenderReport(report.PaymentTable(nil, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, html, "No data")
	assert.Contains(t, html, `colspan="11"`)
	assert.NotContains(t, html, "<tfoot>")

	_, err = engine.RenderReport(nil)
	assert.Error(t, err)
}

func TestTemplateEngine_RenderReceipt(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	engine := NewTemplateEngine(WithCurrencySymbol("$"), WithLocation(loc))
	id := uuid.MustParse("6f1c2a9e-0000-4000-8000-000000000001")

	html, err := engine.RenderReceipt(&Receipt{
		Number:       "R-6F1C2A9E",
		PaymentID:    id,
		StudentName:  "Jane Doe",
		StudentEmail: "jane@example.com",
		Type:         "RENT",
		BillingMonth: "2026-03",
		Amount:       decimal.RequireFromString("1234.5"),
		Method:       "BANK_TRANSFER",
		PaidAt:       time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
		IssuedAt:     time.Date(2026, 3, 2, 7, 5, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Hostel Payment Receipt")
	assert.Contains(t, html, "No. R-6F1C2A9E")
	assert.Contains(t, html, "Jane Doe &lt;jane@example.com&gt;")
	assert.Contains(t, html, "Bank Transfer")
	assert.Contains(t, html, "$1,234.50")
	assert.Contains(t, html, "2026-03-02 10:00")
	assert.Contains(t, html, "2026-03")
	assert.NotContains(t, html, "Reference")

	_, err = engine.RenderReceipt(nil)
	assert.Error(t, err)
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()

	out, err := engine.RenderString("greeting", `Hello {{upper .}}`, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Hello ADA", out)

	_, err = engine.RenderString("empty", " ", nil)
	assert.Error(t, err)

	_, err = engine.RenderString("broken", "{{.Missing", nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeTemplateFailed, renderErr.Code)
}

func TestFormatMoney(t *testing.T) {
	engine := NewTemplateEngine()
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"12.5", "12.50"},
		{"999", "999.00"},
		{"1000", "1,000.00"},
		{"1234567.891", "1,234,567.89"},
		{"-4500", "-4,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	engine := NewTemplateEngine()

	assert.Equal(t, "", engine.formatDate(time.Time{}))
	assert.Equal(t, "2026-01-31", engine.formatDate(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "75.0%", formatPercent(0.75))
	assert.Equal(t, "Checked In", statusText("CHECKED_IN"))
	assert.Equal(t, "Paid", statusText("PAID"))
	assert.Equal(t, "6F1C2A9E", shortUUID(uuid.MustParse("6f1c2a9e-0000-4000-8000-000000000001")))
	assert.Equal(t, "n/a", defaultString("n/a", " "))
	assert.Equal(t, "x", defaultString("n/a", "x"))
}
