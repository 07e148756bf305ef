package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/printing"
	"github.com/hostelhub/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockReportRepository is a mock implementation of report.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) OccupancyRows(ctx context.Context) ([]report.OccupancyRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OccupancyRow), args.Error(1)
}

func (m *MockReportRepository) PaymentRows(ctx context.Context, filter report.Filter) ([]report.PaymentRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.PaymentRow), args.Error(1)
}

func (m *MockReportRepository) StudentRows(ctx context.Context, filter report.Filter) ([]report.StudentRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StudentRow), args.Error(1)
}

func (m *MockReportRepository) ComplaintRows(ctx context.Context, filter report.Filter) ([]report.ComplaintRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ComplaintRow), args.Error(1)
}

// fakeRenderer returns the HTML it was given as the PDF body
type fakeRenderer struct {
	requests []*printing.RenderRequest
	err      error
}

func (r *fakeRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.requests = append(r.requests, req)
	return &printing.RenderResult{PDFData: append([]byte("%PDF-1.7\n"), req.HTML...), PageCount: 1}, nil
}

func (r *fakeRenderer) Close() error { return nil }

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func occupancyRows() []report.OccupancyRow {
	return []report.OccupancyRow{
		{RoomNumber: "A-101", Block: "A", Floor: 1, Type: "DOUBLE", Capacity: 2, Occupancy: 2, Status: "OCCUPIED", MonthlyRent: decimal.NewFromInt(500), OccupancyRate: 1},
		{RoomNumber: "A-102", Block: "A", Floor: 1, Type: "SINGLE", Capacity: 1, Occupancy: 0, Status: "AVAILABLE", MonthlyRent: decimal.NewFromInt(650)},
	}
}

func newTestService(t *testing.T, renderer printing.PDFRenderer, withStorage bool) (*Service, *MockReportRepository) {
	t.Helper()
	repo := new(MockReportRepository)
	var store *storage.LocalObjectStorage
	if withStorage {
		var err error
		store, err = storage.NewLocalObjectStorage(t.TempDir(), "/api/v1/files", []byte("secret"), time.Minute)
		require.NoError(t, err)
	}
	var svc *Service
	if store != nil {
		svc = NewService(repo, nil, renderer, store, Config{MaxRows: 3}, nil)
	} else {
		svc = NewService(repo, nil, renderer, nil, Config{MaxRows: 3}, nil)
	}
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func TestService_Generate_JSON(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil, false)
	repo.On("OccupancyRows", ctx).Return(occupancyRows(), nil)

	file, err := svc.Generate(ctx, GenerateInput{Kind: report.KindOccupancy})
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)
	assert.Equal(t, "occupancy-report-20260315-100000.json", file.FileName)
	assert.Equal(t, 2, file.Rows)

	var table report.Table
	require.NoError(t, json.Unmarshal(file.Content, &table))
	assert.Equal(t, report.KindOccupancy, table.Kind)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A-101", table.Rows[0][0])
	assert.Equal(t, "3", table.Footer[5])
}

func TestService_Generate_CSV(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil, false)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := report.Filter{From: &from, Status: "PAID"}
	paidAt := from.AddDate(0, 0, 3)
	repo.On("PaymentRows", ctx, filter).Return([]report.PaymentRow{{
		PaymentID: uuid.New(), StudentName: "Ada", StudentEmail: "ada@example.com", Type: "RENT",
		Amount: decimal.NewFromInt(500), BillingMonth: "2026-01", Status: "PAID", Method: "CASH",
		DueDate: from.AddDate(0, 0, 5), PaidAt: &paidAt,
	}}, nil)

	file, err := svc.Generate(ctx, GenerateInput{Kind: report.KindPayments, Format: report.FormatCSV, From: &from, Status: "PAID"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.FileName, ".csv"))
	body := string(file.Content)
	assert.Contains(t, body, "Payment,Student,Email")
	assert.Contains(t, body, "ada@example.com,RENT,2026-01,500.00,PAID,CASH,2026-01-06")
}

func TestService_Generate_XLSX(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil, false)
	repo.On("StudentRows", ctx, report.Filter{}).Return([]report.StudentRow{
		{StudentID: uuid.New(), Name: "Ada", Email: "ada@example.com", Status: "ACTIVE", Outstanding: decimal.NewFromInt(250)},
	}, nil)

	file, err := svc.Generate(ctx, GenerateInput{Kind: report.KindStudents, Format: report.FormatXLSX})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Ada", rows[1][0])
}

func TestService_Generate_PDF(t *testing.T) {
	ctx := context.Background()

	t.Run("renders landscape A4", func(t *testing.T) {
		renderer := &fakeRenderer{}
		svc, repo := newTestService(t, renderer, false)
		repo.On("ComplaintRows", ctx, report.Filter{}).Return([]report.ComplaintRow{
			{ComplaintID: uuid.New(), StudentName: "Ada", Category: "PLUMBING", Title: "Leaking tap", Status: "OPEN", CreatedAt: fixedNow},
		}, nil)

		file, err := svc.Generate(ctx, GenerateInput{Kind: report.KindComplaints, Format: report.FormatPDF})
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", file.ContentType)
		assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
		require.Len(t, renderer.requests, 1)
		assert.Equal(t, printing.OrientationLandscape, renderer.requests[0].Orientation)
		assert.Equal(t, printing.PaperSizeA4, renderer.requests[0].PaperSize)
		assert.Contains(t, renderer.requests[0].HTML, "Leaking tap")
	})

	t.Run("disabled without renderer", func(t *testing.T) {
		svc, repo := newTestService(t, nil, false)
		_, err := svc.Generate(ctx, GenerateInput{Kind: report.KindComplaints, Format: report.FormatPDF})
		assert.Equal(t, "PDF_DISABLED", shared.CodeOf(err))
		repo.AssertNotCalled(t, "ComplaintRows", mock.Anything, mock.Anything)
	})

	t.Run("renderer failure", func(t *testing.T) {
		svc, repo := newTestService(t, &fakeRenderer{err: errors.New("chrome gone")}, false)
		repo.On("OccupancyRows", ctx).Return(occupancyRows(), nil)
		_, err := svc.Generate(ctx, GenerateInput{Kind: report.KindOccupancy, Format: report.FormatPDF})
		assert.Error(t, err)
	})
}

func TestService_Generate_Validation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil, false)
	from := fixedNow
	to := fixedNow.AddDate(0, 0, -1)

	tests := []struct {
		name  string
		input GenerateInput
		code  string
	}{
		{"unknown kind", GenerateInput{Kind: "revenue"}, "INVALID_REPORT_KIND"},
		{"unknown format", GenerateInput{Kind: report.KindStudents, Format: "docx"}, "INVALID_FORMAT"},
		{"inverted range", GenerateInput{Kind: report.KindPayments, From: &from, To: &to}, "INVALID_DATE_RANGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, tt.input)
			assert.Equal(t, tt.code, shared.CodeOf(err))
		})
	}
	repo.AssertExpectations(t)
}

func TestService_Generate_TooLarge(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil, false)
	rows := append(occupancyRows(), occupancyRows()...)
	repo.On("OccupancyRows", ctx).Return(rows, nil)

	_, err := svc.Generate(ctx, GenerateInput{Kind: report.KindOccupancy})
	assert.Equal(t, "REPORT_TOO_LARGE", shared.CodeOf(err))
}

func TestService_Archive(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and presigns", func(t *testing.T) {
		svc, repo := newTestService(t, nil, true)
		repo.On("OccupancyRows", ctx).Return(occupancyRows(), nil)

		archived, err := svc.Archive(ctx, GenerateInput{Kind: report.KindOccupancy, Format: report.FormatCSV})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(archived.Key, "reports/occupancy/2026/03/20260315-100000-"))
		assert.True(t, strings.HasSuffix(archived.Key, ".csv"))
		assert.Contains(t, archived.URL, "/api/v1/files/"+archived.Key)
		assert.Equal(t, 2, archived.Rows)

		stored, _, err := svc.storage.Get(ctx, archived.Key)
		require.NoError(t, err)
		assert.Equal(t, archived.Size, len(stored))
	})

	t.Run("disabled without storage", func(t *testing.T) {
		svc, _ := newTestService(t, nil, false)
		_, err := svc.Archive(ctx, GenerateInput{Kind: report.KindOccupancy})
		assert.Equal(t, "STORAGE_DISABLED", shared.CodeOf(err))
	})
}
