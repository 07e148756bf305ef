package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/export"
	"github.com/hostelhub/backend/internal/infrastructure/printing"
	"github.com/hostelhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var (
	errInvalidKind   = shared.NewDomainError("INVALID_REPORT_KIND", "Report must be one of occupancy, payments, students, complaints")
	errInvalidFormat = shared.NewDomainError("INVALID_FORMAT", "Format must be one of json, csv, xlsx, pdf")
	errInvalidRange  = shared.NewDomainError("INVALID_DATE_RANGE", "From must not be after to")
	errPDFDisabled   = shared.NewDomainError("PDF_DISABLED", "PDF rendering is not configured")
	errNoStorage     = shared.NewDomainError("STORAGE_DISABLED", "Object storage is not configured")
)

// GenerateInput selects a report and its encoding
type GenerateInput struct {
	Kind   report.Kind
	Format report.Format
	From   *time.Time
	To     *time.Time
	Status string
}

// File is a rendered report
type File struct {
	FileName    string
	ContentType string
	Content     []byte
	Rows        int
}

// ArchivedReport is a report stored in object storage
type ArchivedReport struct {
	Key         string    `json:"key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	Rows        int       `json:"rows"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Config bounds report generation
type Config struct {
	MaxRows    int
	PresignTTL time.Duration
}

// Service builds report tables from the read model and encodes them
type Service struct {
	repo      report.ReportRepository
	templates *printing.TemplateEngine
	renderer  printing.PDFRenderer
	storage   common.ObjectStorage
	config    Config
	logger    *zap.Logger
	now       func() time.Time

	businessMetrics *telemetry.BusinessMetrics
}

// NewService creates a report Service. A nil renderer disables PDF output
// and a nil storage disables archiving.
func NewService(
	repo report.ReportRepository,
	templates *printing.TemplateEngine,
	renderer printing.PDFRenderer,
	storage common.ObjectStorage,
	config Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if templates == nil {
		templates = printing.NewTemplateEngine()
	}
	if config.MaxRows <= 0 {
		config.MaxRows = 10000
	}
	if config.PresignTTL <= 0 {
		config.PresignTTL = 15 * time.Minute
	}
	return &Service{
		repo:      repo,
		templates: templates,
		renderer:  renderer,
		storage:   storage,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Generate renders the requested report
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*File, error) {
	if input.Format == "" {
		input.Format = report.FormatJSON
	}
	if !input.Kind.IsValid() {
		return nil, errInvalidKind
	}
	if !input.Format.IsValid() {
		return nil, errInvalidFormat
	}
	if input.From != nil && input.To != nil && input.From.After(*input.To) {
		return nil, errInvalidRange
	}
	if input.Format == report.FormatPDF && s.renderer == nil {
		return nil, errPDFDisabled
	}

	table, err := s.Table(ctx, input.Kind, report.Filter{From: input.From, To: input.To, Status: input.Status})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := s.encode(ctx, table, input.Format)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Report generated",
		zap.String("kind", string(input.Kind)),
		zap.String("format", string(input.Format)),
		zap.Int("rows", len(table.Rows)),
		zap.Int("bytes", len(content)),
		zap.Duration("duration", time.Since(start)))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordReport(ctx, string(input.Kind), string(input.Format))
	}

	return &File{
		FileName:    fmt.Sprintf("%s-report-%s%s", input.Kind, table.GeneratedAt.Format("20060102-150405"), input.Format.Extension()),
		ContentType: input.Format.ContentType(),
		Content:     content,
		Rows:        len(table.Rows),
	}, nil
}

// Table loads the rows of kind and shapes them into a report table
func (s *Service) Table(ctx context.Context, kind report.Kind, filter report.Filter) (*report.Table, error) {
	now := s.now().UTC()
	var (
		table *report.Table
		n     int
	)
	switch kind {
	case report.KindOccupancy:
		rows, err := s.repo.OccupancyRows(ctx)
		if err != nil {
			return nil, err
		}
		n, table = len(rows), report.OccupancyTable(rows, now)
	case report.KindPayments:
		rows, err := s.repo.PaymentRows(ctx, filter)
		if err != nil {
			return nil, err
		}
		n, table = len(rows), report.PaymentTable(rows, now)
	case report.KindStudents:
		rows, err := s.repo.StudentRows(ctx, filter)
		if err != nil {
			return nil, err
		}
		n, table = len(rows), report.StudentTable(rows, now)
	case report.KindComplaints:
		rows, err := s.repo.ComplaintRows(ctx, filter)
		if err != nil {
			return nil, err
		}
		n, table = len(rows), report.ComplaintTable(rows, now)
	default:
		return nil, errInvalidKind
	}
	if n > s.config.MaxRows {
		return nil, shared.NewDomainError("REPORT_TOO_LARGE",
			fmt.Sprintf("Report has %d rows, the limit is %d; narrow the date range", n, s.config.MaxRows))
	}
	return table, nil
}

func (s *Service) encode(ctx context.Context, table *report.Table, format report.Format) ([]byte, error) {
	switch format {
	case report.FormatCSV:
		return export.CSV(table)
	case report.FormatXLSX:
		return export.XLSX(table)
	case report.FormatPDF:
		html, err := s.templates.RenderReport(table)
		if err != nil {
			return nil, err
		}
		result, err := s.renderer.Render(ctx, &printing.RenderRequest{
			HTML:        html,
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationLandscape,
			Title:       table.Title,
		})
		if err != nil {
			return nil, err
		}
		return result.PDFData, nil
	}
	return json.Marshal(table)
}

// Archive renders the report and stores it, returning a presigned download URL
func (s *Service) Archive(ctx context.Context, input GenerateInput) (*ArchivedReport, error) {
	if s.storage == nil {
		return nil, errNoStorage
	}
	file, err := s.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/%s-%s%s",
		input.Kind, s.now().UTC().Format("2006/01/20060102-150405"), uuid.New().String()[:8], path.Ext(file.FileName))
	if err := s.storage.Put(ctx, key, file.Content, file.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}
	url, expiresAt, err := s.storage.PresignGet(ctx, key, s.config.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report: %w", err)
	}

	s.logger.Info("Report archived", zap.String("key", key), zap.Int("bytes", len(file.Content)))
	return &ArchivedReport{
		Key:         key,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        len(file.Content),
		Rows:        file.Rows,
		URL:         url,
		ExpiresAt:   expiresAt,
	}, nil
}
