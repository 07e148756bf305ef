package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	return translateError(r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error)
}

func (r *GormPaymentRepository) Update(ctx context.Context, payment *finance.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	payment.Version = model.Version
	return nil
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormPaymentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*finance.Payment, error) {
	if len(ids) == 0 {
		return []*finance.Payment{}, nil
	}
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPayments(rows), nil
}

func (r *GormPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) ([]*finance.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.BookingID != nil {
		query = query.Where("booking_id = ?", *filter.BookingID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.BillingMonth != "" {
		query = query.Where("billing_month = ?", filter.BillingMonth)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", valueobject.TruncateDay(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", valueobject.TruncateDay(*filter.DueTo))
	}
	if filter.PaidFrom != nil {
		query = query.Where("paid_at >= ?", filter.PaidFrom.UTC())
	}
	if filter.PaidTo != nil {
		query = query.Where("paid_at <= ?", filter.PaidTo.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentModel
	if err := query.
		Order(orderBy(filter.SortBy, filter.SortOrder, PaymentSortFields, "created_at")).
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toPayments(rows), total, nil
}

func (r *GormPaymentRepository) ExistsForBookingMonth(ctx context.Context, bookingID uuid.UUID, paymentType finance.PaymentType, billingMonth string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("booking_id = ? AND type = ? AND billing_month = ? AND status <> ?",
			bookingID, paymentType, billingMonth, finance.PaymentStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *GormPaymentRepository) FindOutstandingByBooking(ctx context.Context, bookingID uuid.UUID) ([]*finance.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status IN ?", bookingID, finance.OutstandingPaymentStatuses).
		Order("due_date").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPayments(rows), nil
}

func (r *GormPaymentRepository) FindPendingDueBefore(ctx context.Context, day time.Time) ([]*finance.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", finance.PaymentStatusPending, valueobject.TruncateDay(day)).
		Order("due_date").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPayments(rows), nil
}

type statusTotal struct {
	Status finance.PaymentStatus
	Total  decimal.Decimal
	Count  int64
}

// Summarize returns amount sums per status, optionally for one student
func (r *GormPaymentRepository) Summarize(ctx context.Context, studentID *uuid.UUID) (*finance.PaymentSummary, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("status")
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}

	var rows []statusTotal
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &finance.PaymentSummary{
		TotalPaid:     decimal.Zero,
		TotalPending:  decimal.Zero,
		TotalOverdue:  decimal.Zero,
		TotalRefunded: decimal.Zero,
	}
	for _, row := range rows {
		total := row.Total.Round(2)
		switch row.Status {
		case finance.PaymentStatusPaid:
			summary.TotalPaid, summary.PaidCount = total, row.Count
		case finance.PaymentStatusPending:
			summary.TotalPending, summary.PendingCount = total, row.Count
		case finance.PaymentStatusOverdue:
			summary.TotalOverdue, summary.OverdueCount = total, row.Count
		case finance.PaymentStatusRefunded:
			summary.TotalRefunded = total
		}
	}
	return summary, nil
}

// MonthlyTotals returns only months that have payments; callers fill gaps with finance.FillYear
func (r *GormPaymentRepository) MonthlyTotals(ctx context.Context, year int, studentID *uuid.UUID) ([]finance.MonthlyTotal, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	month := monthExpr(r.db, "paid_at")

	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select(fmt.Sprintf("%s AS month, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count", month)).
		Where("status = ? AND paid_at >= ? AND paid_at < ?", finance.PaymentStatusPaid, start, start.AddDate(1, 0, 0)).
		Group(month).
		Order("month")
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}

	var rows []finance.MonthlyTotal
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, nil
}

// monthExpr formats a timestamp column as YYYY-MM for the connected dialect
func monthExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
}

func toPayments(rows []models.PaymentModel) []*finance.Payment {
	out := make([]*finance.Payment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
