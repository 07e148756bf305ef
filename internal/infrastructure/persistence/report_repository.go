package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository loads report rows with GORM
type GormReportRepository struct {
	db *gorm.DB
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) OccupancyRows(ctx context.Context) ([]report.OccupancyRow, error) {
	var rooms []models.RoomModel
	if err := r.db.WithContext(ctx).Order("block").Order("floor").Order("number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	rows := make([]report.OccupancyRow, len(rooms))
	for i, room := range rooms {
		rows[i] = report.OccupancyRow{
			RoomNumber:    room.Number,
			Block:         room.Block,
			Floor:         room.Floor,
			Type:          string(room.Type),
			Gender:        string(room.Gender),
			Capacity:      room.Capacity,
			Occupancy:     room.Occupancy,
			Status:        string(room.Status),
			MonthlyRent:   room.MonthlyRent,
			OccupancyRate: report.Rate(int64(room.Occupancy), int64(room.Capacity)),
		}
	}
	return rows, nil
}

// PaymentRows filters on the due date
func (r *GormReportRepository) PaymentRows(ctx context.Context, filter report.Filter) ([]report.PaymentRow, error) {
	query := r.db.WithContext(ctx).
		Table("payments AS p").
		Select("p.id AS payment_id, u.name AS student_name, u.email AS student_email, p.type, p.amount, " +
			"p.billing_month, p.status, p.method, p.due_date, p.paid_at").
		Joins("JOIN users AS u ON u.id = p.student_id")
	if filter.From != nil {
		query = query.Where("p.due_date >= ?", valueobject.TruncateDay(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("p.due_date <= ?", valueobject.TruncateDay(*filter.To))
	}
	if filter.Status != "" {
		query = query.Where("p.status = ?", filter.Status)
	}

	var rows []report.PaymentRow
	if err := query.Order("p.due_date").Order("u.name").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// StudentRows lists students with their open booking and outstanding dues
func (r *GormReportRepository) StudentRows(ctx context.Context, filter report.Filter) ([]report.StudentRow, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", shared.RoleStudent)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", filter.To.UTC())
	}

	var users []models.UserModel
	if err := query.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []report.StudentRow{}, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	var bookings []struct {
		StudentID  uuid.UUID
		RoomNumber string
		Status     string
	}
	if err := r.db.WithContext(ctx).
		Table("bookings AS b").
		Select("b.student_id, r.number AS room_number, b.status").
		Joins("JOIN rooms AS r ON r.id = b.room_id").
		Where("b.student_id IN ? AND b.status IN ?", ids, housing.OpenBookingStatuses).
		Scan(&bookings).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID]int, len(bookings))
	for i, b := range bookings {
		byStudent[b.StudentID] = i
	}

	var dues []struct {
		StudentID uuid.UUID
		Total     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("student_id, COALESCE(SUM(amount), 0) AS total").
		Where("student_id IN ? AND status IN ?", ids, finance.OutstandingPaymentStatuses).
		Group("student_id").
		Scan(&dues).Error; err != nil {
		return nil, err
	}
	outstanding := make(map[uuid.UUID]decimal.Decimal, len(dues))
	for _, d := range dues {
		outstanding[d.StudentID] = d.Total.Round(2)
	}

	rows := make([]report.StudentRow, len(users))
	for i, u := range users {
		row := report.StudentRow{
			StudentID:     u.ID,
			Name:          u.Name,
			Email:         u.Email,
			StudentNumber: u.StudentNumber,
			Gender:        string(u.Gender),
			Status:        string(u.Status),
			Outstanding:   decimal.Zero,
		}
		if idx, ok := byStudent[u.ID]; ok {
			row.RoomNumber = bookings[idx].RoomNumber
			row.BookingStatus = bookings[idx].Status
		}
		if total, ok := outstanding[u.ID]; ok {
			row.Outstanding = total
		}
		rows[i] = row
	}
	return rows, nil
}

func (r *GormReportRepository) ComplaintRows(ctx context.Context, filter report.Filter) ([]report.ComplaintRow, error) {
	query := r.db.WithContext(ctx).
		Table("complaints AS c").
		Select("c.id AS complaint_id, u.name AS student_name, COALESCE(r.number, '') AS room_number, " +
			"c.category, c.priority, c.title, c.status, c.created_at, c.resolved_at").
		Joins("JOIN users AS u ON u.id = c.student_id").
		Joins("LEFT JOIN rooms AS r ON r.id = c.room_id")
	if filter.From != nil {
		query = query.Where("c.created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("c.created_at <= ?", filter.To.UTC())
	}
	if filter.Status != "" {
		query = query.Where("c.status = ?", filter.Status)
	}

	var rows []report.ComplaintRow
	if err := query.Order("c.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ report.ReportRepository = (*GormReportRepository)(nil)
