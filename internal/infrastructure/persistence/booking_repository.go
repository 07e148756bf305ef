package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBookingRepository implements housing.BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *housing.Booking) error {
	return translateError(r.db.WithContext(ctx).Create(models.BookingModelFromDomain(booking)).Error)
}

func (r *GormBookingRepository) Update(ctx context.Context, booking *housing.Booking) error {
	model := models.BookingModelFromDomain(booking)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	booking.Version = model.Version
	return nil
}

func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormBookingRepository) FindAll(ctx context.Context, filter housing.BookingFilter) ([]*housing.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BookingModel{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	// From and To select bookings whose stay overlaps the window
	if filter.From != nil {
		query = query.Where("end_date >= ?", valueobject.TruncateDay(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("start_date <= ?", valueobject.TruncateDay(*filter.To))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BookingModel
	if err := query.
		Order(orderBy(filter.SortBy, filter.SortOrder, BookingSortFields, "created_at")).
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toBookings(rows), total, nil
}

func (r *GormBookingRepository) FindOpenByStudent(ctx context.Context, studentID uuid.UUID) (*housing.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND status IN ?", studentID, housing.OpenBookingStatuses).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormBookingRepository) ExistsOpenForStudent(ctx context.Context, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("student_id = ? AND status IN ?", studentID, housing.OpenBookingStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *GormBookingRepository) CountOpenByRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("room_id = ? AND status IN ?", roomID, housing.OpenBookingStatuses).
		Count(&count).Error
	return count, err
}

func (r *GormBookingRepository) FindPendingCreatedBefore(ctx context.Context, before time.Time) ([]*housing.Booking, error) {
	return r.findWhere(ctx, "status = ? AND created_at < ?", housing.BookingStatusPending, before.UTC())
}

func (r *GormBookingRepository) FindConfirmedStartingBy(ctx context.Context, day time.Time) ([]*housing.Booking, error) {
	return r.findWhere(ctx, "status = ? AND start_date <= ?", housing.BookingStatusConfirmed, valueobject.TruncateDay(day))
}

func (r *GormBookingRepository) FindActiveEndedBefore(ctx context.Context, day time.Time) ([]*housing.Booking, error) {
	return r.findWhere(ctx, "status = ? AND end_date < ?", housing.BookingStatusActive, valueobject.TruncateDay(day))
}

func (r *GormBookingRepository) FindActive(ctx context.Context) ([]*housing.Booking, error) {
	return r.findWhere(ctx, "status = ?", housing.BookingStatusActive)
}

func (r *GormBookingRepository) findWhere(ctx context.Context, query string, args ...any) ([]*housing.Booking, error) {
	var rows []models.BookingModel
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func toBookings(rows []models.BookingModel) []*housing.Booking {
	out := make([]*housing.Booking, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ housing.BookingRepository = (*GormBookingRepository)(nil)
