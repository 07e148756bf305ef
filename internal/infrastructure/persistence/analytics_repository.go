package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAnalyticsRepository runs dashboard aggregates with GORM
type GormAnalyticsRepository struct {
	db *gorm.DB
}

func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

func (r *GormAnalyticsRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("role = ?", shared.RoleStudent).
		Count(&count).Error
	return count, err
}

func (r *GormAnalyticsRepository) OccupancyOverview(ctx context.Context) (*report.OccupancyOverview, error) {
	var rows []struct {
		Status    housing.RoomStatus
		Rooms     int64
		Capacity  int64
		Occupancy int64
	}
	if err := r.db.WithContext(ctx).Model(&models.RoomModel{}).
		Select("status, COUNT(*) AS rooms, COALESCE(SUM(capacity), 0) AS capacity, COALESCE(SUM(occupancy), 0) AS occupancy").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	overview := &report.OccupancyOverview{}
	for _, row := range rows {
		overview.TotalRooms += row.Rooms
		overview.TotalBeds += row.Capacity
		overview.OccupiedBeds += row.Occupancy
		switch row.Status {
		case housing.RoomStatusAvailable:
			overview.AvailableRooms = row.Rooms
		case housing.RoomStatusOccupied:
			overview.OccupiedRooms = row.Rooms
		case housing.RoomStatusMaintenance:
			overview.MaintenanceRooms = row.Rooms
		}
	}
	overview.OccupancyRate = report.Rate(overview.OccupiedBeds, overview.TotalBeds)
	return overview, nil
}

var occupancyColumns = map[report.OccupancyDimension]string{
	report.ByRoomType: "type",
	report.ByBlock:    "block",
	report.ByFloor:    "floor",
}

// OccupancyBy groups rooms by type, block or floor
func (r *GormAnalyticsRepository) OccupancyBy(ctx context.Context, dim report.OccupancyDimension) ([]report.OccupancyGroup, error) {
	column, ok := occupancyColumns[dim]
	if !ok {
		return nil, shared.NewDomainError("INVALID_DIMENSION", "Occupancy can be grouped by type, block or floor")
	}

	var groups []report.OccupancyGroup
	if err := r.db.WithContext(ctx).Model(&models.RoomModel{}).
		Select(column + " AS key, COUNT(*) AS rooms, COALESCE(SUM(capacity), 0) AS capacity, COALESCE(SUM(occupancy), 0) AS occupied").
		Group(column).
		Order(column).
		Scan(&groups).Error; err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].OccupancyRate = report.Rate(groups[i].Occupied, groups[i].Capacity)
	}
	return groups, nil
}

func (r *GormAnalyticsRepository) BookingsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := groupCount(ctx, r.db, &models.BookingModel{}, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (r *GormAnalyticsRepository) CountUpcomingEvents(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventModel{}).
		Where("status = ? AND starts_at > ?", community.EventStatusScheduled, now.UTC()).
		Count(&count).Error
	return count, err
}

// CurrentBooking returns nil without error when the student has no open booking
func (r *GormAnalyticsRepository) CurrentBooking(ctx context.Context, studentID uuid.UUID) (*report.CurrentBooking, error) {
	var rows []report.CurrentBooking
	if err := r.db.WithContext(ctx).
		Table("bookings AS b").
		Select("b.id AS booking_id, b.room_id, r.number AS room_number, b.status, b.start_date, b.end_date").
		Joins("JOIN rooms AS r ON r.id = b.room_id").
		Where("b.student_id = ? AND b.status IN ?", studentID, housing.OpenBookingStatuses).
		Order("b.created_at DESC").
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *GormAnalyticsRepository) CountLeavesByStudent(ctx context.Context, studentID uuid.UUID, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaveApplicationModel{}).Where("student_id = ?", studentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

var _ report.AnalyticsRepository = (*GormAnalyticsRepository)(nil)
