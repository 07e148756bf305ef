package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OccupancyOverview summarizes bed usage across all rooms
type OccupancyOverview struct {
	TotalRooms       int64   `json:"total_rooms"`
	AvailableRooms   int64   `json:"available_rooms"`
	OccupiedRooms    int64   `json:"occupied_rooms"`
	MaintenanceRooms int64   `json:"maintenance_rooms"`
	TotalBeds        int64   `json:"total_beds"`
	OccupiedBeds     int64   `json:"occupied_beds"`
	OccupancyRate    float64 `json:"occupancy_rate"`
}

// OccupancyGroup is the occupancy of all rooms sharing a type, block or floor
type OccupancyGroup struct {
	Key           string  `json:"key"`
	Rooms         int64   `json:"rooms"`
	Capacity      int64   `json:"capacity"`
	Occupied      int64   `json:"occupied"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// OccupancyDimension selects how occupancy is grouped
type OccupancyDimension string

const (
	ByRoomType OccupancyDimension = "type"
	ByBlock    OccupancyDimension = "block"
	ByFloor    OccupancyDimension = "floor"
)

func (d OccupancyDimension) IsValid() bool {
	return d == ByRoomType || d == ByBlock || d == ByFloor
}

// Rate returns occupied/capacity, or zero for an empty capacity
func Rate(occupied, capacity int64) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(occupied) / float64(capacity)
}

// CountByKey is a generic grouped count
type CountByKey struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// AdminDashboard is the landing page summary for administrators
type AdminDashboard struct {
	Students         int64             `json:"students"`
	Occupancy        OccupancyOverview `json:"occupancy"`
	BookingsByStatus map[string]int64  `json:"bookings_by_status"`
	RevenueThisMonth decimal.Decimal   `json:"revenue_this_month"`
	PendingAmount    decimal.Decimal   `json:"pending_amount"`
	OverdueAmount    decimal.Decimal   `json:"overdue_amount"`
	OpenComplaints   int64             `json:"open_complaints"`
	PendingLeaves    int64             `json:"pending_leaves"`
	UpcomingEvents   int64             `json:"upcoming_events"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// CurrentBooking is the student's open booking with its room
type CurrentBooking struct {
	BookingID  uuid.UUID `json:"booking_id"`
	RoomID     uuid.UUID `json:"room_id"`
	RoomNumber string    `json:"room_number"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// StudentDashboard is the landing page summary for a student
type StudentDashboard struct {
	Booking             *CurrentBooking `json:"booking"`
	PendingAmount       decimal.Decimal `json:"pending_amount"`
	OverdueAmount       decimal.Decimal `json:"overdue_amount"`
	UnreadNotifications int64           `json:"unread_notifications"`
	UpcomingEvents      int64           `json:"upcoming_events"`
	PendingLeaves       int64           `json:"pending_leaves"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// AnalyticsRepository runs the aggregate queries behind the dashboards
type AnalyticsRepository interface {
	CountStudents(ctx context.Context) (int64, error)
	OccupancyOverview(ctx context.Context) (*OccupancyOverview, error)
	OccupancyBy(ctx context.Context, dim OccupancyDimension) ([]OccupancyGroup, error)
	BookingsByStatus(ctx context.Context) (map[string]int64, error)
	CountUpcomingEvents(ctx context.Context, now time.Time) (int64, error)
	CurrentBooking(ctx context.Context, studentID uuid.UUID) (*CurrentBooking, error)
	CountLeavesByStudent(ctx context.Context, studentID uuid.UUID, status string) (int64, error)
}
