package housing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RoomRepository defines persistence for rooms
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	// Update saves changes using optimistic locking on Version
	Update(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	// FindByIDForUpdate loads the room and locks its row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Room, error)
	FindByNumber(ctx context.Context, number string) (*Room, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	FindAll(ctx context.Context, filter RoomFilter) ([]*Room, int64, error)
}

// RoomFilter contains filter options for room queries
type RoomFilter struct {
	Status        *RoomStatus
	Type          *RoomType
	Block         string
	Floor         *int
	Gender        *shared.Gender
	MinRent       *decimal.Decimal
	MaxRent       *decimal.Decimal
	AvailableOnly bool
	Keyword       string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// BookingRepository defines persistence for bookings
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	Update(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]*Booking, int64, error)
	// FindOpenByStudent returns the student's PENDING, CONFIRMED or ACTIVE booking
	FindOpenByStudent(ctx context.Context, studentID uuid.UUID) (*Booking, error)
	ExistsOpenForStudent(ctx context.Context, studentID uuid.UUID) (bool, error)
	CountOpenByRoom(ctx context.Context, roomID uuid.UUID) (int64, error)
	FindPendingCreatedBefore(ctx context.Context, before time.Time) ([]*Booking, error)
	FindConfirmedStartingBy(ctx context.Context, day time.Time) ([]*Booking, error)
	FindActiveEndedBefore(ctx context.Context, day time.Time) ([]*Booking, error)
	FindActive(ctx context.Context) ([]*Booking, error)
}

// BookingFilter contains filter options for booking queries
type BookingFilter struct {
	StudentID *uuid.UUID
	RoomID    *uuid.UUID
	Statuses  []BookingStatus
	From      *time.Time
	To        *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// RoommateRequestRepository defines persistence for roommate requests
type RoommateRequestRepository interface {
	Create(ctx context.Context, req *RoommateRequest) error
	Update(ctx context.Context, req *RoommateRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*RoommateRequest, error)
	FindAll(ctx context.Context, filter RoommateRequestFilter) ([]*RoommateRequest, int64, error)
	// ExistsPendingBetween checks for a pending request in either direction between two students
	ExistsPendingBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// RoommateRequestFilter contains filter options for roommate request queries.
// ParticipantID matches either side of the request.
type RoommateRequestFilter struct {
	RequesterID   *uuid.UUID
	TargetID      *uuid.UUID
	ParticipantID *uuid.UUID
	Status        *RoommateRequestStatus

	Page     int
	PageSize int
}
