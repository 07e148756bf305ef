package housing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateRoomInput is the input for creating a room
type CreateRoomInput struct {
	Number      string
	Block       string
	Floor       int
	Type        housing.RoomType
	Capacity    int
	MonthlyRent decimal.Decimal
	Gender      shared.Gender
	Amenities   []string
	Description string
}

// UpdateRoomInput carries optional room changes
type UpdateRoomInput struct {
	Block       *string
	Floor       *int
	Type        *housing.RoomType
	Capacity    *int
	MonthlyRent *decimal.Decimal
	Gender      *shared.Gender
	Amenities   []string
	Description *string
}

// ListRoomsInput filters the room list
type ListRoomsInput struct {
	Status        *housing.RoomStatus
	Type          *housing.RoomType
	Block         string
	Floor         *int
	Gender        *shared.Gender
	MinRent       *decimal.Decimal
	MaxRent       *decimal.Decimal
	AvailableOnly bool
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// RoomDTO is the API view of a room
type RoomDTO struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"number"`
	Block         string             `json:"block,omitempty"`
	Floor         int                `json:"floor"`
	Type          housing.RoomType   `json:"type"`
	Capacity      int                `json:"capacity"`
	Occupancy     int                `json:"occupancy"`
	AvailableBeds int                `json:"available_beds"`
	MonthlyRent   decimal.Decimal    `json:"monthly_rent"`
	Gender        shared.Gender      `json:"gender,omitempty"`
	Amenities     []string           `json:"amenities"`
	Description   string             `json:"description,omitempty"`
	Status        housing.RoomStatus `json:"status"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToRoomDTO converts a room to its DTO
func ToRoomDTO(r *housing.Room) RoomDTO {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return RoomDTO{
		ID:            r.ID,
		Number:        r.Number,
		Block:         r.Block,
		Floor:         r.Floor,
		Type:          r.Type,
		Capacity:      r.Capacity,
		Occupancy:     r.Occupancy,
		AvailableBeds: r.AvailableBeds(),
		MonthlyRent:   r.MonthlyRent,
		Gender:        r.Gender,
		Amenities:     amenities,
		Description:   r.Description,
		Status:        r.Status,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toRoomDTOs(rooms []*housing.Room) []RoomDTO {
	out := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		out[i] = ToRoomDTO(r)
	}
	return out
}

// CreateBookingInput is the input for creating a booking.
// StudentID is only honoured for admins; students always book for themselves.
type CreateBookingInput struct {
	StudentID uuid.UUID
	RoomID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Notes     string
}

// ListBookingsInput filters the booking list
type ListBookingsInput struct {
	StudentID *uuid.UUID
	RoomID    *uuid.UUID
	Status    *housing.BookingStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// BookingDTO is the API view of a booking
type BookingDTO struct {
	ID           uuid.UUID             `json:"id"`
	StudentID    uuid.UUID             `json:"student_id"`
	RoomID       uuid.UUID             `json:"room_id"`
	StartDate    time.Time             `json:"start_date"`
	EndDate      time.Time             `json:"end_date"`
	Status       housing.BookingStatus `json:"status"`
	Notes        string                `json:"notes,omitempty"`
	CancelReason string                `json:"cancel_reason,omitempty"`
	CancelledBy  *uuid.UUID            `json:"cancelled_by,omitempty"`
	ConfirmedAt  *time.Time            `json:"confirmed_at,omitempty"`
	CheckedInAt  *time.Time            `json:"checked_in_at,omitempty"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
	CancelledAt  *time.Time            `json:"cancelled_at,omitempty"`
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Room         *RoomDTO              `json:"room,omitempty"`
}

// ToBookingDTO converts a booking to its DTO
func ToBookingDTO(b *housing.Booking) BookingDTO {
	return BookingDTO{
		ID:           b.ID,
		StudentID:    b.StudentID,
		RoomID:       b.RoomID,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		Status:       b.Status,
		Notes:        b.Notes,
		CancelReason: b.CancelReason,
		CancelledBy:  b.CancelledBy,
		ConfirmedAt:  b.ConfirmedAt,
		CheckedInAt:  b.CheckedInAt,
		CompletedAt:  b.CompletedAt,
		CancelledAt:  b.CancelledAt,
		Version:      b.Version,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func toBookingDTOs(bookings []*housing.Booking) []BookingDTO {
	out := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		out[i] = ToBookingDTO(b)
	}
	return out
}

// SendRoommateRequestInput is the input for sending a roommate request
type SendRoommateRequestInput struct {
	TargetID uuid.UUID
	RoomID   *uuid.UUID
	Message  string
}

// ListRoommateRequestsInput filters roommate requests. Box selects "sent",
// "received" or both when empty.
type ListRoommateRequestsInput struct {
	Box      string
	Status   *housing.RoommateRequestStatus
	Page     int
	PageSize int
}

// RoommateRequestDTO is the API view of a roommate request
type RoommateRequestDTO struct {
	ID          uuid.UUID                     `json:"id"`
	RequesterID uuid.UUID                     `json:"requester_id"`
	TargetID    uuid.UUID                     `json:"target_id"`
	RoomID      *uuid.UUID                    `json:"room_id,omitempty"`
	Message     string                        `json:"message,omitempty"`
	Status      housing.RoommateRequestStatus `json:"status"`
	RespondedAt *time.Time                    `json:"responded_at,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
}

// ToRoommateRequestDTO converts a roommate request to its DTO
func ToRoommateRequestDTO(r *housing.RoommateRequest) RoommateRequestDTO {
	return RoommateRequestDTO{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		TargetID:    r.TargetID,
		RoomID:      r.RoomID,
		Message:     r.Message,
		Status:      r.Status,
		RespondedAt: r.RespondedAt,
		CreatedAt:   r.CreatedAt,
	}
}
