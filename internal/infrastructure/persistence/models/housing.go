package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RoomModel is the persistence model for rooms
type RoomModel struct {
	AggregateModel
	Number      string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	Block       string           `gorm:"type:varchar(50);index"`
	Floor       int              `gorm:"not null;default:0"`
	Type        housing.RoomType `gorm:"type:varchar(20);not null;index"`
	Capacity    int              `gorm:"not null"`
	Occupancy   int              `gorm:"not null;default:0"`
	MonthlyRent decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Gender      shared.Gender    `gorm:"type:varchar(20)"`
	Amenities   datatypes.JSONSlice[string]
	Description string             `gorm:"type:text"`
	Status      housing.RoomStatus `gorm:"type:varchar(20);not null;index"`
}

func (RoomModel) TableName() string {
	return "rooms"
}

func (m *RoomModel) ToDomain() *housing.Room {
	amenities := make([]string, len(m.Amenities))
	copy(amenities, m.Amenities)
	return &housing.Room{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		Block:             m.Block,
		Floor:             m.Floor,
		Type:              m.Type,
		Capacity:          m.Capacity,
		Occupancy:         m.Occupancy,
		MonthlyRent:       m.MonthlyRent,
		Gender:            m.Gender,
		Amenities:         amenities,
		Description:       m.Description,
		Status:            m.Status,
	}
}

func RoomModelFromDomain(r *housing.Room) *RoomModel {
	m := &RoomModel{
		Number:      r.Number,
		Block:       r.Block,
		Floor:       r.Floor,
		Type:        r.Type,
		Capacity:    r.Capacity,
		Occupancy:   r.Occupancy,
		MonthlyRent: r.MonthlyRent,
		Gender:      r.Gender,
		Amenities:   datatypes.JSONSlice[string](r.Amenities),
		Description: r.Description,
		Status:      r.Status,
	}
	if m.Amenities == nil {
		m.Amenities = datatypes.JSONSlice[string]{}
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// BookingModel is the persistence model for bookings
type BookingModel struct {
	AggregateModel
	StudentID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	RoomID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	StartDate    datatypes.Date        `gorm:"not null;index"`
	EndDate      datatypes.Date        `gorm:"not null"`
	Status       housing.BookingStatus `gorm:"type:varchar(20);not null;index"`
	Notes        string                `gorm:"type:text"`
	CancelReason string                `gorm:"type:text"`
	CancelledBy  *uuid.UUID            `gorm:"type:uuid"`
	ConfirmedAt  *time.Time
	CheckedInAt  *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	Student      *UserModel `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT"`
	Room         *RoomModel `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT"`
}

func (BookingModel) TableName() string {
	return "bookings"
}

func (m *BookingModel) ToDomain() *housing.Booking {
	return &housing.Booking{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		StudentID:         m.StudentID,
		RoomID:            m.RoomID,
		StartDate:         valueobject.TruncateDay(time.Time(m.StartDate)),
		EndDate:           valueobject.TruncateDay(time.Time(m.EndDate)),
		Status:            m.Status,
		Notes:             m.Notes,
		CancelReason:      m.CancelReason,
		CancelledBy:       m.CancelledBy,
		ConfirmedAt:       m.ConfirmedAt,
		CheckedInAt:       m.CheckedInAt,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
	}
}

func BookingModelFromDomain(b *housing.Booking) *BookingModel {
	m := &BookingModel{
		StudentID:    b.StudentID,
		RoomID:       b.RoomID,
		StartDate:    datatypes.Date(valueobject.TruncateDay(b.StartDate)),
		EndDate:      datatypes.Date(valueobject.TruncateDay(b.EndDate)),
		Status:       b.Status,
		Notes:        b.Notes,
		CancelReason: b.CancelReason,
		CancelledBy:  b.CancelledBy,
		ConfirmedAt:  utc(b.ConfirmedAt),
		CheckedInAt:  utc(b.CheckedInAt),
		CompletedAt:  utc(b.CompletedAt),
		CancelledAt:  utc(b.CancelledAt),
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// RoommateRequestModel is the persistence model for roommate requests
type RoommateRequestModel struct {
	AggregateModel
	RequesterID uuid.UUID                     `gorm:"type:uuid;not null;index"`
	TargetID    uuid.UUID                     `gorm:"type:uuid;not null;index"`
	RoomID      *uuid.UUID                    `gorm:"type:uuid"`
	Message     string                        `gorm:"type:text"`
	Status      housing.RoommateRequestStatus `gorm:"type:varchar(20);not null;index"`
	RespondedAt *time.Time
	Requester   *UserModel `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	Target      *UserModel `gorm:"foreignKey:TargetID;constraint:OnDelete:CASCADE"`
}

func (RoommateRequestModel) TableName() string {
	return "roommate_requests"
}

func (m *RoommateRequestModel) ToDomain() *housing.RoommateRequest {
	return &housing.RoommateRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		RequesterID:       m.RequesterID,
		TargetID:          m.TargetID,
		RoomID:            m.RoomID,
		Message:           m.Message,
		Status:            m.Status,
		RespondedAt:       m.RespondedAt,
	}
}

func RoommateRequestModelFromDomain(r *housing.RoommateRequest) *RoommateRequestModel {
	m := &RoommateRequestModel{
		RequesterID: r.RequesterID,
		TargetID:    r.TargetID,
		RoomID:      r.RoomID,
		Message:     r.Message,
		Status:      r.Status,
		RespondedAt: utc(r.RespondedAt),
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}
