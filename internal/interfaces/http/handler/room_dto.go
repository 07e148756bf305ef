package handler

import (
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// CreateRoomRequest is the body for adding a room
type CreateRoomRequest struct {
	Number      string          `json:"number" binding:"required,min=1,max=20"`
	Block       string          `json:"block" binding:"omitempty,max=20"`
	Floor       int             `json:"floor" binding:"gte=0,lte=200"`
	Type        string          `json:"type" binding:"required,room_type"`
	Capacity    int             `json:"capacity" binding:"required,min=1,max=20"`
	MonthlyRent decimal.Decimal `json:"monthly_rent" swaggertype:"number"`
	Gender      string          `json:"gender" binding:"omitempty,gender"`
	Amenities   []string        `json:"amenities" binding:"omitempty,max=30,dive,min=1,max=50"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
}

// UpdateRoomRequest carries optional room changes
type UpdateRoomRequest struct {
	Block       *string          `json:"block" binding:"omitempty,max=20"`
	Floor       *int             `json:"floor" binding:"omitempty,gte=0,lte=200"`
	Type        *string          `json:"type" binding:"omitempty,room_type"`
	Capacity    *int             `json:"capacity" binding:"omitempty,min=1,max=20"`
	MonthlyRent *decimal.Decimal `json:"monthly_rent" swaggertype:"number"`
	Gender      *string          `json:"gender" binding:"omitempty,gender"`
	Amenities   []string         `json:"amenities" binding:"omitempty,max=30,dive,min=1,max=50"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
}

// MaintenanceRequest turns maintenance mode on or off
type MaintenanceRequest struct {
	On *bool `json:"on" binding:"required"`
}

// ListRoomsQuery filters the room list
type ListRoomsQuery struct {
	dto.ListRequest
	Status    string `form:"status" binding:"omitempty,oneof=AVAILABLE OCCUPIED MAINTENANCE"`
	Type      string `form:"type" binding:"omitempty,room_type"`
	Block     string `form:"block"`
	Floor     *int   `form:"floor" binding:"omitempty,gte=0"`
	Gender    string `form:"gender" binding:"omitempty,gender"`
	MinRent   string `form:"min_rent" binding:"omitempty,numeric"`
	MaxRent   string `form:"max_rent" binding:"omitempty,numeric"`
	Available bool   `form:"available"`
}
