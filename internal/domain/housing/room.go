package housing

import (
	"strings"

	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RoomType classifies rooms by layout
type RoomType string

const (
	RoomTypeSingle    RoomType = "SINGLE"
	RoomTypeDouble    RoomType = "DOUBLE"
	RoomTypeTriple    RoomType = "TRIPLE"
	RoomTypeDormitory RoomType = "DORMITORY"
)

func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeTriple, RoomTypeDormitory:
		return true
	}
	return false
}

// DefaultCapacity returns the usual number of beds for the room type
func (t RoomType) DefaultCapacity() int {
	switch t {
	case RoomTypeSingle:
		return 1
	case RoomTypeDouble:
		return 2
	case RoomTypeTriple:
		return 3
	default:
		return 6
	}
}

// RoomStatus is derived from occupancy except for MAINTENANCE, which is set by staff
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

func (s RoomStatus) IsValid() bool {
	return s == RoomStatusAvailable || s == RoomStatusOccupied || s == RoomStatusMaintenance
}

// MaxRoomCapacity bounds the number of beds in one room
const MaxRoomCapacity = 20

// Room is a bookable unit of the hostel.
// Invariant: 0 <= Occupancy <= Capacity, and Status is OCCUPIED exactly when
// Occupancy == Capacity outside maintenance.
type Room struct {
	shared.BaseAggregateRoot
	Number      string
	Block       string
	Floor       int
	Type        RoomType
	Capacity    int
	Occupancy   int
	MonthlyRent decimal.Decimal
	Gender      shared.Gender
	Amenities   []string
	Description string
	Status      RoomStatus
}

// NewRoom creates an empty, available room
func NewRoom(number, block string, floor int, roomType RoomType, capacity int, monthlyRent decimal.Decimal) (*Room, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number cannot be empty")
	}
	if len(number) > 20 {
		return nil, shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number cannot exceed 20 characters")
	}
	if !roomType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROOM_TYPE", "Room type must be SINGLE, DOUBLE, TRIPLE or DORMITORY")
	}
	if capacity == 0 {
		capacity = roomType.DefaultCapacity()
	}
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}
	if err := validateRent(monthlyRent); err != nil {
		return nil, err
	}
	if floor < 0 || floor > 200 {
		return nil, shared.NewDomainError("INVALID_FLOOR", "Floor must be between 0 and 200")
	}

	room := &Room{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Block:             strings.ToUpper(strings.TrimSpace(block)),
		Floor:             floor,
		Type:              roomType,
		Capacity:          capacity,
		MonthlyRent:       monthlyRent,
		Amenities:         []string{},
		Status:            RoomStatusAvailable,
	}
	room.RecordEvent(NewRoomChangedEvent(EventTypeRoomCreated, room))
	return room, nil
}

// RoomUpdate carries optional changes; nil fields are left untouched
type RoomUpdate struct {
	Block       *string
	Floor       *int
	Type        *RoomType
	Capacity    *int
	MonthlyRent *decimal.Decimal
	Gender      *shared.Gender
	Amenities   []string
	Description *string
}

// Update applies a RoomUpdate. Capacity may not drop below the current occupancy.
func (r *Room) Update(u RoomUpdate) error {
	if u.Type != nil {
		if !u.Type.IsValid() {
			return shared.NewDomainError("INVALID_ROOM_TYPE", "Room type must be SINGLE, DOUBLE, TRIPLE or DORMITORY")
		}
		r.Type = *u.Type
	}
	if u.Capacity != nil {
		if err := validateCapacity(*u.Capacity); err != nil {
			return err
		}
		if *u.Capacity < r.Occupancy {
			return shared.NewDomainError("ROOM_CAPACITY_BELOW_OCCUPANCY", "Capacity cannot be lower than the current occupancy")
		}
		r.Capacity = *u.Capacity
	}
	if u.MonthlyRent != nil {
		if err := validateRent(*u.MonthlyRent); err != nil {
			return err
		}
		r.MonthlyRent = *u.MonthlyRent
	}
	if u.Gender != nil {
		if !u.Gender.IsValid() || *u.Gender == shared.GenderOther {
			return shared.NewDomainError("INVALID_GENDER", "Room gender must be MALE, FEMALE or MIXED")
		}
		r.Gender = *u.Gender
	}
	if u.Block != nil {
		r.Block = strings.ToUpper(strings.TrimSpace(*u.Block))
	}
	if u.Floor != nil {
		if *u.Floor < 0 || *u.Floor > 200 {
			return shared.NewDomainError("INVALID_FLOOR", "Floor must be between 0 and 200")
		}
		r.Floor = *u.Floor
	}
	if u.Amenities != nil {
		r.Amenities = normalizeAmenities(u.Amenities)
	}
	if u.Description != nil {
		r.Description = strings.TrimSpace(*u.Description)
	}

	r.refreshStatus()
	r.Touch()
	r.RecordEvent(NewRoomChangedEvent(EventTypeRoomUpdated, r))
	return nil
}

// ReserveSeat takes one bed for a confirmed booking
func (r *Room) ReserveSeat() error {
	if r.Status == RoomStatusMaintenance {
		return shared.NewDomainError("ROOM_UNAVAILABLE", "Room is under maintenance")
	}
	if r.Occupancy >= r.Capacity {
		return shared.NewDomainError("ROOM_FULL", "Room has no free beds")
	}
	r.Occupancy++
	r.refreshStatus()
	r.Touch()
	return nil
}

// ReleaseSeat frees one bed
func (r *Room) ReleaseSeat() error {
	if r.Occupancy <= 0 {
		return shared.NewDomainError("ROOM_OCCUPANCY_UNDERFLOW", "Room has no occupied beds to release")
	}
	r.Occupancy--
	r.refreshStatus()
	r.Touch()
	return nil
}

// StartMaintenance takes an empty room out of service
func (r *Room) StartMaintenance() error {
	if r.Status == RoomStatusMaintenance {
		return nil
	}
	if r.Occupancy > 0 {
		return shared.NewDomainError("ROOM_OCCUPIED", "Cannot put an occupied room under maintenance")
	}
	r.Status = RoomStatusMaintenance
	r.Touch()
	r.RecordEvent(NewRoomChangedEvent(EventTypeRoomStatusChanged, r))
	return nil
}

// EndMaintenance returns the room to service
func (r *Room) EndMaintenance() {
	if r.Status != RoomStatusMaintenance {
		return
	}
	r.Status = RoomStatusAvailable
	r.refreshStatus()
	r.Touch()
	r.RecordEvent(NewRoomChangedEvent(EventTypeRoomStatusChanged, r))
}

// AcceptsBookings reports whether a new booking may target this room
func (r *Room) AcceptsBookings() error {
	if r.Status == RoomStatusMaintenance {
		return shared.NewDomainError("ROOM_UNAVAILABLE", "Room is under maintenance")
	}
	if r.Occupancy >= r.Capacity {
		return shared.NewDomainError("ROOM_FULL", "Room has no free beds")
	}
	return nil
}

// AvailableBeds returns the number of free beds
func (r *Room) AvailableBeds() int {
	if r.Status == RoomStatusMaintenance {
		return 0
	}
	return r.Capacity - r.Occupancy
}

// OccupancyRate returns occupied beds as a fraction of capacity
func (r *Room) OccupancyRate() float64 {
	if r.Capacity == 0 {
		return 0
	}
	return float64(r.Occupancy) / float64(r.Capacity)
}

func (r *Room) refreshStatus() {
	if r.Status == RoomStatusMaintenance {
		return
	}
	if r.Occupancy >= r.Capacity {
		r.Status = RoomStatusOccupied
	} else {
		r.Status = RoomStatusAvailable
	}
}

func validateCapacity(capacity int) error {
	if capacity < 1 || capacity > MaxRoomCapacity {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be between 1 and 20")
	}
	return nil
}

func validateRent(rent decimal.Decimal) error {
	if rent.IsNegative() {
		return shared.NewDomainError("INVALID_RENT", "Monthly rent cannot be negative")
	}
	return nil
}

func normalizeAmenities(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
