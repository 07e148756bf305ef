package housing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errRoomNumberExists = shared.NewDomainError("ROOM_NUMBER_EXISTS", "A room with this number already exists")
	errRoomInUse        = shared.NewDomainError("ROOM_IN_USE", "Room has occupants or open bookings")
)

// RoomService manages the room inventory
type RoomService struct {
	roomRepo    housing.RoomRepository
	bookingRepo housing.BookingRepository
	publisher   shared.EventPublisher
	sanitizer   *common.Sanitizer
	logger      *zap.Logger
}

// NewRoomService creates a new RoomService
func NewRoomService(
	roomRepo housing.RoomRepository,
	bookingRepo housing.BookingRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		sanitizer:   common.NewSanitizer(),
		logger:      logger,
	}
}

// List returns a filtered page of rooms
func (s *RoomService) List(ctx context.Context, input ListRoomsInput) (*shared.Paginated[RoomDTO], error) {
	filter := housing.RoomFilter{
		Status:        input.Status,
		Type:          input.Type,
		Block:         input.Block,
		Floor:         input.Floor,
		Gender:        input.Gender,
		MinRent:       input.MinRent,
		MaxRent:       input.MaxRent,
		AvailableOnly: input.AvailableOnly,
		Keyword:       input.Search,
		Page:          input.Page,
		PageSize:      input.PageSize,
		SortBy:        input.SortBy,
		SortOrder:     input.SortOrder,
	}
	normalizePage(&filter.Page, &filter.PageSize)

	rooms, total, err := s.roomRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toRoomDTOs(rooms), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListAvailable returns rooms with at least one free bed
func (s *RoomService) ListAvailable(ctx context.Context, input ListRoomsInput) (*shared.Paginated[RoomDTO], error) {
	input.AvailableOnly = true
	input.Status = nil
	return s.List(ctx, input)
}

// Get returns a room by ID
func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*RoomDTO, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToRoomDTO(room)
	return &dto, nil
}

// Create adds a room. Room numbers are unique.
func (s *RoomService) Create(ctx context.Context, input CreateRoomInput) (*RoomDTO, error) {
	room, err := housing.NewRoom(input.Number, input.Block, input.Floor, input.Type, input.Capacity, input.MonthlyRent)
	if err != nil {
		return nil, err
	}
	exists, err := s.roomRepo.ExistsByNumber(ctx, room.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errRoomNumberExists
	}

	description := s.sanitizer.Text(input.Description)
	update := housing.RoomUpdate{Amenities: input.Amenities, Description: &description}
	if input.Gender != "" {
		update.Gender = &input.Gender
	}
	if err := room.Update(update); err != nil {
		return nil, err
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errRoomNumberExists
		}
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, room)

	s.logger.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("number", room.Number),
		zap.Int("capacity", room.Capacity))
	dto := ToRoomDTO(room)
	return &dto, nil
}

// Update changes room attributes. Capacity may not drop below the occupancy.
func (s *RoomService) Update(ctx context.Context, id uuid.UUID, input UpdateRoomInput) (*RoomDTO, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := room.Update(housing.RoomUpdate{
		Block:       input.Block,
		Floor:       input.Floor,
		Type:        input.Type,
		Capacity:    input.Capacity,
		MonthlyRent: input.MonthlyRent,
		Gender:      input.Gender,
		Amenities:   input.Amenities,
		Description: s.sanitizer.TextPtr(input.Description),
	}); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, room)

	s.logger.Info("Room updated", zap.String("room_id", room.ID.String()))
	dto := ToRoomDTO(room)
	return &dto, nil
}

// SetMaintenance takes a room out of service or returns it
func (s *RoomService) SetMaintenance(ctx context.Context, id uuid.UUID, on bool) (*RoomDTO, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if on {
		if err := room.StartMaintenance(); err != nil {
			return nil, err
		}
	} else {
		room.EndMaintenance()
	}
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, room)

	s.logger.Info("Room maintenance changed",
		zap.String("room_id", room.ID.String()),
		zap.String("status", string(room.Status)))
	dto := ToRoomDTO(room)
	return &dto, nil
}

// Delete removes a room without occupants or open bookings
func (s *RoomService) Delete(ctx context.Context, id uuid.UUID) error {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if room.Occupancy > 0 {
		return errRoomInUse
	}
	open, err := s.bookingRepo.CountOpenByRoom(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return errRoomInUse
	}
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Room deleted", zap.String("room_id", id.String()), zap.String("number", room.Number))
	return nil
}

// Bookings lists the bookings of one room
func (s *RoomService) Bookings(ctx context.Context, id uuid.UUID, input ListBookingsInput) (*shared.Paginated[BookingDTO], error) {
	if _, err := s.roomRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	input.RoomID = &id
	filter := bookingFilterOf(input)
	bookings, total, err := s.bookingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toBookingDTOs(bookings), total, filter.Page, filter.PageSize)
	return &page, nil
}

func normalizePage(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize < 1 {
		*pageSize = 20
	}
	if *pageSize > 100 {
		*pageSize = 100
	}
}

func bookingFilterOf(input ListBookingsInput) housing.BookingFilter {
	filter := housing.BookingFilter{
		StudentID: input.StudentID,
		RoomID:    input.RoomID,
		From:      input.From,
		To:        input.To,
		Page:      input.Page,
		PageSize:  input.PageSize,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	}
	if input.Status != nil {
		filter.Statuses = []housing.BookingStatus{*input.Status}
	}
	normalizePage(&filter.Page, &filter.PageSize)
	return filter
}
