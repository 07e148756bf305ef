package housing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

var (
	errBookingActiveExists = shared.NewDomainError("BOOKING_ACTIVE_EXISTS", "Student already has an open booking")
	errGenderMismatch      = shared.NewDomainError("ROOM_GENDER_MISMATCH", "Room is reserved for a different gender")
	errNotAStudent         = shared.NewDomainError("INVALID_STUDENT", "Bookings can only be made for active students")
	errCheckedInCancel     = shared.NewDomainError("BOOKING_INVALID_TRANSITION", "Only an administrator can cancel a checked-in booking")
)

// expiredReason is recorded on bookings cancelled by the pending expiry job
const expiredReason = "Not confirmed in time"

// BookingServiceConfig holds booking lifecycle settings
type BookingServiceConfig struct {
	// PendingTTL is how long a booking may wait for confirmation. Zero disables expiry.
	PendingTTL time.Duration
}

// BookingService runs the booking lifecycle. Every transition that changes
// room occupancy runs in one transaction with the room row locked.
type BookingService struct {
	bookingRepo housing.BookingRepository
	roomRepo    housing.RoomRepository
	userRepo    identity.UserRepository
	txScope     common.TransactionScope
	publisher   shared.EventPublisher
	config      BookingServiceConfig
	logger      *zap.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo housing.BookingRepository,
	roomRepo housing.RoomRepository,
	userRepo identity.UserRepository,
	txScope common.TransactionScope,
	publisher shared.EventPublisher,
	config BookingServiceConfig,
	logger *zap.Logger,
) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		txScope:     txScope,
		publisher:   publisher,
		config:      config,
		logger:      logger,
	}
}

// Create requests a bed. Students always book for themselves.
func (s *BookingService) Create(ctx context.Context, actor shared.Actor, input CreateBookingInput) (*BookingDTO, error) {
	studentID := actor.UserID
	if actor.IsAdmin() && input.StudentID != uuid.Nil {
		studentID = input.StudentID
	}

	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != shared.RoleStudent || student.Status == identity.UserStatusInactive {
		return nil, errNotAStudent
	}

	open, err := s.bookingRepo.ExistsOpenForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, errBookingActiveExists
	}

	room, err := s.roomRepo.FindByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	if err := room.AcceptsBookings(); err != nil {
		return nil, err
	}
	if !room.Gender.Admits(student.Gender) {
		return nil, errGenderMismatch
	}

	booking, err := housing.NewBooking(studentID, room.ID, input.StartDate, input.EndDate, input.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// the partial unique index on open bookings catches concurrent requests
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errBookingActiveExists
		}
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, booking)

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("room_id", room.ID.String()))
	return bookingWithRoom(booking, room), nil
}

// Confirm moves a PENDING booking to CONFIRMED and takes a bed
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	var booking *housing.Booking
	var room *housing.Room
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		b, err := repos.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		r, err := repos.Rooms().FindByIDForUpdate(ctx, b.RoomID)
		if err != nil {
			return err
		}
		if err := b.Confirm(); err != nil {
			return err
		}
		if err := r.ReserveSeat(); err != nil {
			return err
		}
		if err := repos.Rooms().Update(ctx, r); err != nil {
			return err
		}
		if err := repos.Bookings().Update(ctx, b); err != nil {
			return err
		}
		booking, room = b, r
		return nil
	})
	if err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, booking, room)

	s.logger.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", room.ID.String()),
		zap.Int("occupancy", room.Occupancy))
	return bookingWithRoom(booking, room), nil
}

// CheckIn moves a CONFIRMED booking to ACTIVE
func (s *BookingService) CheckIn(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := booking.CheckIn(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, booking)

	s.logger.Info("Booking checked in", zap.String("booking_id", booking.ID.String()))
	dto := ToBookingDTO(booking)
	return &dto, nil
}

// Complete moves an ACTIVE booking to COMPLETED and frees the bed
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	var booking *housing.Booking
	var room *housing.Room
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		b, err := repos.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := b.Complete(); err != nil {
			return err
		}
		r, err := releaseSeat(ctx, repos, b.RoomID)
		if err != nil {
			return err
		}
		if err := repos.Bookings().Update(ctx, b); err != nil {
			return err
		}
		booking, room = b, r
		return nil
	})
	if err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, booking, room)

	s.logger.Info("Booking completed", zap.String("booking_id", booking.ID.String()))
	return bookingWithRoom(booking, room), nil
}

// Cancel cancels a booking and frees its bed when it held one.
// Students may cancel their own booking until check-in.
func (s *BookingService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*BookingDTO, error) {
	var booking *housing.Booking
	var room *housing.Room
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		b, err := repos.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !b.CanBeCancelledBy(actor) {
			if actor.UserID != b.StudentID {
				return shared.ErrForbidden
			}
			if b.Status == housing.BookingStatusActive {
				return errCheckedInCancel
			}
		}
		heldSeat, err := b.Cancel(actor.UserID, reason)
		if err != nil {
			return err
		}
		if heldSeat {
			if room, err = releaseSeat(ctx, repos, b.RoomID); err != nil {
				return err
			}
		}
		if err := repos.Bookings().Update(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, booking, room)

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("by", actor.UserID.String()),
		zap.Bool("seat_released", room != nil))
	dto := ToBookingDTO(booking)
	return &dto, nil
}

// Current returns the student's open booking, or nil when there is none
func (s *BookingService) Current(ctx context.Context, actor shared.Actor, studentID uuid.UUID) (*BookingDTO, error) {
	if !actor.CanAccess(studentID) {
		return nil, shared.ErrForbidden
	}
	booking, err := s.bookingRepo.FindOpenByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	room, err := s.roomRepo.FindByID(ctx, booking.RoomID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return bookingWithRoom(booking, room), nil
}

// List returns bookings. Students only see their own.
func (s *BookingService) List(ctx context.Context, actor shared.Actor, input ListBookingsInput) (*shared.Paginated[BookingDTO], error) {
	if !actor.IsAdmin() {
		input.StudentID = &actor.UserID
	}
	filter := bookingFilterOf(input)
	bookings, total, err := s.bookingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toBookingDTOs(bookings), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one booking with its room
func (s *BookingService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(booking.StudentID) {
		return nil, shared.ErrForbidden
	}
	room, err := s.roomRepo.FindByID(ctx, booking.RoomID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return bookingWithRoom(booking, room), nil
}

// ExpirePending cancels PENDING bookings older than the configured TTL
func (s *BookingService) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	if s.config.PendingTTL <= 0 {
		return 0, nil
	}
	stale, err := s.bookingRepo.FindPendingCreatedBefore(ctx, now.Add(-s.config.PendingTTL))
	if err != nil {
		return 0, err
	}
	done := 0
	for _, b := range stale {
		if _, err := s.Cancel(ctx, shared.SystemActor, b.ID, expiredReason); err != nil {
			s.logger.Warn("Failed to expire pending booking", zap.String("booking_id", b.ID.String()), zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

// ActivateStarting checks in CONFIRMED bookings whose start date has arrived
func (s *BookingService) ActivateStarting(ctx context.Context, now time.Time) (int, error) {
	due, err := s.bookingRepo.FindConfirmedStartingBy(ctx, valueobject.TruncateDay(now))
	if err != nil {
		return 0, err
	}
	done := 0
	for _, b := range due {
		if _, err := s.CheckIn(ctx, b.ID); err != nil {
			s.logger.Warn("Failed to activate booking", zap.String("booking_id", b.ID.String()), zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

// CompleteEnded completes ACTIVE bookings whose end date has passed
func (s *BookingService) CompleteEnded(ctx context.Context, now time.Time) (int, error) {
	ended, err := s.bookingRepo.FindActiveEndedBefore(ctx, valueobject.TruncateDay(now))
	if err != nil {
		return 0, err
	}
	done := 0
	for _, b := range ended {
		if _, err := s.Complete(ctx, b.ID); err != nil {
			s.logger.Warn("Failed to complete booking", zap.String("booking_id", b.ID.String()), zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

func (s *BookingService) publish(ctx context.Context, booking *housing.Booking, room *housing.Room) {
	if room != nil {
		common.PublishEvents(ctx, s.publisher, s.logger, booking, room)
		return
	}
	common.PublishEvents(ctx, s.publisher, s.logger, booking)
}

func releaseSeat(ctx context.Context, repos common.TransactionalRepositories, roomID uuid.UUID) (*housing.Room, error) {
	room, err := repos.Rooms().FindByIDForUpdate(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := room.ReleaseSeat(); err != nil {
		return nil, err
	}
	if err := repos.Rooms().Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func bookingWithRoom(b *housing.Booking, r *housing.Room) *BookingDTO {
	dto := ToBookingDTO(b)
	if r != nil {
		room := ToRoomDTO(r)
		dto.Room = &room
	}
	return &dto
}
