package community

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errAlreadyRegistered = shared.NewDomainError("EVENT_ALREADY_REGISTERED", "You are already registered for this event")
	errNotRegistered     = shared.NewDomainError("EVENT_NOT_REGISTERED", "You are not registered for this event")
)

// EventService schedules hostel events and manages registrations
type EventService struct {
	eventRepo community.EventRepository
	userRepo  identity.UserRepository
	txScope   common.TransactionScope
	publisher shared.EventPublisher
	sanitizer *common.Sanitizer
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo community.EventRepository,
	userRepo identity.UserRepository,
	txScope common.TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		txScope:   txScope,
		publisher: publisher,
		sanitizer: common.NewSanitizer(),
		logger:    logger,
		now:       time.Now,
	}
}

// Create schedules an event
func (s *EventService) Create(ctx context.Context, actor shared.Actor, input CreateEventInput) (*EventDTO, error) {
	event, err := community.NewEvent(actor.UserID,
		s.sanitizer.Text(input.Title),
		s.sanitizer.Body(input.Description),
		s.sanitizer.Text(input.Location),
		input.StartsAt, input.EndsAt, input.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, event)

	s.logger.Info("Event scheduled",
		zap.String("event_id", event.ID.String()),
		zap.Time("starts_at", event.StartsAt),
		zap.Int("capacity", event.Capacity))
	dto := ToEventDTO(event, 0, false)
	return &dto, nil
}

// Update changes a scheduled event
func (s *EventService) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventDTO, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	registered, err := s.eventRepo.CountRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := event.Update(community.EventUpdate{
		Title:       s.sanitizer.TextPtr(input.Title),
		Description: s.sanitizer.BodyPtr(input.Description),
		Location:    s.sanitizer.TextPtr(input.Location),
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Capacity:    input.Capacity,
	}, int(registered)); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	dto := ToEventDTO(event, registered, false)
	return &dto, nil
}

// Cancel calls off a scheduled event. Registrations are kept for the record.
func (s *EventService) Cancel(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := event.Cancel(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, event)

	registered, err := s.eventRepo.CountRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Event cancelled",
		zap.String("event_id", id.String()),
		zap.Int64("registrations", registered))
	dto := ToEventDTO(event, registered, false)
	return &dto, nil
}

// Delete removes an event together with its registrations
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Event deleted", zap.String("event_id", id.String()))
	return nil
}

// Get returns one event with the actor's registration flag
func (s *EventService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*EventDTO, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	registered, err := s.eventRepo.CountRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}
	mine, err := s.eventRepo.IsRegistered(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	dto := ToEventDTO(event, registered, mine)
	return &dto, nil
}

// List returns events soonest first with registration counts
func (s *EventService) List(ctx context.Context, actor shared.Actor, input ListEventsInput) (*shared.Paginated[EventDTO], error) {
	filter := community.EventFilter{
		Status:       input.Status,
		UpcomingOnly: input.UpcomingOnly,
		Now:          s.now(),
		Keyword:      input.Search,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	events, total, err := s.eventRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	counts := map[uuid.UUID]int64{}
	mine := map[uuid.UUID]bool{}
	if len(ids) > 0 {
		if counts, err = s.eventRepo.CountRegistrationsByEvents(ctx, ids); err != nil {
			return nil, err
		}
		if mine, err = s.eventRepo.RegisteredEventIDs(ctx, actor.UserID, ids); err != nil {
			return nil, err
		}
	}

	items := make([]EventDTO, len(events))
	for i, e := range events {
		items[i] = ToEventDTO(e, counts[e.ID], mine[e.ID])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Register signs the actor up. The event row is locked so that concurrent
// registrations cannot overfill it.
func (s *EventService) Register(ctx context.Context, actor shared.Actor, id uuid.UUID) (*EventDTO, error) {
	if !actor.IsStudent() {
		return nil, shared.ErrStudentOnly
	}
	var (
		event      *community.Event
		registered int64
	)
	err := s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		var err error
		event, err = repos.Events().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		already, err := repos.Events().IsRegistered(ctx, id, actor.UserID)
		if err != nil {
			return err
		}
		if already {
			return errAlreadyRegistered
		}
		registered, err = repos.Events().CountRegistrations(ctx, id)
		if err != nil {
			return err
		}
		if err := event.CanRegister(int(registered), s.now()); err != nil {
			return err
		}
		err = repos.Events().AddRegistration(ctx, &community.Registration{
			EventID:      id,
			UserID:       actor.UserID,
			RegisteredAt: s.now(),
		})
		if errors.Is(err, shared.ErrAlreadyExists) {
			return errAlreadyRegistered
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Event registration added",
		zap.String("event_id", id.String()),
		zap.String("user_id", actor.UserID.String()))
	dto := ToEventDTO(event, registered+1, true)
	return &dto, nil
}

// Unregister withdraws the actor from an event that has not started
func (s *EventService) Unregister(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	registered, err := s.eventRepo.IsRegistered(ctx, id, actor.UserID)
	if err != nil {
		return err
	}
	if !registered {
		return errNotRegistered
	}
	if event.Status == community.EventStatusScheduled && !event.StartsAt.After(s.now()) {
		return shared.NewDomainError("EVENT_STARTED", "Event has already started")
	}
	if err := s.eventRepo.RemoveRegistration(ctx, id, actor.UserID); err != nil {
		return err
	}
	s.logger.Info("Event registration removed",
		zap.String("event_id", id.String()),
		zap.String("user_id", actor.UserID.String()))
	return nil
}

// Attendees lists everyone registered for an event
func (s *EventService) Attendees(ctx context.Context, id uuid.UUID) ([]AttendeeDTO, error) {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	regs, err := s.eventRepo.ListRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(regs))
	for i, r := range regs {
		ids[i] = r.UserID
	}
	users := map[uuid.UUID]*identity.User{}
	if len(ids) > 0 {
		found, err := s.userRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	out := make([]AttendeeDTO, len(regs))
	for i, r := range regs {
		out[i] = AttendeeDTO{UserID: r.UserID, RegisteredAt: r.RegisteredAt}
		if u, ok := users[r.UserID]; ok {
			out[i].Name = u.Name
			out[i].Email = u.Email
		}
	}
	return out, nil
}

// CompleteEnded marks scheduled events that ended before now as completed
func (s *EventService) CompleteEnded(ctx context.Context, now time.Time) (int, error) {
	events, err := s.eventRepo.FindScheduledEndedBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, e := range events {
		if err := e.Complete(); err != nil {
			continue
		}
		if err := s.eventRepo.Update(ctx, e); err != nil {
			s.logger.Warn("Failed to complete event",
				zap.String("event_id", e.ID.String()),
				zap.Error(err))
			continue
		}
		done++
	}
	if done > 0 {
		s.logger.Info("Completed ended events", zap.Int("count", done))
	}
	return done, nil
}
