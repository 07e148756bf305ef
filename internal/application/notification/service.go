package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errNoRecipients = shared.NewDomainError("INVALID_RECIPIENT", "Choose exactly one of user_id, role or all")

// Service stores notifications and pushes them to the configured channels
type Service struct {
	repo        notification.Repository
	userRepo    identity.UserRepository
	dispatchers []notification.Dispatcher
	sanitizer   *common.Sanitizer
	logger      *zap.Logger
}

// NewService creates a notification Service. Dispatchers receive every
// notification after it is stored; their failures are logged, not returned.
func NewService(repo notification.Repository, userRepo identity.UserRepository, logger *zap.Logger, dispatchers ...notification.Dispatcher) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		userRepo:    userRepo,
		dispatchers: dispatchers,
		sanitizer:   common.NewSanitizer(),
		logger:      logger,
	}
}

// List returns the actor's notifications, newest first
func (s *Service) List(ctx context.Context, actor shared.Actor, input ListInput) (*shared.Paginated[NotificationDTO], error) {
	filter := notification.Filter{
		UnreadOnly: input.UnreadOnly,
		Type:       input.Type,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	items, total, err := s.repo.FindByUser(ctx, actor.UserID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]NotificationDTO, len(items))
	for i, n := range items {
		dtos[i] = ToNotificationDTO(n)
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UnreadCount returns the number of unread notifications of the actor
func (s *Service) UnreadCount(ctx context.Context, actor shared.Actor) (int64, error) {
	return s.repo.CountUnread(ctx, actor.UserID)
}

// MarkRead marks one of the actor's notifications as read
func (s *Service) MarkRead(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, actor.UserID, id)
}

// MarkAllRead marks every unread notification of the actor as read
func (s *Service) MarkAllRead(ctx context.Context, actor shared.Actor) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("Notifications marked read",
		zap.String("user_id", actor.UserID.String()),
		zap.Int64("count", n))
	return n, nil
}

// Delete removes one of the actor's notifications
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return s.repo.Delete(ctx, actor.UserID, id)
}

// Send delivers an administrator message to a user, a role or everyone
func (s *Service) Send(ctx context.Context, input SendInput) (*SendResult, error) {
	selected := 0
	if input.UserID != nil {
		selected++
	}
	if input.Role != nil {
		selected++
	}
	if input.All {
		selected++
	}
	if selected != 1 {
		return nil, errNoRecipients
	}
	if input.Type == "" {
		input.Type = notification.TypeSystem
	}

	var recipients []uuid.UUID
	switch {
	case input.UserID != nil:
		if _, err := s.userRepo.FindByID(ctx, *input.UserID); err != nil {
			return nil, err
		}
		recipients = []uuid.UUID{*input.UserID}
	case input.Role != nil:
		if !input.Role.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or STUDENT")
		}
		ids, err := s.userRepo.FindIDsByRole(ctx, *input.Role)
		if err != nil {
			return nil, err
		}
		recipients = ids
	default:
		ids, err := s.userRepo.FindIDsByRole(ctx, "")
		if err != nil {
			return nil, err
		}
		recipients = ids
	}

	sent, err := s.Notify(ctx, recipients, input.Type,
		s.sanitizer.Text(input.Title), s.sanitizer.Text(input.Message), input.Link)
	if err != nil {
		return nil, err
	}
	return &SendResult{Recipients: sent}, nil
}

// NotifyRole notifies every active user with role
func (s *Service) NotifyRole(ctx context.Context, role shared.Role, t notification.Type, title, message, link string) (int, error) {
	ids, err := s.userRepo.FindIDsByRole(ctx, role)
	if err != nil {
		return 0, err
	}
	return s.Notify(ctx, ids, t, title, message, link)
}

// Notify stores one notification per recipient and dispatches them. It returns
// the number of notifications created.
func (s *Service) Notify(ctx context.Context, recipients []uuid.UUID, t notification.Type, title, message, link string) (int, error) {
	if len(recipients) == 0 {
		return 0, nil
	}
	seen := make(map[uuid.UUID]struct{}, len(recipients))
	batch := make([]*notification.Notification, 0, len(recipients))
	for _, id := range recipients {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		n, err := notification.New(id, t, title, message, link)
		if err != nil {
			return 0, err
		}
		batch = append(batch, n)
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return 0, err
	}
	s.dispatch(ctx, batch)

	s.logger.Debug("Notifications created",
		zap.String("type", string(t)),
		zap.Int("recipients", len(batch)))
	return len(batch), nil
}

func (s *Service) dispatch(ctx context.Context, batch []*notification.Notification) {
	for _, d := range s.dispatchers {
		for _, n := range batch {
			if err := d.Dispatch(ctx, n); err != nil {
				s.logger.Warn("Failed to dispatch notification",
					zap.String("notification_id", n.ID.String()),
					zap.Error(err))
			}
		}
	}
}
