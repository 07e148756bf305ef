package community

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NoticeService publishes announcements and filters them by audience
type NoticeService struct {
	noticeRepo community.NoticeRepository
	publisher  shared.EventPublisher
	sanitizer  *common.Sanitizer
	logger     *zap.Logger
	now        func() time.Time
}

// NewNoticeService creates a new NoticeService
func NewNoticeService(noticeRepo community.NoticeRepository, publisher shared.EventPublisher, logger *zap.Logger) *NoticeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{
		noticeRepo: noticeRepo,
		publisher:  publisher,
		sanitizer:  common.NewSanitizer(),
		logger:     logger,
		now:        time.Now,
	}
}

// Create publishes a notice. Content keeps safe formatting markup.
func (s *NoticeService) Create(ctx context.Context, actor shared.Actor, input CreateNoticeInput) (*NoticeDTO, error) {
	notice, err := community.NewNotice(actor.UserID,
		s.sanitizer.Text(input.Title),
		s.sanitizer.Body(input.Content),
		input.Audience, input.Priority, input.Pinned, input.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, notice)

	s.logger.Info("Notice published",
		zap.String("notice_id", notice.ID.String()),
		zap.String("audience", string(notice.Audience)),
		zap.String("priority", string(notice.Priority)))
	dto := ToNoticeDTO(notice, s.now())
	return &dto, nil
}

// Update changes a notice
func (s *NoticeService) Update(ctx context.Context, id uuid.UUID, input UpdateNoticeInput) (*NoticeDTO, error) {
	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := notice.Update(community.NoticeUpdate{
		Title:        s.sanitizer.TextPtr(input.Title),
		Content:      s.sanitizer.BodyPtr(input.Content),
		Audience:     input.Audience,
		Priority:     input.Priority,
		Pinned:       input.Pinned,
		ExpiresAt:    input.ExpiresAt,
		ClearExpires: input.ClearExpires,
	}); err != nil {
		return nil, err
	}
	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, err
	}
	dto := ToNoticeDTO(notice, s.now())
	return &dto, nil
}

// Delete removes a notice
func (s *NoticeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.noticeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.noticeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Notice deleted", zap.String("notice_id", id.String()))
	return nil
}

// Get returns a notice the actor may read
func (s *NoticeService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*NoticeDTO, error) {
	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !actor.IsAdmin() && !notice.VisibleTo(actor.Role, now) {
		return nil, shared.ErrNotFound
	}
	dto := ToNoticeDTO(notice, now)
	return &dto, nil
}

// List returns notices visible to the actor's role, pinned first then newest.
// Administrators may pick another audience and include expired notices.
func (s *NoticeService) List(ctx context.Context, actor shared.Actor, input ListNoticesInput) (*shared.Paginated[NoticeDTO], error) {
	now := s.now()
	filter := community.NoticeFilter{
		Priority: input.Priority,
		Keyword:  input.Search,
		Now:      now,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	filter.Audiences = community.VisibleAudiences(actor.Role)
	if actor.IsAdmin() {
		filter.IncludeExpired = input.IncludeExpired
		if input.Audience != nil {
			filter.Audiences = []community.Audience{*input.Audience}
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	notices, total, err := s.noticeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]NoticeDTO, len(notices))
	for i, n := range notices {
		items[i] = ToNoticeDTO(n, now)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
