package welfare

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"go.uber.org/zap"
)

var errLeaveOverlap = shared.NewDomainError("LEAVE_OVERLAP", "You already have a pending or approved leave covering these dates")

// LeaveService handles leave applications and their review
type LeaveService struct {
	leaveRepo welfare.LeaveRepository
	txScope   common.TransactionScope
	publisher shared.EventPublisher
	sanitizer *common.Sanitizer
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(
	leaveRepo welfare.LeaveRepository,
	txScope common.TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{
		leaveRepo: leaveRepo,
		txScope:   txScope,
		publisher: publisher,
		sanitizer: common.NewSanitizer(),
		logger:    logger,
		now:       time.Now,
	}
}

// Apply files a leave application for the actor
func (s *LeaveService) Apply(ctx context.Context, actor shared.Actor, input ApplyLeaveInput) (*LeaveDTO, error) {
	leave, err := welfare.NewLeaveApplication(actor.UserID, input.FromDate, input.ToDate,
		s.sanitizer.Text(input.Reason),
		s.sanitizer.Text(input.Destination),
		input.ContactPhone)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		student, err := repos.Users().FindByID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if student.Role != shared.RoleStudent {
			return shared.NewDomainError("INVALID_STUDENT", "Only students can apply for leave")
		}
		overlapping, err := repos.Leaves().ExistsOverlapping(ctx, actor.UserID, leave.FromDate, leave.ToDate)
		if err != nil {
			return err
		}
		if overlapping {
			return errLeaveOverlap
		}
		return repos.Leaves().Create(ctx, leave)
	})
	if err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, leave)

	s.logger.Info("Leave requested",
		zap.String("leave_id", leave.ID.String()),
		zap.String("student_id", actor.UserID.String()),
		zap.Time("from", leave.FromDate),
		zap.Time("to", leave.ToDate))
	dto := ToLeaveDTO(leave)
	return &dto, nil
}

// Cancel withdraws the actor's own application
func (s *LeaveService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*LeaveDTO, error) {
	leave, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := leave.Cancel(actor.UserID, s.now()); err != nil {
		return nil, err
	}
	if err := s.leaveRepo.Update(ctx, leave); err != nil {
		return nil, err
	}
	s.logger.Info("Leave cancelled", zap.String("leave_id", id.String()))
	dto := ToLeaveDTO(leave)
	return &dto, nil
}

// Review approves or rejects a PENDING application
func (s *LeaveService) Review(ctx context.Context, reviewer shared.Actor, id uuid.UUID, approve bool, note string) (*LeaveDTO, error) {
	leave, err := s.leaveRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	note = s.sanitizer.Text(note)
	if approve {
		err = leave.Approve(reviewer.UserID, note)
	} else {
		err = leave.Reject(reviewer.UserID, note)
	}
	if err != nil {
		return nil, err
	}
	if err := s.leaveRepo.Update(ctx, leave); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, leave)

	s.logger.Info("Leave reviewed",
		zap.String("leave_id", id.String()),
		zap.String("status", string(leave.Status)),
		zap.String("reviewer_id", reviewer.UserID.String()))
	dto := ToLeaveDTO(leave)
	return &dto, nil
}

// Approve accepts a PENDING application
func (s *LeaveService) Approve(ctx context.Context, reviewer shared.Actor, id uuid.UUID, note string) (*LeaveDTO, error) {
	return s.Review(ctx, reviewer, id, true, note)
}

// Reject declines a PENDING application
func (s *LeaveService) Reject(ctx context.Context, reviewer shared.Actor, id uuid.UUID, note string) (*LeaveDTO, error) {
	return s.Review(ctx, reviewer, id, false, note)
}

// Get returns an application visible to the actor
func (s *LeaveService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*LeaveDTO, error) {
	leave, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	dto := ToLeaveDTO(leave)
	return &dto, nil
}

// List returns applications newest first. Students only see their own.
func (s *LeaveService) List(ctx context.Context, actor shared.Actor, input ListLeavesInput) (*shared.Paginated[LeaveDTO], error) {
	filter := welfare.LeaveFilter{
		StudentID: input.StudentID,
		Status:    input.Status,
		ActiveOn:  input.ActiveOn,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}
	if !actor.IsAdmin() {
		own := actor.UserID
		filter.StudentID = &own
	}
	normalizePage(&filter.Page, &filter.PageSize)

	leaves, total, err := s.leaveRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]LeaveDTO, len(leaves))
	for i, l := range leaves {
		items[i] = ToLeaveDTO(l)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *LeaveService) load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*welfare.LeaveApplication, error) {
	leave, err := s.leaveRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(leave.StudentID) {
		return nil, shared.ErrForbidden
	}
	return leave, nil
}
