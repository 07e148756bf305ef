package bulkapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	financeapp "github.com/hostelhub/backend/internal/application/finance"
	housingapp "github.com/hostelhub/backend/internal/application/housing"
	identityapp "github.com/hostelhub/backend/internal/application/identity"
	welfareapp "github.com/hostelhub/backend/internal/application/welfare"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserActions is the part of the user service bulk actions drive
type UserActions interface {
	Create(ctx context.Context, input identityapp.CreateUserInput) (*identityapp.UserDTO, error)
	SetStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, active bool) (*identityapp.UserDTO, error)
}

// RoomActions is the part of the room service bulk actions drive
type RoomActions interface {
	Create(ctx context.Context, input housingapp.CreateRoomInput) (*housingapp.RoomDTO, error)
}

// BookingActions is the part of the booking service bulk actions drive
type BookingActions interface {
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*housingapp.BookingDTO, error)
}

// PaymentActions is the part of the payment service bulk actions drive
type PaymentActions interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status finance.PaymentStatus, method finance.PaymentMethod, reference, notes string) (*financeapp.PaymentDTO, error)
	GenerateRent(ctx context.Context, month string) (*bulk.Result, error)
}

// LeaveActions is the part of the leave service bulk actions drive
type LeaveActions interface {
	Review(ctx context.Context, reviewer shared.Actor, id uuid.UUID, approve bool, note string) (*welfareapp.LeaveDTO, error)
}

// Notifier creates notifications for a list of users
type Notifier interface {
	Notify(ctx context.Context, recipients []uuid.UUID, t notification.Type, title, message, link string) (int, error)
}

// Config bounds the size of bulk actions
type Config struct {
	MaxImportRows int
	MaxItems      int
	MaxErrors     int
}

// Services groups the services bulk actions are built on
type Services struct {
	Users    UserActions
	Rooms    RoomActions
	Bookings BookingActions
	Payments PaymentActions
	Leaves   LeaveActions
	Notifier Notifier
}

// Service runs bulk actions and records each run in the bulk history
type Service struct {
	history   bulk.OperationRepository
	services  Services
	config    Config
	sanitizer *common.Sanitizer
	logger    *zap.Logger
}

// NewService creates a bulk Service
func NewService(history bulk.OperationRepository, services Services, config Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxImportRows <= 0 {
		config.MaxImportRows = 1000
	}
	if config.MaxItems <= 0 {
		config.MaxItems = 500
	}
	if config.MaxErrors <= 0 {
		config.MaxErrors = 100
	}
	return &Service{
		history:   history,
		services:  services,
		config:    config,
		sanitizer: common.NewSanitizer(),
		logger:    logger,
	}
}

// run records an operation around fn. An error from fn aborts the operation;
// it is stored as failed and returned.
func (s *Service) run(ctx context.Context, actor shared.Actor, action bulk.ActionType, source string, fn func() (*bulk.Result, error)) (*ActionResult, error) {
	op, err := bulk.StartOperation(action, source, actor.UserID)
	if err != nil {
		return nil, err
	}

	result, err := fn()
	if err != nil {
		op.Abort(err)
		s.save(ctx, op)
		return nil, err
	}
	if err := op.Finish(result); err != nil {
		return nil, err
	}
	s.save(ctx, op)

	s.logger.Info("Bulk action finished",
		zap.String("operation_id", op.ID.String()),
		zap.String("action", string(action)),
		zap.String("status", string(op.Status)),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", op.Duration()))
	return &ActionResult{OperationID: op.ID, Result: result}, nil
}

// save keeps the history best effort; the action itself already happened
func (s *Service) save(ctx context.Context, op *bulk.Operation) {
	if err := s.history.Save(ctx, op); err != nil {
		s.logger.Error("Failed to save bulk operation",
			zap.String("operation_id", op.ID.String()),
			zap.Error(err))
	}
}

// forEach applies fn to every distinct id
func (s *Service) forEach(ids []uuid.UUID, fn func(uuid.UUID) error) (*bulk.Result, error) {
	unique, err := s.distinct(ids)
	if err != nil {
		return nil, err
	}
	result := bulk.NewResult(len(unique))
	for _, id := range unique {
		if err := fn(id); err != nil {
			result.FailID(id, err)
			continue
		}
		result.Success()
	}
	return result, nil
}

func (s *Service) distinct(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, shared.NewDomainError("EMPTY_SELECTION", "At least one id is required")
	}
	if len(unique) > s.config.MaxItems {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS",
			fmt.Sprintf("At most %d items can be processed at once", s.config.MaxItems))
	}
	return unique, nil
}

// History lists past bulk operations, newest first
func (s *Service) History(ctx context.Context, input ListOperationsInput) (*shared.Paginated[OperationDTO], error) {
	normalizePage(&input.Page, &input.PageSize)
	ops, total, err := s.history.FindAll(ctx, bulk.OperationFilter{
		Action:      input.Action,
		Status:      input.Status,
		PerformedBy: input.PerformedBy,
		From:        input.From,
		To:          input.To,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, err
	}
	items := make([]OperationDTO, len(ops))
	for i, op := range ops {
		items[i] = ToOperationDTO(op)
	}
	page := shared.NewPaginated(items, total, input.Page, input.PageSize)
	return &page, nil
}

// Operation returns one history entry
func (s *Service) Operation(ctx context.Context, id uuid.UUID) (*OperationDTO, error) {
	op, err := s.history.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToOperationDTO(op)
	return &dto, nil
}

func normalizePage(page, size *int) {
	if *page < 1 {
		*page = 1
	}
	if *size < 1 {
		*size = 20
	}
	if *size > 100 {
		*size = 100
	}
}
