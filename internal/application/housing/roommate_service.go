package housing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errRoommateTarget  = shared.NewDomainError("ROOMMATE_TARGET_INVALID", "Roommate requests can only be sent to active students")
	errRoommatePending = shared.NewDomainError("ROOMMATE_REQUEST_EXISTS", "A pending request between these students already exists")
)

// RoommateService handles roommate requests between students
type RoommateService struct {
	requestRepo housing.RoommateRequestRepository
	userRepo    identity.UserRepository
	roomRepo    housing.RoomRepository
	publisher   shared.EventPublisher
	sanitizer   *common.Sanitizer
	logger      *zap.Logger
}

// NewRoommateService creates a new RoommateService
func NewRoommateService(
	requestRepo housing.RoommateRequestRepository,
	userRepo identity.UserRepository,
	roomRepo housing.RoomRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *RoommateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoommateService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		roomRepo:    roomRepo,
		publisher:   publisher,
		sanitizer:   common.NewSanitizer(),
		logger:      logger,
	}
}

// Send creates a pending request from the actor to another student
func (s *RoommateService) Send(ctx context.Context, actor shared.Actor, input SendRoommateRequestInput) (*RoommateRequestDTO, error) {
	if !actor.IsStudent() {
		return nil, shared.ErrStudentOnly
	}
	req, err := housing.NewRoommateRequest(actor.UserID, input.TargetID, input.RoomID, s.sanitizer.Text(input.Message))
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByID(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}
	if target.Role != shared.RoleStudent || target.Status != identity.UserStatusActive {
		return nil, errRoommateTarget
	}
	if input.RoomID != nil {
		if _, err := s.roomRepo.FindByID(ctx, *input.RoomID); err != nil {
			return nil, err
		}
	}

	pending, err := s.requestRepo.ExistsPendingBetween(ctx, actor.UserID, input.TargetID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, errRoommatePending
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, req)

	s.logger.Info("Roommate request sent",
		zap.String("request_id", req.ID.String()),
		zap.String("requester_id", req.RequesterID.String()),
		zap.String("target_id", req.TargetID.String()))
	dto := ToRoommateRequestDTO(req)
	return &dto, nil
}

// Accept is called by the recipient
func (s *RoommateService) Accept(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RoommateRequestDTO, error) {
	return s.change(ctx, actor, id, (*housing.RoommateRequest).Accept)
}

// Reject is called by the recipient
func (s *RoommateService) Reject(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RoommateRequestDTO, error) {
	return s.change(ctx, actor, id, (*housing.RoommateRequest).Reject)
}

// Cancel is called by the requester
func (s *RoommateService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RoommateRequestDTO, error) {
	return s.change(ctx, actor, id, (*housing.RoommateRequest).Cancel)
}

func (s *RoommateService) change(ctx context.Context, actor shared.Actor, id uuid.UUID, fn func(*housing.RoommateRequest, uuid.UUID) error) (*RoommateRequestDTO, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Involves(actor.UserID) {
		return nil, shared.ErrNotFound
	}
	if err := fn(req, actor.UserID); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, req)

	s.logger.Info("Roommate request updated",
		zap.String("request_id", req.ID.String()),
		zap.String("status", string(req.Status)))
	dto := ToRoommateRequestDTO(req)
	return &dto, nil
}

// Get returns a request visible to the actor
func (s *RoommateService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RoommateRequestDTO, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !req.Involves(actor.UserID) {
		return nil, shared.ErrNotFound
	}
	dto := ToRoommateRequestDTO(req)
	return &dto, nil
}

// List returns requests. Students see the ones they sent or received.
func (s *RoommateService) List(ctx context.Context, actor shared.Actor, input ListRoommateRequestsInput) (*shared.Paginated[RoommateRequestDTO], error) {
	filter := housing.RoommateRequestFilter{
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	normalizePage(&filter.Page, &filter.PageSize)

	switch {
	case input.Box == "sent":
		filter.RequesterID = &actor.UserID
	case input.Box == "received":
		filter.TargetID = &actor.UserID
	case !actor.IsAdmin():
		filter.ParticipantID = &actor.UserID
	}

	reqs, total, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RoommateRequestDTO, len(reqs))
	for i, r := range reqs {
		items[i] = ToRoommateRequestDTO(r)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
