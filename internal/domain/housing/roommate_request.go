package housing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// RoommateRequestStatus is the state of a roommate request
type RoommateRequestStatus string

const (
	RoommateRequestPending   RoommateRequestStatus = "PENDING"
	RoommateRequestAccepted  RoommateRequestStatus = "ACCEPTED"
	RoommateRequestRejected  RoommateRequestStatus = "REJECTED"
	RoommateRequestCancelled RoommateRequestStatus = "CANCELLED"
)

func (s RoommateRequestStatus) IsValid() bool {
	switch s {
	case RoommateRequestPending, RoommateRequestAccepted, RoommateRequestRejected, RoommateRequestCancelled:
		return true
	}
	return false
}

// RoommateRequest is one student asking another to share a room
type RoommateRequest struct {
	shared.BaseAggregateRoot
	RequesterID uuid.UUID
	TargetID    uuid.UUID
	RoomID      *uuid.UUID
	Message     string
	Status      RoommateRequestStatus
	RespondedAt *time.Time
}

// NewRoommateRequest creates a PENDING request
func NewRoommateRequest(requesterID, targetID uuid.UUID, roomID *uuid.UUID, message string) (*RoommateRequest, error) {
	if requesterID == uuid.Nil || targetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROOMMATE_REQUEST", "Requester and target are required")
	}
	if requesterID == targetID {
		return nil, shared.NewDomainError("ROOMMATE_SELF_REQUEST", "You cannot send a roommate request to yourself")
	}
	message = strings.TrimSpace(message)
	if len(message) > 1000 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 1000 characters")
	}

	req := &RoommateRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequesterID:       requesterID,
		TargetID:          targetID,
		RoomID:            roomID,
		Message:           message,
		Status:            RoommateRequestPending,
	}
	req.RecordEvent(NewRoommateRequestEvent(EventTypeRoommateRequested, req))
	return req, nil
}

// Accept is performed by the target student
func (r *RoommateRequest) Accept(actor uuid.UUID) error {
	if err := r.respond(actor, RoommateRequestAccepted); err != nil {
		return err
	}
	r.RecordEvent(NewRoommateRequestEvent(EventTypeRoommateAccepted, r))
	return nil
}

// Reject is performed by the target student
func (r *RoommateRequest) Reject(actor uuid.UUID) error {
	if err := r.respond(actor, RoommateRequestRejected); err != nil {
		return err
	}
	r.RecordEvent(NewRoommateRequestEvent(EventTypeRoommateRejected, r))
	return nil
}

// Cancel is performed by the requester while the request is pending
func (r *RoommateRequest) Cancel(actor uuid.UUID) error {
	if actor != r.RequesterID {
		return shared.NewDomainError("FORBIDDEN", "Only the requester can cancel this request")
	}
	if r.Status != RoommateRequestPending {
		return shared.NewDomainError("ROOMMATE_REQUEST_NOT_PENDING", "Only pending requests can be cancelled")
	}
	r.Status = RoommateRequestCancelled
	r.Touch()
	return nil
}

// Involves reports whether the user is either party of the request
func (r *RoommateRequest) Involves(userID uuid.UUID) bool {
	return r.RequesterID == userID || r.TargetID == userID
}

func (r *RoommateRequest) respond(actor uuid.UUID, status RoommateRequestStatus) error {
	if actor != r.TargetID {
		return shared.NewDomainError("FORBIDDEN", "Only the recipient can respond to this request")
	}
	if r.Status != RoommateRequestPending {
		return shared.NewDomainError("ROOMMATE_REQUEST_NOT_PENDING", "This request has already been answered")
	}
	now := time.Now()
	r.Status = status
	r.RespondedAt = &now
	r.Touch()
	return nil
}

// Roommate request event types
const (
	AggregateTypeRoommateRequest = "RoommateRequest"
	EventTypeRoommateRequested   = "RoommateRequested"
	EventTypeRoommateAccepted    = "RoommateRequestAccepted"
	EventTypeRoommateRejected    = "RoommateRequestRejected"
)

// RoommateRequestEvent is published when a request is sent or answered
type RoommateRequestEvent struct {
	shared.BaseDomainEvent
	RequesterID uuid.UUID             `json:"requester_id"`
	TargetID    uuid.UUID             `json:"target_id"`
	Status      RoommateRequestStatus `json:"status"`
}

func NewRoommateRequestEvent(eventType string, r *RoommateRequest) *RoommateRequestEvent {
	return &RoommateRequestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRoommateRequest, r.ID),
		RequesterID:     r.RequesterID,
		TargetID:        r.TargetID,
		Status:          r.Status,
	}
}
