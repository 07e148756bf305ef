package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
)

// Envelope is the wire form of a domain event
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// EventSerializer converts domain events to envelopes and back
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventSerializer creates a serializer with no registered types
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// NewDomainSerializer creates a serializer that knows every hostel event
func NewDomainSerializer() *EventSerializer {
	s := NewEventSerializer()
	s.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	s.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	s.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})
	for _, t := range []string{housing.EventTypeRoomCreated, housing.EventTypeRoomUpdated, housing.EventTypeRoomStatusChanged} {
		s.Register(t, &housing.RoomChangedEvent{})
	}
	s.Register(housing.EventTypeBookingCreated, &housing.BookingCreatedEvent{})
	s.Register(housing.EventTypeBookingConfirmed, &housing.BookingConfirmedEvent{})
	s.Register(housing.EventTypeBookingCheckedIn, &housing.BookingStatusEvent{})
	s.Register(housing.EventTypeBookingCompleted, &housing.BookingStatusEvent{})
	s.Register(housing.EventTypeBookingCancelled, &housing.BookingCancelledEvent{})
	for _, t := range []string{housing.EventTypeRoommateRequested, housing.EventTypeRoommateAccepted, housing.EventTypeRoommateRejected} {
		s.Register(t, &housing.RoommateRequestEvent{})
	}
	for _, t := range []string{
		finance.EventTypePaymentCreated, finance.EventTypePaymentPaid, finance.EventTypePaymentOverdue,
		finance.EventTypePaymentRefunded, finance.EventTypePaymentCancelled,
	} {
		s.Register(t, &finance.PaymentEvent{})
	}
	s.Register(community.EventTypeNoticePublished, &community.NoticePublishedEvent{})
	s.Register(community.EventTypeEventScheduled, &community.EventChangedEvent{})
	s.Register(community.EventTypeEventCancelled, &community.EventChangedEvent{})
	s.Register(welfare.EventTypeComplaintFiled, &welfare.ComplaintEvent{})
	s.Register(welfare.EventTypeComplaintStatusChanged, &welfare.ComplaintEvent{})
	for _, t := range []string{welfare.EventTypeLeaveRequested, welfare.EventTypeLeaveApproved, welfare.EventTypeLeaveRejected} {
		s.Register(t, &welfare.LeaveEvent{})
	}
	return s
}

// Register maps eventType to the concrete type of instance
func (s *EventSerializer) Register(eventType string, instance shared.DomainEvent) {
	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

// Marshal wraps event into an envelope and encodes it
func (s *EventSerializer) Marshal(event shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", event.EventType(), err)
	}
	return json.Marshal(Envelope{
		ID:            event.EventID(),
		Type:          event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt().UTC(),
		Payload:       payload,
	})
}

// Unmarshal decodes an envelope back into its registered event type
func (s *EventSerializer) Unmarshal(data []byte) (shared.DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event envelope: %w", err)
	}

	s.mu.RLock()
	t, ok := s.types[env.Type]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", env.Type)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(env.Payload, ptr); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", env.Type, err)
	}
	event, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("type registered for %s is not a domain event", env.Type)
	}
	return event, nil
}

// IsRegistered reports whether eventType can be decoded
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

// RegisteredTypes returns the known event types in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.types))
	for t := range s.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
