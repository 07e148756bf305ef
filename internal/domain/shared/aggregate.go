package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every stored record has
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh ID and creation time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// AggregateRoot is an entity that records domain events while its state
// changes. Services publish the pending events after a successful save.
type AggregateRoot interface {
	EntityID() uuid.UUID
	RecordEvent(event DomainEvent)
	PendingEvents() []DomainEvent
	ClearEvents()
}

// BaseAggregateRoot is embedded by users, rooms, bookings, payments and the
// other aggregates. Version backs optimistic locking and is bumped by the
// repository on every successful update.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	pending []DomainEvent
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) EntityID() uuid.UUID {
	return a.ID
}

// RecordEvent queues an event for publishing
func (a *BaseAggregateRoot) RecordEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

func (a *BaseAggregateRoot) ClearEvents() {
	a.pending = nil
}
