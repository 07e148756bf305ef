package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt.UTC()
	m.UpdatedAt = e.UpdatedAt.UTC()
}

// AggregateModel adds the optimistic locking version to BaseModel
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot rebuilds the domain aggregate base
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version: m.Version,
	}
}

// GetVersion lets repositories read the stored version generically
func (m *AggregateModel) GetVersion() int {
	return m.Version
}

// SetVersion lets repositories bump the version generically
func (m *AggregateModel) SetVersion(v int) {
	m.Version = v
}

// All returns every persistence model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&RoomModel{},
		&BookingModel{},
		&RoommateRequestModel{},
		&PaymentModel{},
		&NoticeModel{},
		&EventModel{},
		&EventRegistrationModel{},
		&ComplaintModel{},
		&LeaveApplicationModel{},
		&NotificationModel{},
		&BulkOperationModel{},
	}
}

// utc normalizes optional timestamps before they are stored
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
