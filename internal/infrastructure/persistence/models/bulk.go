package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"gorm.io/datatypes"
)

// BulkOperationModel records the outcome of one bulk action
type BulkOperationModel struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Action      bulk.ActionType      `gorm:"type:varchar(40);not null;index"`
	Source      string               `gorm:"type:varchar(255)"`
	PerformedBy uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status      bulk.OperationStatus `gorm:"type:varchar(20);not null"`
	Total       int                  `gorm:"not null;default:0"`
	Succeeded   int                  `gorm:"not null;default:0"`
	Failed      int                  `gorm:"not null;default:0"`
	Errors      datatypes.JSON
	StartedAt   time.Time `gorm:"not null;index"`
	CompletedAt *time.Time
}

func (BulkOperationModel) TableName() string {
	return "bulk_operations"
}

func (m *BulkOperationModel) ToDomain() (*bulk.Operation, error) {
	op := &bulk.Operation{
		ID:          m.ID,
		Action:      m.Action,
		Source:      m.Source,
		PerformedBy: m.PerformedBy,
		Status:      m.Status,
		Total:       m.Total,
		Succeeded:   m.Succeeded,
		Failed:      m.Failed,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
	if err := op.SetErrorsFromJSON(string(m.Errors)); err != nil {
		return nil, err
	}
	return op, nil
}

func BulkOperationModelFromDomain(op *bulk.Operation) (*BulkOperationModel, error) {
	errs, err := op.ErrorsJSON()
	if err != nil {
		return nil, err
	}
	return &BulkOperationModel{
		ID:          op.ID,
		Action:      op.Action,
		Source:      op.Source,
		PerformedBy: op.PerformedBy,
		Status:      op.Status,
		Total:       op.Total,
		Succeeded:   op.Succeeded,
		Failed:      op.Failed,
		Errors:      datatypes.JSON(errs),
		StartedAt:   op.StartedAt.UTC(),
		CompletedAt: utc(op.CompletedAt),
	}, nil
}
