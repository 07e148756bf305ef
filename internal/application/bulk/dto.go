package bulkapp

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/bulk"
)

// ActionResult is a bulk result together with the history entry recording it
type ActionResult struct {
	OperationID uuid.UUID `json:"operation_id"`
	*bulk.Result
}

// ImportInput is an uploaded CSV file
type ImportInput struct {
	FileName string
	Data     []byte
}

// ListOperationsInput filters the bulk history
type ListOperationsInput struct {
	Action      *bulk.ActionType
	Status      *bulk.OperationStatus
	PerformedBy *uuid.UUID
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// OperationDTO is a bulk history entry
type OperationDTO struct {
	ID          uuid.UUID            `json:"id"`
	Action      bulk.ActionType      `json:"action"`
	Source      string               `json:"source"`
	PerformedBy uuid.UUID            `json:"performed_by"`
	Status      bulk.OperationStatus `json:"status"`
	Total       int                  `json:"total"`
	Succeeded   int                  `json:"succeeded"`
	Failed      int                  `json:"failed"`
	SuccessRate float64              `json:"success_rate"`
	Errors      []bulk.ItemError     `json:"errors"`
	StartedAt   time.Time            `json:"started_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	DurationMs  int64                `json:"duration_ms"`
}

// ToOperationDTO converts a bulk operation
func ToOperationDTO(op *bulk.Operation) OperationDTO {
	errs := op.Errors
	if errs == nil {
		errs = []bulk.ItemError{}
	}
	return OperationDTO{
		ID:          op.ID,
		Action:      op.Action,
		Source:      op.Source,
		PerformedBy: op.PerformedBy,
		Status:      op.Status,
		Total:       op.Total,
		Succeeded:   op.Succeeded,
		Failed:      op.Failed,
		SuccessRate: op.SuccessRate(),
		Errors:      errs,
		StartedAt:   op.StartedAt,
		CompletedAt: op.CompletedAt,
		DurationMs:  op.Duration().Milliseconds(),
	}
}
