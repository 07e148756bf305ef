package bulk

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OperationFilter defines the filters for querying bulk operations
type OperationFilter struct {
	Action      *ActionType
	Status      *OperationStatus
	PerformedBy *uuid.UUID
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// OperationRepository defines persistence for bulk operation history
type OperationRepository interface {
	Save(ctx context.Context, op *Operation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Operation, error)
	FindAll(ctx context.Context, filter OperationFilter) ([]*Operation, int64, error)
}
