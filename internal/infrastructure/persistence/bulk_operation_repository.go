package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBulkOperationRepository implements bulk.OperationRepository using GORM
type GormBulkOperationRepository struct {
	db *gorm.DB
}

func NewGormBulkOperationRepository(db *gorm.DB) *GormBulkOperationRepository {
	return &GormBulkOperationRepository{db: db}
}

// Save inserts the operation or overwrites its previous state
func (r *GormBulkOperationRepository) Save(ctx context.Context, op *bulk.Operation) error {
	model, err := models.BulkOperationModelFromDomain(op)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(model).Error
}

func (r *GormBulkOperationRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.Operation, error) {
	var model models.BulkOperationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain()
}

func (r *GormBulkOperationRepository) FindAll(ctx context.Context, filter bulk.OperationFilter) ([]*bulk.Operation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BulkOperationModel{})
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PerformedBy != nil {
		query = query.Where("performed_by = ?", *filter.PerformedBy)
	}
	if filter.From != nil {
		query = query.Where("started_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("started_at <= ?", filter.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BulkOperationModel
	if err := query.Order("started_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	ops := make([]*bulk.Operation, 0, len(rows))
	for i := range rows {
		op, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		ops = append(ops, op)
	}
	return ops, total, nil
}

var _ bulk.OperationRepository = (*GormBulkOperationRepository)(nil)
