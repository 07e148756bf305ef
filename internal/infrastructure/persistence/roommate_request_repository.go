package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoommateRequestRepository implements housing.RoommateRequestRepository
type GormRoommateRequestRepository struct {
	db *gorm.DB
}

func NewGormRoommateRequestRepository(db *gorm.DB) *GormRoommateRequestRepository {
	return &GormRoommateRequestRepository{db: db}
}

func (r *GormRoommateRequestRepository) Create(ctx context.Context, req *housing.RoommateRequest) error {
	return translateError(r.db.WithContext(ctx).Create(models.RoommateRequestModelFromDomain(req)).Error)
}

func (r *GormRoommateRequestRepository) Update(ctx context.Context, req *housing.RoommateRequest) error {
	model := models.RoommateRequestModelFromDomain(req)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	req.Version = model.Version
	return nil
}

func (r *GormRoommateRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.RoommateRequest, error) {
	var model models.RoommateRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormRoommateRequestRepository) FindAll(ctx context.Context, filter housing.RoommateRequestFilter) ([]*housing.RoommateRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RoommateRequestModel{})
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.TargetID != nil {
		query = query.Where("target_id = ?", *filter.TargetID)
	}
	if filter.ParticipantID != nil {
		query = query.Where("(requester_id = ? OR target_id = ?)", *filter.ParticipantID, *filter.ParticipantID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RoommateRequestModel
	if err := query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*housing.RoommateRequest, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormRoommateRequestRepository) ExistsPendingBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RoommateRequestModel{}).
		Where("status = ?", housing.RoommateRequestPending).
		Where("((requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?))", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

var _ housing.RoommateRequestRepository = (*GormRoommateRequestRepository)(nil)
