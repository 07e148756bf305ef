package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLeaveRepository implements welfare.LeaveRepository using GORM
type GormLeaveRepository struct {
	db *gorm.DB
}

func NewGormLeaveRepository(db *gorm.DB) *GormLeaveRepository {
	return &GormLeaveRepository{db: db}
}

func (r *GormLeaveRepository) Create(ctx context.Context, leave *welfare.LeaveApplication) error {
	return translateError(r.db.WithContext(ctx).Create(models.LeaveApplicationModelFromDomain(leave)).Error)
}

func (r *GormLeaveRepository) Update(ctx context.Context, leave *welfare.LeaveApplication) error {
	model := models.LeaveApplicationModelFromDomain(leave)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	leave.Version = model.Version
	return nil
}

func (r *GormLeaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*welfare.LeaveApplication, error) {
	var model models.LeaveApplicationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormLeaveRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*welfare.LeaveApplication, error) {
	if len(ids) == 0 {
		return []*welfare.LeaveApplication{}, nil
	}
	var rows []models.LeaveApplicationModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLeaves(rows), nil
}

func (r *GormLeaveRepository) FindAll(ctx context.Context, filter welfare.LeaveFilter) ([]*welfare.LeaveApplication, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaveApplicationModel{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ActiveOn != nil {
		day := valueobject.TruncateDay(*filter.ActiveOn)
		query = query.Where("from_date <= ? AND to_date >= ?", day, day)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LeaveApplicationModel
	if err := query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toLeaves(rows), total, nil
}

// ExistsOverlapping uses inclusive day ranges
func (r *GormLeaveRepository) ExistsOverlapping(ctx context.Context, studentID uuid.UUID, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LeaveApplicationModel{}).
		Where("student_id = ? AND status IN ?", studentID, welfare.BlockingLeaveStatuses).
		Where("from_date <= ? AND to_date >= ?", valueobject.TruncateDay(to), valueobject.TruncateDay(from)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormLeaveRepository) CountByStatus(ctx context.Context, status welfare.LeaveStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LeaveApplicationModel{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func toLeaves(rows []models.LeaveApplicationModel) []*welfare.LeaveApplication {
	out := make([]*welfare.LeaveApplication, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ welfare.LeaveRepository = (*GormLeaveRepository)(nil)
