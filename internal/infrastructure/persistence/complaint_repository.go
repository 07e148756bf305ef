package persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormComplaintRepository implements welfare.ComplaintRepository using GORM
type GormComplaintRepository struct {
	db *gorm.DB
}

func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

func (r *GormComplaintRepository) Create(ctx context.Context, complaint *welfare.Complaint) error {
	return translateError(r.db.WithContext(ctx).Create(models.ComplaintModelFromDomain(complaint)).Error)
}

func (r *GormComplaintRepository) Update(ctx context.Context, complaint *welfare.Complaint) error {
	model := models.ComplaintModelFromDomain(complaint)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	complaint.Version = model.Version
	return nil
}

func (r *GormComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ComplaintModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*welfare.Complaint, error) {
	var model models.ComplaintModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormComplaintRepository) FindAll(ctx context.Context, filter welfare.ComplaintFilter) ([]*welfare.Complaint, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ComplaintModel{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", filter.To.UTC())
	}
	if k := strings.TrimSpace(filter.Keyword); k != "" {
		query = query.Where(likeClause("title", "description"), sql.Named("kw", likePattern(k)))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ComplaintModel
	if err := query.
		Order(orderBy(filter.SortBy, filter.SortOrder, ComplaintSortFields, "created_at")).
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*welfare.Complaint, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormComplaintRepository) CountByStatus(ctx context.Context) (map[welfare.ComplaintStatus]int64, error) {
	counts := make(map[welfare.ComplaintStatus]int64)
	rows, err := groupCount(ctx, r.db, &models.ComplaintModel{}, "status")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[welfare.ComplaintStatus(row.Key)] = row.Count
	}
	return counts, nil
}

func (r *GormComplaintRepository) CountByCategory(ctx context.Context) (map[welfare.ComplaintCategory]int64, error) {
	counts := make(map[welfare.ComplaintCategory]int64)
	rows, err := groupCount(ctx, r.db, &models.ComplaintModel{}, "category")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[welfare.ComplaintCategory(row.Key)] = row.Count
	}
	return counts, nil
}

type keyCount struct {
	Key   string
	Count int64
}

// groupCount counts rows of model grouped by one column
func groupCount(ctx context.Context, db *gorm.DB, model any, column string) ([]keyCount, error) {
	var rows []keyCount
	err := db.WithContext(ctx).Model(model).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

var _ welfare.ComplaintRepository = (*GormComplaintRepository)(nil)
