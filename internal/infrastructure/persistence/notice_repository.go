package persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNoticeRepository implements community.NoticeRepository using GORM
type GormNoticeRepository struct {
	db *gorm.DB
}

func NewGormNoticeRepository(db *gorm.DB) *GormNoticeRepository {
	return &GormNoticeRepository{db: db}
}

func (r *GormNoticeRepository) Create(ctx context.Context, notice *community.Notice) error {
	return translateError(r.db.WithContext(ctx).Create(models.NoticeModelFromDomain(notice)).Error)
}

func (r *GormNoticeRepository) Update(ctx context.Context, notice *community.Notice) error {
	model := models.NoticeModelFromDomain(notice)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	notice.Version = model.Version
	return nil
}

func (r *GormNoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.NoticeModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormNoticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*community.Notice, error) {
	var model models.NoticeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormNoticeRepository) FindAll(ctx context.Context, filter community.NoticeFilter) ([]*community.Notice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NoticeModel{})
	if len(filter.Audiences) > 0 {
		query = query.Where("audience IN ?", filter.Audiences)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if !filter.IncludeExpired && !filter.Now.IsZero() {
		query = query.Where("(expires_at IS NULL OR expires_at > ?)", filter.Now.UTC())
	}
	if k := strings.TrimSpace(filter.Keyword); k != "" {
		query = query.Where(likeClause("title", "content"), sql.Named("kw", likePattern(k)))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.NoticeModel
	if err := query.
		Order("pinned DESC").
		Order("published_at DESC").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*community.Notice, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var _ community.NoticeRepository = (*GormNoticeRepository)(nil)
