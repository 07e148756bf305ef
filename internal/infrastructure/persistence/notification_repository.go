package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// notificationBatchSize bounds the rows per INSERT when fanning out to many users
const notificationBatchSize = 200

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return translateError(r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error)
}

func (r *GormNotificationRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	rows := make([]*models.NotificationModel, len(ns))
	for i, n := range ns {
		rows[i] = models.NotificationModelFromDomain(n)
	}
	return translateError(r.db.WithContext(ctx).CreateInBatches(rows, notificationBatchSize).Error)
}

func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter notification.Filter) ([]*notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.NotificationModel
	if err := query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*notification.Notification, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead is idempotent for notifications that are already read
func (r *GormNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return translateError(err)
	}
	if model.ReadAt != nil {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model).Update("read_at", time.Now().UTC()).Error
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now().UTC())
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.NotificationModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
