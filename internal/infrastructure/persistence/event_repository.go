package persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventRepository implements community.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Create(ctx context.Context, event *community.Event) error {
	return translateError(r.db.WithContext(ctx).Create(models.EventModelFromDomain(event)).Error)
}

func (r *GormEventRepository) Update(ctx context.Context, event *community.Event) error {
	model := models.EventModelFromDomain(event)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	event.Version = model.Version
	return nil
}

// Delete removes the event together with its registrations
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventRegistrationModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.EventModel{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*community.Event, error) {
	var model models.EventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the event row so concurrent registrations serialize on capacity
func (r *GormEventRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*community.Event, error) {
	var model models.EventModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormEventRepository) FindAll(ctx context.Context, filter community.EventFilter) ([]*community.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EventModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UpcomingOnly {
		query = query.Where("status = ? AND starts_at > ?", community.EventStatusScheduled, filter.Now.UTC())
	}
	if k := strings.TrimSpace(filter.Keyword); k != "" {
		query = query.Where(likeClause("title", "description", "location"), sql.Named("kw", likePattern(k)))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EventModel
	if err := query.Order("starts_at").Scopes(paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toEvents(rows), total, nil
}

func (r *GormEventRepository) FindScheduledEndedBefore(ctx context.Context, t time.Time) ([]*community.Event, error) {
	var rows []models.EventModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND ends_at < ?", community.EventStatusScheduled, t.UTC()).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEvents(rows), nil
}

func (r *GormEventRepository) AddRegistration(ctx context.Context, reg *community.Registration) error {
	model := &models.EventRegistrationModel{
		EventID:      reg.EventID,
		UserID:       reg.UserID,
		RegisteredAt: reg.RegisteredAt.UTC(),
	}
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

func (r *GormEventRepository) RemoveRegistration(ctx context.Context, eventID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventRegistrationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormEventRepository) IsRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventRegistrationModel{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormEventRepository) CountRegistrations(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventRegistrationModel{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *GormEventRepository) CountRegistrationsByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		EventID uuid.UUID
		Count   int64
	}
	if err := r.db.WithContext(ctx).Model(&models.EventRegistrationModel{}).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (r *GormEventRepository) ListRegistrations(ctx context.Context, eventID uuid.UUID) ([]community.Registration, error) {
	var rows []models.EventRegistrationModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]community.Registration, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormEventRepository) RegisteredEventIDs(ctx context.Context, userID uuid.UUID, eventIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	registered := make(map[uuid.UUID]bool)
	if len(eventIDs) == 0 {
		return registered, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.EventRegistrationModel{}).
		Where("user_id = ? AND event_id IN ?", userID, eventIDs).
		Pluck("event_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		registered[id] = true
	}
	return registered, nil
}

func toEvents(rows []models.EventModel) []*community.Event {
	out := make([]*community.Event, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ community.EventRepository = (*GormEventRepository)(nil)
