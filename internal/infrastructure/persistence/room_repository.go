package persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoomRepository implements housing.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(ctx context.Context, room *housing.Room) error {
	return translateError(r.db.WithContext(ctx).Create(models.RoomModelFromDomain(room)).Error)
}

func (r *GormRoomRepository) Update(ctx context.Context, room *housing.Room) error {
	model := models.RoomModelFromDomain(room)
	if err := saveVersioned(r.db.WithContext(ctx), model); err != nil {
		return err
	}
	room.Version = model.Version
	return nil
}

func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RoomModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Room, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForUpdate takes a row lock that is held until the transaction ends.
// SQLite has no row locks; its single writer connection serializes instead.
func (r *GormRoomRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*housing.Room, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *GormRoomRepository) FindByNumber(ctx context.Context, number string) (*housing.Room, error) {
	return r.first(r.db.WithContext(ctx), "number = ?", strings.ToUpper(strings.TrimSpace(number)))
}

func (r *GormRoomRepository) first(db *gorm.DB, query string, args ...any) (*housing.Room, error) {
	var model models.RoomModel
	if err := db.Where(query, args...).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormRoomRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RoomModel{}).
		Where("number = ?", strings.ToUpper(strings.TrimSpace(number))).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRoomRepository) FindAll(ctx context.Context, filter housing.RoomFilter) ([]*housing.Room, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RoomModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Block != "" {
		query = query.Where("block = ?", filter.Block)
	}
	if filter.Floor != nil {
		query = query.Where("floor = ?", *filter.Floor)
	}
	if filter.Gender != nil {
		// A gender filter also returns rooms open to everyone
		query = query.Where("(gender = ? OR gender = ? OR gender = '')", *filter.Gender, shared.GenderMixed)
	}
	if filter.MinRent != nil {
		query = query.Where("monthly_rent >= ?", *filter.MinRent)
	}
	if filter.MaxRent != nil {
		query = query.Where("monthly_rent <= ?", *filter.MaxRent)
	}
	if filter.AvailableOnly {
		query = query.Where("status = ? AND occupancy < capacity", housing.RoomStatusAvailable)
	}
	if filter.Keyword != "" {
		query = query.Where(likeClause("number", "block", "description"), sql.Named("kw", likePattern(filter.Keyword)))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RoomModel
	if err := query.
		Order(orderBy(filter.SortBy, filter.SortOrder, RoomSortFields, "number")).
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	rooms := make([]*housing.Room, len(rows))
	for i := range rows {
		rooms[i] = rows[i].ToDomain()
	}
	return rooms, total, nil
}

var _ housing.RoomRepository = (*GormRoomRepository)(nil)
