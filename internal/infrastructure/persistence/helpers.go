package persistence

import (
	"errors"
	"strings"

	"github.com/hostelhub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReferenceViolation is returned when a write breaks a foreign key
var ErrReferenceViolation = shared.NewDomainError("REFERENCE_CONFLICT", "Record is referenced by or references missing data")

// translateError maps driver and gorm errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists.WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenceViolation.WithCause(err)
	default:
		return err
	}
}

// versionedModel is implemented by every model embedding models.AggregateModel
type versionedModel interface {
	GetVersion() int
	SetVersion(v int)
}

// saveVersioned writes every column of model if the stored row still has the model's
// version, and bumps the version. A stale or missing row yields ErrConcurrencyConflict.
func saveVersioned(db *gorm.DB, model versionedModel) error {
	expected := model.GetVersion()
	model.SetVersion(expected + 1)

	result := db.Model(model).
		Where("version = ?", expected).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		model.SetVersion(expected)
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		model.SetVersion(expected)
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// paginate applies normalized offset and limit
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	f := shared.PageRequest{Page: page, PageSize: pageSize}.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(f.Offset()).Limit(f.PageSize)
	}
}

// orderBy builds a whitelisted ORDER BY expression
func orderBy(field, dir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(field, allowed, defaultField) + " " + ValidateSortOrder(dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern returns a lower-cased substring pattern for use with likeClause
func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}

// likeClause matches any of the columns case-insensitively against one pattern
func likeClause(columns ...string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + `) LIKE @kw ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
