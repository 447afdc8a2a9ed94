package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrFieldValueMismatch signals a programming error: the field and value
// slices passed to ConditionalUpdate differ in length after filtering.
var ErrFieldValueMismatch = errors.New("field and value counts differ")

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// ConditionalUpdate applies a partial update touching only the supplied
// field/value pairs, leaving every other column untouched. Pairs whose value
// is nil are skipped. Returns gorm.ErrRecordNotFound when no row matches id,
// and loads the updated row into dest on success.
func (b Base) ConditionalUpdate(ctx context.Context, dest any, id int64, fields []string, values []any) error {
	if len(fields) != len(values) {
		return ErrFieldValueMismatch
	}

	updates := make(map[string]any, len(fields))
	for i, field := range fields {
		if values[i] == nil {
			continue
		}
		updates[field] = values[i]
	}

	if len(updates) == 0 {
		return b.DB(ctx).First(dest, "id = ?", id).Error
	}

	result := b.DB(ctx).Model(dest).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return b.DB(ctx).First(dest, "id = ?", id).Error
}
