package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"club-cms-api/internal/domain"
)

// Migrate creates or updates every table the service owns.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.News{}, &domain.Match{})
}

// isDupKey relies on gorm.Config.TranslateError. The sqlite message check is
// kept for builds of the sqlite driver that do not translate constraint errors.
func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.HasPrefix(err.Error(), "UNIQUE constraint failed")
}

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern matches s literally anywhere in a column. Use with
// "col LIKE ? ESCAPE '!'".
func likePattern(s string) string {
	return "%" + likeReplacer.Replace(strings.TrimSpace(s)) + "%"
}
