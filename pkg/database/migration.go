package database

import (
	"fmt"

	"github.com/aurora-digital/identity/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all identity tables.
// Unique indexes on email, username (sparse via nullable column) and
// session token id come from the model tags.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.RevokedToken{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	return nil
}
