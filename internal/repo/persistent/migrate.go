package persistent

import (
	"fmt"

	"postboard/internal/model"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Migrate creates or updates every table, including the cascading foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// NewSQLX shares gorm's connection pool with sqlx for hand-built read queries.
func NewSQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, db.Dialector.Name()), nil
}
