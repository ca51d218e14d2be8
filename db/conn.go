// Package db contains things related to SQLite
package db

import (
	"fmt"
	"strings"

	"discoverlx/poi-api/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the SQLite database at path and migrates the schema. Error
// translation is enabled so unique constraint violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors, and foreign keys
// are switched on so deleting a user cascades to their contents.
func New(path string) (*gorm.DB, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_fk=1"
	} else {
		dsn += "?_fk=1"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	// SQLite only ever has one writer. A single pooled connection avoids
	// busy errors and keeps the foreign_keys pragma applied everywhere
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(model.User{}, model.Content{}); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
