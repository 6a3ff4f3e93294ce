package testhelpers

import (
	"fmt"
	"testing"

	"leetracker/internal/repositories/relational"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	openSQLite          = func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard}) }
	migrateSchema       = relational.Migrate
	dropProgressTableFn = func(db *gorm.DB) error { return db.Migrator().DropTable(&relational.ProgressRecord{}) }
)

// SetupTestDB creates an isolated in-memory SQLite database for tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := openSQLite(dsn)
	if err != nil {
		panic(fmt.Sprintf("failed to open test database: %v", err))
	}
	if err := migrateSchema(db); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// DropProgressTable removes the progress table to force repository errors.
func DropProgressTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := dropProgressTableFn(db); err != nil {
		panic(fmt.Sprintf("failed to drop progress table: %v", err))
	}
}
