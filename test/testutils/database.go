package testutils

import (
	"testing"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/platewise/v1/internal/infrastructure/persistence/sqlite"
)

// NewTestDB returns a migrated in-memory SQLite database.
// Each call gets an isolated database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase(":memory:", gormLogger.Silent)
	if err != nil {
		t.Fatalf("failed to set up test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
