// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/pkg/database"
)

// NewDB opens a migrated SQLite database in a per-test temp dir.
// The global logger must be initialised before calling it.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "foodshare.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := database.Open(context.Background(), dsn, database.Options{MaxRetries: 1})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
