// Package sqlitedb opens a migrated, file-backed sqlite database for tests.
package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"

	"library-backend/internal/infrastructure/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database in t.TempDir with all migrations applied.
// The pool holds one connection, so concurrent transactions run one at a time.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library_test.db")
	gdb, err := db.OpenGormWithDialector(sqlite.Open(path),
		db.WithLogLevel(logger.Silent), db.WithMaxOpenConns(1))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.RunMigrations(context.Background(), gdb); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	sqlDB, _ := gdb.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}
