package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded migrations matching the connection's dialect.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	var dialect, dir string
	switch db.Dialector.Name() {
	case "mysql":
		dialect, dir = "mysql", "migrations/mysql"
	case "sqlite":
		dialect, dir = "sqlite3", "migrations/sqlite"
	default:
		return fmt.Errorf("no migrations for dialect %q", db.Dialector.Name())
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	return goose.UpContext(ctx, sqlDB, dir)
}
