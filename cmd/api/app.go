package main

import (
	"context"
	"fmt"
	"log/slog"

	"library-backend/internal/adapter/repository/mysql"
	"library-backend/internal/config"
	"library-backend/internal/infrastructure/db"
	"library-backend/internal/usecase/auth"
	"library-backend/pkg/token"

	"gorm.io/gorm"
)

func loadConfig() *config.Config { return config.Load() }

// openDB connects and brings the schema up to date.
func openDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newIssuer(cfg *config.Config) *token.Issuer {
	return token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL()).WithRefreshTTL(cfg.RefreshTTL())
}

// seedAdmin creates the configured superuser when a password is set.
func seedAdmin(ctx context.Context, cfg *config.Config, gdb *gorm.DB) error {
	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD not set, superuser seeding skipped")
		return nil
	}
	uc := auth.NewUsecase(mysql.NewUserRepository(gdb), mysql.NewRefreshTokenRepository(gdb), newIssuer(cfg))
	_, err := uc.EnsureSuperUser(ctx, cfg.AdminUsername, cfg.AdminPassword)
	return err
}
