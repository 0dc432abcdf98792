package db

import (
	"fmt"
	"log/slog"
	"time"

	"library-backend/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type options struct {
	logLevel     logger.LogLevel
	maxOpenConns int
	maxIdleConns int
}

type Option func(*options)

func WithLogLevel(l logger.LogLevel) Option { return func(o *options) { o.logLevel = l } }

// WithMaxOpenConns also caps idle connections at n.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxOpenConns = n
		if o.maxIdleConns > n {
			o.maxIdleConns = n
		}
	}
}

// Open picks the dialector from cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Info
	if cfg.IsProd() {
		level = logger.Error
	}
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return OpenGormWithDialector(mysql.Open(cfg.MySQLDSN()), WithLogLevel(level))
	case config.DriverSQLite:
		// sqlite allows one writer; a single connection avoids SQLITE_BUSY
		return OpenGormWithDialector(sqlite.Open(cfg.SQLitePath), WithLogLevel(level), WithMaxOpenConns(1))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	o := options{logLevel: logger.Info, maxOpenConns: 30, maxIdleConns: 10}
	for _, fn := range opts {
		fn(&o)
	}

	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(o.logLevel),
		TranslateError: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.maxOpenConns)
	sqlDB.SetMaxIdleConns(o.maxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	slog.Info("gorm: connected", "dialect", dial.Name())
	return db, nil
}
