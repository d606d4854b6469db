// Package database opens the gorm connection behind the persistent stores.
package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to dsn with the named driver. The sqlite driver runs on
// modernc.org/sqlite, so no cgo toolchain is needed. Callers handle
// DriverMemory themselves; it has no database behind it.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:ecommerce.db"
		}
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: withPragmas(dsn)})
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("database: postgres needs DB_DSN")
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewSlogLogger(slog.Default(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		// SQLite serialises writers; one connection also keeps :memory: alive.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenSQLiteMemory returns a private in-memory database, used by tests.
func OpenSQLiteMemory() (*gorm.DB, error) {
	return Open(DriverSQLite, ":memory:")
}

// Migrate creates or updates the tables for models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

func withPragmas(dsn string) string {
	if dsn == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
