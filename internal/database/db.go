package database

import (
	"fmt"
	"strings"

	"inventory/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the backing store. A postgres:// (or postgresql://) DSN uses
// the postgres driver; anything else is treated as a SQLite file path.
func Open(dsn string) (*gorm.DB, error) {
	// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey
	// so duplicate adds can be reported as a soft failure.
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return db, nil
}

// sqliteDSN appends the connection parameters the ledger needs: immediate
// transactions so concurrent writers serialize at BEGIN instead of deadlocking
// on a lock upgrade, and a busy timeout so blocked writers wait rather than fail.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_txlock=immediate"
}

// Migrate creates the ledger tables. Idempotent: safe to run on an existing
// store without touching existing rows.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Warehouse{},
		&model.Stock{},
		&model.StockTransaction{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
