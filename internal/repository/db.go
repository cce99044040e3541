package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"focus-tracker/internal/model"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewDB opens the record store and runs migrations.
func NewDB(driver, dsn string) (*gorm.DB, error) {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and seeds the stats row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Task{},
		&model.DayRecord{},
		&model.Assignment{},
		&model.Session{},
		&model.Stats{},
		&model.Subscriber{},
	); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}

	seed := model.Stats{ID: model.StatsID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return fmt.Errorf("seed stats: %w", err)
	}
	return nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		if dsn == "" {
			dsn = "focus_tracker.db"
		}
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres requires a DSN")
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
