package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string
	Postgres   PostgresConfig
	SQLitePath string
}

// Open connects using the configured driver and migrates the schema.
func Open(cfg Config, logg *logger.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverPostgres:
		var svc *PostgresService
		if svc, err = NewPostgresService(cfg.Postgres, logg); err == nil {
			db = svc.DB()
		}
	case DriverSQLite:
		var svc *SQLiteService
		if svc, err = NewSQLiteService(cfg.SQLitePath, logg); err == nil {
			db = svc.DB()
		}
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}
