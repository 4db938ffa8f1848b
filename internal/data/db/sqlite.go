package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSQLiteService opens a file (or "file::memory:") database for local runs.
func NewSQLiteService(path string, logg *logger.Logger) (*SQLiteService, error) {
	serviceLog := logg.With("service", "SQLiteService")

	db, err := gorm.Open(sqlite.Open(path), gormConfig(serviceLog))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}

	serviceLog.Info("Opened sqlite database", "path", path)
	return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) DB() *gorm.DB { return s.db }
