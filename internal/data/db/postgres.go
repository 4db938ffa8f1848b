package db

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds a postgres:// URL; user and password are escaped.
func (c PostgresConfig) DSN() string {
	mode := c.SSLMode
	if mode == "" {
		mode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {mode}}.Encode(),
	}
	return u.String()
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg PostgresConfig, logg *logger.Logger) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	conn, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(serviceLog))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s/%s: %w", cfg.Host, cfg.Name, err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	serviceLog.Info("Connected to Postgres",
		"host", cfg.Host,
		"database", cfg.Name,
		"sslmode", cfg.SSLMode,
		"max_open_conns", cfg.MaxOpenConns,
	)
	return &PostgresService{db: conn, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }
