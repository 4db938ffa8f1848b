package app

import (
	"strings"
	"time"

	"github.com/yungbote/sitework-backend/internal/data/db"
	"github.com/yungbote/sitework-backend/internal/observability"
	"github.com/yungbote/sitework-backend/internal/platform/envutil"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type Config struct {
	Port           string
	LogMode        string
	DB             db.Config
	RedisAddr      string
	SpecCacheTTL   time.Duration
	JWTSecretKey   string
	AuthRequired   bool
	Concurrency    int
	AllowedOrigins []string
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		DB: db.Config{
			Driver: envutil.String("DB_DRIVER", db.DriverPostgres),
			Postgres: db.PostgresConfig{
				Host:     envutil.String("POSTGRES_HOST", "localhost"),
				Port:     envutil.String("POSTGRES_PORT", "5432"),
				User:     envutil.String("POSTGRES_USER", "postgres"),
				Password: envutil.String("POSTGRES_PASSWORD", ""),
				Name:     envutil.String("POSTGRES_NAME", "sitework"),
				SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),

				MaxOpenConns:    envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
				MaxIdleConns:    envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: envutil.Seconds("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800),
			},
			SQLitePath: envutil.String("SQLITE_PATH", "sitework.db"),
		},
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		SpecCacheTTL:   envutil.Seconds("SPEC_CACHE_TTL_SECONDS", 300),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AuthRequired:   envutil.Bool("AUTH_REQUIRED", true),
		Concurrency:    envutil.Int("COMPLIANCE_CONCURRENCY", 8),
		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("SERVICE_NAME", "sitework-backend"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
	if log != nil {
		if cfg.JWTSecretKey == "defaultsecret" && cfg.AuthRequired {
			log.Warn("JWT_SECRET_KEY not set; using the default secret")
		}
		log.Info("Config loaded",
			"port", cfg.Port,
			"db_driver", cfg.DB.Driver,
			"spec_cache", cfg.RedisAddr != "",
			"auth_required", cfg.AuthRequired,
			"compliance_concurrency", cfg.Concurrency,
			"tracing", cfg.Otel.Enabled,
		)
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
