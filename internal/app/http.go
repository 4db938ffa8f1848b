package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/http"
	httpH "github.com/yungbote/sitework-backend/internal/http/handlers"
	httpMW "github.com/yungbote/sitework-backend/internal/http/middleware"
	"github.com/yungbote/sitework-backend/internal/observability"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health        *httpH.HealthHandler
	Specification *httpH.SpecificationHandler
	Template      *httpH.TemplateHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:        httpH.NewHealthHandler(db),
		Specification: httpH.NewSpecificationHandler(services.Specification, services.Catalog),
		Template:      httpH.NewTemplateHandler(services.SpecificationTemplate),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if !cfg.AuthRequired {
		log.Warn("AUTH_REQUIRED is off; /api is unauthenticated")
		return Middleware{}
	}
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey)}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                  log,
		ServiceName:          otelServiceName(cfg),
		AllowedOrigins:       cfg.AllowedOrigins,
		Metrics:              metrics,
		AuthMiddleware:       middleware.Auth,
		HealthHandler:        handlers.Health,
		SpecificationHandler: handlers.Specification,
		TemplateHandler:      handlers.Template,
	})
}

// otelServiceName enables the otelgin middleware only when tracing is on.
func otelServiceName(cfg Config) string {
	if !cfg.Otel.Enabled {
		return ""
	}
	return cfg.Otel.ServiceName
}
