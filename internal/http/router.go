package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/sitework-backend/internal/http/handlers"
	httpMW "github.com/yungbote/sitework-backend/internal/http/middleware"
	"github.com/yungbote/sitework-backend/internal/observability"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware       *httpMW.AuthMiddleware
	HealthHandler        *httpH.HealthHandler
	SpecificationHandler *httpH.SpecificationHandler
	TemplateHandler      *httpH.TemplateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Specifications
	if h := cfg.SpecificationHandler; h != nil {
		api.GET("/jobs/:id/specifications", h.ListByJob)
		api.POST("/specifications", h.Create)
		api.GET("/specifications/:id", h.Get)
		api.PATCH("/specifications/:id", h.Update)
		api.DELETE("/specifications/:id", h.Delete)
		api.POST("/specifications/:id/active", h.SetActive)
		api.POST("/specifications/match", h.Match)
		api.POST("/specifications/recommend", h.Recommend)
		api.POST("/specifications/compliance", h.Compliance)
		api.POST("/specifications/filter", h.Filter)
		api.POST("/properties/normalize", h.NormalizeProperties)
	}

	// Templates
	if h := cfg.TemplateHandler; h != nil {
		api.GET("/specification-templates", h.List)
		api.POST("/specification-templates", h.Create)
		api.POST("/specification-templates/:id/instantiate", h.Instantiate)
	}

	return r
}
