package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/data/db"
	"github.com/yungbote/sitework-backend/internal/http"
	"github.com/yungbote/sitework-backend/internal/observability"
	"github.com/yungbote/sitework-backend/internal/platform/envutil"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)
	metrics := observability.Init()

	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}

	reposet := wireRepos(theDB, log)
	clients, err := wireClients(log, cfg, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, cfg)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       wireServer(log, cfg, handlerset, middleware, metrics),
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown stops the HTTP server and flushes traces.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	err := a.Server.Shutdown(ctx)
	if a.otelShutdown != nil {
		if oerr := a.otelShutdown(ctx); oerr != nil {
			a.Log.Warn("OTel shutdown failed", "error", oerr)
		}
	}
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
