package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/mavedb-backend/internal/data/db"
	"github.com/yungbote/mavedb-backend/internal/data/seed"
	"github.com/yungbote/mavedb-backend/internal/http"
	"github.com/yungbote/mavedb-backend/internal/observability"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Server   *http.Server

	dbService *dbpkg.Service
	clients   Clients
}

// Open connects to the database only. It backs the migrate and seed commands.
func Open(cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	dbService, err := dbpkg.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	return &App{
		Log:       log,
		DB:        theDB,
		Cfg:       cfg,
		Repos:     wireRepos(theDB, log),
		dbService: dbService,
	}, nil
}

// New builds the full API server: database, view cache, metrics, services and router.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MetricsEnabled {
		a.Metrics, err = observability.New(0)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init metrics: %w", err)
		}
	}

	a.clients, err = wireClients(a.Log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Services = wireServices(a.DB, a.Log, cfg, a.Repos, a.Metrics, a.clients.ViewCache)
	handlers := wireHandlers(a.Log, a.DB, a.Services)
	middleware := wireMiddleware(a.Log, a.Services)
	a.Server = wireServer(a.Log, cfg, a.Metrics, handlers, middleware)
	return a, nil
}

func (a *App) Migrate() error {
	a.Log.Info("Running migrations...")
	return dbpkg.AutoMigrateAll(a.DB)
}

// Seed loads the reference fixture at path, or the built-in one when path is empty.
func (a *App) Seed(ctx context.Context, path string) error {
	var (
		fx  *seed.Fixture
		err error
	)
	if path == "" {
		fx, err = seed.Default()
	} else {
		fx, err = seed.LoadFile(path)
	}
	if err != nil {
		return err
	}
	return seed.Apply(ctx, a.DB, a.Log, a.Repos.License, a.Repos.ReferenceGenome, fx)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	shutdownOtel := observability.InitOTel(ctx, a.Log, a.Cfg.Otel)

	g, gctx := errgroup.WithContext(ctx)
	if a.Metrics != nil {
		a.Metrics.StartDBCollector(gctx, a.Log, a.DB)
		a.Metrics.StartRecordCollector(gctx, a.Log, a.DB)
		if a.Cfg.RedisAddr != "" {
			a.Metrics.StartRedisCollector(gctx, a.Log, a.Cfg.RedisAddr)
		}
	}

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
		return a.Server.Run(a.Cfg.HTTPAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.Log.Info("Shutting down HTTP server...")
		err := a.Server.Shutdown(shutdownCtx)
		if otelErr := shutdownOtel(shutdownCtx); otelErr != nil {
			a.Log.Warn("OTel shutdown failed", "error", otelErr)
		}
		return err
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("Closing database failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
