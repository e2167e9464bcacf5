package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/http"
	httpH "github.com/yungbote/mavedb-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mavedb-backend/internal/http/middleware"
	"github.com/yungbote/mavedb-backend/internal/observability"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	User       *httpH.UserHandler
	Lookup     *httpH.LookupHandler
	Experiment *httpH.ExperimentHandler
	ScoreSet   *httpH.ScoreSetHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		User:       httpH.NewUserHandler(services.User),
		Lookup:     httpH.NewLookupHandler(services.Lookup),
		Experiment: httpH.NewExperimentHandler(services.Experiment),
		ScoreSet:   httpH.NewScoreSetHandler(services.ScoreSet),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.Otel.ServiceName,
		TracingEnabled:    cfg.Otel.Enabled,
		CORSOrigins:       cfg.CORSOrigins,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		LookupHandler:     handlers.Lookup,
		ExperimentHandler: handlers.Experiment,
		ScoreSetHandler:   handlers.ScoreSet,
		HealthHandler:     handlers.Health,
	})
}
