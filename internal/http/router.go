package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mavedb-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mavedb-backend/internal/http/middleware"
	"github.com/yungbote/mavedb-backend/internal/observability"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler       *httpH.UserHandler
	LookupHandler     *httpH.LookupHandler
	ExperimentHandler *httpH.ExperimentHandler
	ScoreSetHandler   *httpH.ScoreSetHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "mavedb-api"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	public := api.Group("/")
	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		public.Use(cfg.AuthMiddleware.OptionalAuth())
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Reference data
	if cfg.LookupHandler != nil {
		public.GET("/licenses", cfg.LookupHandler.ListLicenses)
		public.GET("/licenses/:id", cfg.LookupHandler.GetLicense)
		public.GET("/reference-genomes", cfg.LookupHandler.ListReferenceGenomes)
		public.GET("/reference-genomes/:id", cfg.LookupHandler.GetReferenceGenome)
		public.GET("/keywords", cfg.LookupHandler.ListKeywords)
	}

	// User (Me)
	if cfg.UserHandler != nil {
		protected.GET("/users/me", cfg.UserHandler.GetMe)
	}

	// Experiments
	if cfg.ExperimentHandler != nil {
		public.GET("/experiment-sets/:urn", cfg.ExperimentHandler.GetExperimentSet)
		public.GET("/experiments", cfg.ExperimentHandler.ListExperiments)
		public.GET("/experiments/:urn", cfg.ExperimentHandler.GetExperiment)
		public.GET("/experiments/:urn/score-sets", cfg.ExperimentHandler.ListExperimentScoreSets)
		protected.POST("/experiments", cfg.ExperimentHandler.CreateExperiment)
		protected.PUT("/experiments/:urn", cfg.ExperimentHandler.UpdateExperiment)
	}

	// Score sets
	if cfg.ScoreSetHandler != nil {
		public.GET("/score-sets", cfg.ScoreSetHandler.ListScoreSets)
		public.GET("/score-sets/:urn", cfg.ScoreSetHandler.GetScoreSet)
		protected.POST("/score-sets", cfg.ScoreSetHandler.CreateScoreSet)
		protected.PUT("/score-sets/:urn", cfg.ScoreSetHandler.UpdateScoreSet)
		protected.PUT("/score-sets/:urn/variants", cfg.ScoreSetHandler.UploadVariants)
		protected.POST("/score-sets/:urn/publish", cfg.ScoreSetHandler.PublishScoreSet)
	}

	return r
}
