package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/observability"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
	"github.com/yungbote/mavedb-backend/internal/platform/viewcache"
	"github.com/yungbote/mavedb-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Lookup     services.LookupService
	Experiment services.ExperimentService
	ScoreSet   services.ScoreSetService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics, cache viewcache.Cache) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:   services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.JWTIssuer),
		User:   services.NewUserService(),
		Lookup: services.NewLookupService(log, r.License, r.ReferenceGenome),
		Experiment: services.NewExperimentService(
			db, log, metrics, cache,
			r.ExperimentSet, r.Experiment, r.ScoreSet, r.Identifier,
		),
		ScoreSet: services.NewScoreSetService(
			db, log, metrics, cache,
			r.ExperimentSet, r.Experiment, r.ScoreSet, r.TargetGene, r.Variant,
			r.License, r.ReferenceGenome, r.Identifier,
		),
	}
}
