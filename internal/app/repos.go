package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/data/repos"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	License         repos.LicenseRepo
	ReferenceGenome repos.ReferenceGenomeRepo
	Identifier      repos.IdentifierRepo
	ExperimentSet   repos.ExperimentSetRepo
	Experiment      repos.ExperimentRepo
	ScoreSet        repos.ScoreSetRepo
	TargetGene      repos.TargetGeneRepo
	Variant         repos.VariantRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		License:         repos.NewLicenseRepo(db, log),
		ReferenceGenome: repos.NewReferenceGenomeRepo(db, log),
		Identifier:      repos.NewIdentifierRepo(db, log),
		ExperimentSet:   repos.NewExperimentSetRepo(db, log),
		Experiment:      repos.NewExperimentRepo(db, log),
		ScoreSet:        repos.NewScoreSetRepo(db, log),
		TargetGene:      repos.NewTargetGeneRepo(db, log),
		Variant:         repos.NewVariantRepo(db, log),
	}
}
