package repos

import (
	"github.com/yungbote/mavedb-backend/internal/data/repos/experiment"
	"github.com/yungbote/mavedb-backend/internal/data/repos/identifier"
	"github.com/yungbote/mavedb-backend/internal/data/repos/reference"
	"github.com/yungbote/mavedb-backend/internal/data/repos/scoreset"
	"github.com/yungbote/mavedb-backend/internal/data/repos/user"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type LicenseRepo = reference.LicenseRepo
type ReferenceGenomeRepo = reference.ReferenceGenomeRepo

type IdentifierRepo = identifier.IdentifierRepo

type ExperimentSetRepo = experiment.ExperimentSetRepo
type ExperimentRepo = experiment.ExperimentRepo
type ExperimentVisibility = experiment.Visibility

type ScoreSetRepo = scoreset.ScoreSetRepo
type TargetGeneRepo = scoreset.TargetGeneRepo
type VariantRepo = scoreset.VariantRepo
type ScoreSetVisibility = scoreset.Visibility
type ScoreSetGetOptions = scoreset.GetOptions

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewLicenseRepo(db *gorm.DB, baseLog *logger.Logger) LicenseRepo {
	return reference.NewLicenseRepo(db, baseLog)
}
func NewReferenceGenomeRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceGenomeRepo {
	return reference.NewReferenceGenomeRepo(db, baseLog)
}

func NewIdentifierRepo(db *gorm.DB, baseLog *logger.Logger) IdentifierRepo {
	return identifier.NewIdentifierRepo(db, baseLog)
}

func NewExperimentSetRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentSetRepo {
	return experiment.NewExperimentSetRepo(db, baseLog)
}
func NewExperimentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentRepo {
	return experiment.NewExperimentRepo(db, baseLog)
}

func NewScoreSetRepo(db *gorm.DB, baseLog *logger.Logger) ScoreSetRepo {
	return scoreset.NewScoreSetRepo(db, baseLog)
}
func NewTargetGeneRepo(db *gorm.DB, baseLog *logger.Logger) TargetGeneRepo {
	return scoreset.NewTargetGeneRepo(db, baseLog)
}
func NewVariantRepo(db *gorm.DB, baseLog *logger.Logger) VariantRepo {
	return scoreset.NewVariantRepo(db, baseLog)
}
