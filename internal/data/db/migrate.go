package db

import (
	"fmt"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Users and reference data
		&types.User{},
		&types.License{},
		&types.ReferenceGenome{},

		// Identifiers
		&types.Keyword{},
		&types.DoiIdentifier{},
		&types.PubmedIdentifier{},
		&types.RawReadIdentifier{},
		&types.ExternalIdentifier{},

		// Experiments
		&types.ExperimentSet{},
		&types.Experiment{},

		// Score sets
		&types.ScoreSet{},
		&types.WildTypeSequence{},
		&types.TargetGene{},
		&types.TargetGeneIdentifierOffset{},
		&types.ReferenceMap{},
		&types.Variant{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
