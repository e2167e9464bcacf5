package scoreset

import (
	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type TargetGeneRepo interface {
	// Replace removes the score set's current target gene and stores tg in its place.
	// External identifiers on tg must already carry their ExternalIdentifierID.
	Replace(dbc dbctx.Context, scoreSetID int64, tg *types.TargetGene) error
}

type targetGeneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTargetGeneRepo(db *gorm.DB, baseLog *logger.Logger) TargetGeneRepo {
	return &targetGeneRepo{db: db, log: baseLog.With("repo", "TargetGeneRepo")}
}

func (r *targetGeneRepo) Replace(dbc dbctx.Context, scoreSetID int64, tg *types.TargetGene) error {
	db := dbc.DB(r.db)

	var existing []types.TargetGene
	if err := db.Where("score_set_id = ?", scoreSetID).Find(&existing).Error; err != nil {
		return err
	}
	for _, old := range existing {
		if err := db.Where("target_gene_id = ?", old.ID).Delete(&types.TargetGeneIdentifierOffset{}).Error; err != nil {
			return err
		}
		if err := db.Where("target_id = ?", old.ID).Delete(&types.ReferenceMap{}).Error; err != nil {
			return err
		}
		if err := db.Delete(&types.TargetGene{}, old.ID).Error; err != nil {
			return err
		}
		if err := db.Delete(&types.WildTypeSequence{}, old.WildTypeSequenceID).Error; err != nil {
			return err
		}
	}

	seq := tg.WildTypeSequence
	if err := db.Create(seq).Error; err != nil {
		return err
	}
	tg.ID = 0
	tg.ScoreSetID = scoreSetID
	tg.WildTypeSequenceID = seq.ID
	if err := db.Omit("WildTypeSequence", "ExternalIdentifiers", "ReferenceMaps").Create(tg).Error; err != nil {
		return err
	}
	for _, off := range tg.ExternalIdentifiers {
		off.TargetGeneID = tg.ID
		if err := db.Omit("ExternalIdentifier").Create(off).Error; err != nil {
			return err
		}
	}
	for _, rm := range tg.ReferenceMaps {
		rm.ID = 0
		rm.TargetGeneID = tg.ID
		if err := db.Omit("Genome").Create(rm).Error; err != nil {
			return err
		}
	}
	return nil
}
