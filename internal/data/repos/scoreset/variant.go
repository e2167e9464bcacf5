package scoreset

import (
	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

const variantBatchSize = 500

type VariantRepo interface {
	Replace(dbc dbctx.Context, scoreSetID int64, variants []*types.Variant) error
	CountByScoreSet(dbc dbctx.Context, scoreSetID int64) (int64, error)
}

type variantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVariantRepo(db *gorm.DB, baseLog *logger.Logger) VariantRepo {
	return &variantRepo{db: db, log: baseLog.With("repo", "VariantRepo")}
}

func (r *variantRepo) Replace(dbc dbctx.Context, scoreSetID int64, variants []*types.Variant) error {
	db := dbc.DB(r.db)
	if err := db.Where("score_set_id = ?", scoreSetID).Delete(&types.Variant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	for _, v := range variants {
		v.ScoreSetID = scoreSetID
	}
	return db.CreateInBatches(variants, variantBatchSize).Error
}

func (r *variantRepo) CountByScoreSet(dbc dbctx.Context, scoreSetID int64) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Variant{}).Where("score_set_id = ?", scoreSetID).Count(&n).Error
	return n, err
}
