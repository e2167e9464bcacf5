package reference

import (
	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type ReferenceGenomeRepo interface {
	Upsert(dbc dbctx.Context, genomes []*types.ReferenceGenome) error
	List(dbc dbctx.Context) ([]*types.ReferenceGenome, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.ReferenceGenome, error)
}

type referenceGenomeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceGenomeRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceGenomeRepo {
	return &referenceGenomeRepo{db: db, log: baseLog.With("repo", "ReferenceGenomeRepo")}
}

func (r *referenceGenomeRepo) Upsert(dbc dbctx.Context, genomes []*types.ReferenceGenome) error {
	if len(genomes) == 0 {
		return nil
	}
	return dbc.DB(r.db).Save(&genomes).Error
}

func (r *referenceGenomeRepo) List(dbc dbctx.Context) ([]*types.ReferenceGenome, error) {
	var out []*types.ReferenceGenome
	if err := dbc.DB(r.db).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceGenomeRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.ReferenceGenome, error) {
	var out []*types.ReferenceGenome
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
