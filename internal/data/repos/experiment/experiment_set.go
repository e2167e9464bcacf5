package experiment

import (
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type ExperimentSetRepo interface {
	Create(dbc dbctx.Context, set *types.ExperimentSet) error
	GetByURN(dbc dbctx.Context, urn string) (*types.ExperimentSet, error)
	LatestURN(dbc dbctx.Context) (string, error)
	IncrementExperiments(dbc dbctx.Context, setID int64) error
	MarkPublished(dbc dbctx.Context, setID int64, at time.Time) error
}

type experimentSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentSetRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentSetRepo {
	return &experimentSetRepo{db: db, log: baseLog.With("repo", "ExperimentSetRepo")}
}

func (r *experimentSetRepo) Create(dbc dbctx.Context, set *types.ExperimentSet) error {
	return dbc.DB(r.db).Omit("Experiments", "CreatedBy", "ModifiedBy").Create(set).Error
}

// GetByURN returns nil when no set has urn.
func (r *experimentSetRepo) GetByURN(dbc dbctx.Context, urn string) (*types.ExperimentSet, error) {
	var set types.ExperimentSet
	err := dbc.DB(r.db).
		Preload("Experiments", func(db *gorm.DB) *gorm.DB { return db.Order("urn ASC") }).
		Preload("CreatedBy").
		Preload("ModifiedBy").
		Where("urn = ?", urn).
		First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// LatestURN returns the highest permanent set URN, or "" when none exist.
// Set URNs are zero padded so lexical order matches numeric order.
func (r *experimentSetRepo) LatestURN(dbc dbctx.Context) (string, error) {
	var urns []string
	if err := dbc.DB(r.db).
		Model(&types.ExperimentSet{}).
		Where("urn LIKE ?", "urn:mavedb:%").
		Order("urn DESC").
		Limit(1).
		Pluck("urn", &urns).Error; err != nil {
		return "", err
	}
	if len(urns) == 0 {
		return "", nil
	}
	return urns[0], nil
}

func (r *experimentSetRepo) IncrementExperiments(dbc dbctx.Context, setID int64) error {
	return dbc.DB(r.db).
		Model(&types.ExperimentSet{}).
		Where("id = ?", setID).
		UpdateColumn("num_experiments", gorm.Expr("num_experiments + 1")).Error
}

// MarkPublished makes the set public; the first publication date is kept.
func (r *experimentSetRepo) MarkPublished(dbc dbctx.Context, setID int64, at time.Time) error {
	db := dbc.DB(r.db)
	if err := db.Model(&types.ExperimentSet{}).
		Where("id = ?", setID).
		Update("private", false).Error; err != nil {
		return err
	}
	return dbc.DB(r.db).Model(&types.ExperimentSet{}).
		Where("id = ? AND published_date IS NULL", setID).
		Update("published_date", at).Error
}
