package experiment

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

// Visibility selects which private records a list query may return.
type Visibility struct {
	UserID int64
	All    bool
}

func (v Visibility) apply(db *gorm.DB, table string) *gorm.DB {
	if v.All {
		return db
	}
	return db.Where(table+".private = ? OR "+table+".created_by_id = ?", false, v.UserID)
}

type ExperimentRepo interface {
	Create(dbc dbctx.Context, e *types.Experiment) error
	Update(dbc dbctx.Context, e *types.Experiment) error
	ReplaceAssociations(dbc dbctx.Context, e *types.Experiment) error
	GetByURN(dbc dbctx.Context, urn string) (*types.Experiment, error)
	List(dbc dbctx.Context, vis Visibility) ([]*types.Experiment, error)
	URNsInSet(dbc dbctx.Context, setID int64) ([]string, error)
	IncrementScoreSets(dbc dbctx.Context, experimentID int64) error
	MarkPublished(dbc dbctx.Context, experimentID int64, at time.Time) error
}

type experimentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentRepo {
	return &experimentRepo{db: db, log: baseLog.With("repo", "ExperimentRepo")}
}

// Create inserts the experiment row only; linked keywords and identifiers are written by
// ReplaceAssociations.
func (r *experimentRepo) Create(dbc dbctx.Context, e *types.Experiment) error {
	return dbc.DB(r.db).Omit(clause.Associations).Create(e).Error
}

func (r *experimentRepo) Update(dbc dbctx.Context, e *types.Experiment) error {
	return dbc.DB(r.db).
		Model(e).
		Select("title", "short_description", "abstract_text", "method_text", "extra_metadata", "modified_by_id", "updated_at").
		Updates(e).Error
}

func (r *experimentRepo) ReplaceAssociations(dbc dbctx.Context, e *types.Experiment) error {
	db := dbc.DB(r.db)
	if err := replace(db, e, "Keywords", e.Keywords); err != nil {
		return err
	}
	if err := replace(db, e, "DoiIdentifiers", e.DoiIdentifiers); err != nil {
		return err
	}
	if err := replace(db, e, "PubmedIdentifiers", e.PubmedIdentifiers); err != nil {
		return err
	}
	return replace(db, e, "RawReadIdentifiers", e.RawReadIdentifiers)
}

// GetByURN returns nil when no experiment has urn.
func (r *experimentRepo) GetByURN(dbc dbctx.Context, urn string) (*types.Experiment, error) {
	var e types.Experiment
	err := dbc.DB(r.db).
		Preload("ExperimentSet").
		Preload("Keywords").
		Preload("DoiIdentifiers").
		Preload("PubmedIdentifiers").
		Preload("RawReadIdentifiers").
		Preload("CreatedBy").
		Preload("ModifiedBy").
		Preload("ScoreSets").
		Where("urn = ?", urn).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *experimentRepo) List(dbc dbctx.Context, vis Visibility) ([]*types.Experiment, error) {
	var out []*types.Experiment
	q := vis.apply(dbc.DB(r.db).Preload("ExperimentSet"), "experiments")
	if err := q.Order("urn ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *experimentRepo) URNsInSet(dbc dbctx.Context, setID int64) ([]string, error) {
	var urns []string
	if err := dbc.DB(r.db).
		Model(&types.Experiment{}).
		Where("experiment_set_id = ?", setID).
		Pluck("urn", &urns).Error; err != nil {
		return nil, err
	}
	return urns, nil
}

func (r *experimentRepo) IncrementScoreSets(dbc dbctx.Context, experimentID int64) error {
	return dbc.DB(r.db).
		Model(&types.Experiment{}).
		Where("id = ?", experimentID).
		UpdateColumn("num_score_sets", gorm.Expr("num_score_sets + 1")).Error
}

// MarkPublished makes the experiment public; the first publication date is kept.
func (r *experimentRepo) MarkPublished(dbc dbctx.Context, experimentID int64, at time.Time) error {
	if err := dbc.DB(r.db).Model(&types.Experiment{}).
		Where("id = ?", experimentID).
		Update("private", false).Error; err != nil {
		return err
	}
	return dbc.DB(r.db).Model(&types.Experiment{}).
		Where("id = ? AND published_date IS NULL", experimentID).
		Update("published_date", at).Error
}

// replace swaps a many-to-many association for values; an empty list clears it.
func replace[T any](db *gorm.DB, owner any, name string, values []*T) error {
	assoc := db.Model(owner).Association(name)
	if len(values) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}
