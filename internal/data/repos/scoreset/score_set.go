package scoreset

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

// Visibility selects which private score sets a list query may return.
type Visibility struct {
	UserID int64
	All    bool
}

type GetOptions struct {
	Variants bool
}

type ScoreSetRepo interface {
	Create(dbc dbctx.Context, s *types.ScoreSet) error
	Update(dbc dbctx.Context, s *types.ScoreSet) error
	ReplaceAssociations(dbc dbctx.Context, s *types.ScoreSet) error
	GetByURN(dbc dbctx.Context, urn string, opts GetOptions) (*types.ScoreSet, error)
	GetByURNs(dbc dbctx.Context, urns []string) ([]*types.ScoreSet, error)
	GetSuccessor(dbc dbctx.Context, scoreSetID int64) (*types.ScoreSet, error)
	HasSuccessor(dbc dbctx.Context, scoreSetID int64) (bool, error)
	List(dbc dbctx.Context, vis Visibility) ([]*types.ScoreSet, error)
	ListByExperiment(dbc dbctx.Context, experimentID int64, vis Visibility) ([]*types.ScoreSet, error)
	URNsInExperiment(dbc dbctx.Context, experimentID int64) ([]string, error)
	Count(dbc dbctx.Context) (int64, error)
	MarkPublished(dbc dbctx.Context, scoreSetID int64, at time.Time) error
}

type scoreSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreSetRepo(db *gorm.DB, baseLog *logger.Logger) ScoreSetRepo {
	return &scoreSetRepo{db: db, log: baseLog.With("repo", "ScoreSetRepo")}
}

// Create inserts the score set row only. The target gene, variants and many-to-many links
// have their own writers.
func (r *scoreSetRepo) Create(dbc dbctx.Context, s *types.ScoreSet) error {
	return dbc.DB(r.db).Omit(clause.Associations).Create(s).Error
}

func (r *scoreSetRepo) Update(dbc dbctx.Context, s *types.ScoreSet) error {
	return dbc.DB(r.db).
		Model(s).
		Select(
			"title", "short_description", "abstract_text", "method_text", "extra_metadata",
			"data_usage_policy", "license_id", "num_variants", "dataset_columns",
			"modified_by_id", "updated_at",
		).
		Updates(s).Error
}

func (r *scoreSetRepo) ReplaceAssociations(dbc dbctx.Context, s *types.ScoreSet) error {
	db := dbc.DB(r.db)
	if err := replace(db, s, "Keywords", s.Keywords); err != nil {
		return err
	}
	if err := replace(db, s, "DoiIdentifiers", s.DoiIdentifiers); err != nil {
		return err
	}
	if err := replace(db, s, "PubmedIdentifiers", s.PubmedIdentifiers); err != nil {
		return err
	}
	return replace(db, s, "MetaAnalysisSources", s.MetaAnalysisSources)
}

func related(prefix string) []string {
	return []string{
		prefix + "Experiment",
		prefix + "Experiment.ExperimentSet",
		prefix + "License",
		prefix + "TargetGene",
		prefix + "SupersededScoreSet",
	}
}

func preloadFull(db *gorm.DB) *gorm.DB {
	paths := []string{
		"Experiment",
		"Experiment.ExperimentSet",
		"Experiment.Keywords",
		"Experiment.DoiIdentifiers",
		"Experiment.PubmedIdentifiers",
		"Experiment.RawReadIdentifiers",
		"Experiment.CreatedBy",
		"Experiment.ModifiedBy",
		"Experiment.ScoreSets",
		"License",
		"Keywords",
		"DoiIdentifiers",
		"PubmedIdentifiers",
		"TargetGene",
		"TargetGene.WildTypeSequence",
		"TargetGene.ExternalIdentifiers",
		"TargetGene.ExternalIdentifiers.ExternalIdentifier",
		"TargetGene.ReferenceMaps",
		"TargetGene.ReferenceMaps.Genome",
		"CreatedBy",
		"ModifiedBy",
		"MetaAnalysisSources",
		"MetaAnalyses",
	}
	paths = append(paths, related("SupersededScoreSet.")...)
	paths = append(paths, related("MetaAnalysisSources.")...)
	paths = append(paths, related("MetaAnalyses.")...)
	for _, p := range paths {
		db = db.Preload(p)
	}
	return db
}

func preloadShort(db *gorm.DB) *gorm.DB {
	for _, p := range related("") {
		db = db.Preload(p)
	}
	return db
}

// GetByURN loads a score set with everything its read views need, including its direct
// successor. Returns nil when no score set has urn.
func (r *scoreSetRepo) GetByURN(dbc dbctx.Context, urn string, opts GetOptions) (*types.ScoreSet, error) {
	q := preloadFull(dbc.DB(r.db))
	if opts.Variants {
		q = q.Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}
	var s types.ScoreSet
	err := q.Where("urn = ?", urn).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	succ, err := r.GetSuccessor(dbc, s.ID)
	if err != nil {
		return nil, err
	}
	s.SupersedingScoreSet = succ
	return &s, nil
}

// GetSuccessor loads the score set superseding scoreSetID, with only the URN of its own
// successor resolved. Returns nil when there is none.
func (r *scoreSetRepo) GetSuccessor(dbc dbctx.Context, scoreSetID int64) (*types.ScoreSet, error) {
	var succ types.ScoreSet
	err := preloadFull(dbc.DB(r.db)).Where("superseded_score_set_id = ?", scoreSetID).First(&succ).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var next []types.ScoreSet
	if err := dbc.DB(r.db).
		Select("id", "urn").
		Where("superseded_score_set_id = ?", succ.ID).
		Limit(1).
		Find(&next).Error; err != nil {
		return nil, err
	}
	if len(next) == 1 {
		succ.SupersedingScoreSet = &next[0]
	}
	return &succ, nil
}

func (r *scoreSetRepo) HasSuccessor(dbc dbctx.Context, scoreSetID int64) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.ScoreSet{}).
		Where("superseded_score_set_id = ?", scoreSetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByURNs loads the score sets that exist among urns, in no particular order.
func (r *scoreSetRepo) GetByURNs(dbc dbctx.Context, urns []string) ([]*types.ScoreSet, error) {
	var out []*types.ScoreSet
	if len(urns) == 0 {
		return out, nil
	}
	if err := preloadShort(dbc.DB(r.db)).Where("urn IN ?", urns).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (v Visibility) apply(db *gorm.DB) *gorm.DB {
	if v.All {
		return db
	}
	return db.Where("score_sets.private = ? OR score_sets.created_by_id = ?", false, v.UserID)
}

func (r *scoreSetRepo) List(dbc dbctx.Context, vis Visibility) ([]*types.ScoreSet, error) {
	var out []*types.ScoreSet
	if err := vis.apply(preloadShort(dbc.DB(r.db))).Order("urn ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreSetRepo) ListByExperiment(dbc dbctx.Context, experimentID int64, vis Visibility) ([]*types.ScoreSet, error) {
	var out []*types.ScoreSet
	q := vis.apply(preloadShort(dbc.DB(r.db)).Where("score_sets.experiment_id = ?", experimentID))
	if err := q.Order("urn ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreSetRepo) URNsInExperiment(dbc dbctx.Context, experimentID int64) ([]string, error) {
	var urns []string
	if err := dbc.DB(r.db).
		Model(&types.ScoreSet{}).
		Where("experiment_id = ?", experimentID).
		Pluck("urn", &urns).Error; err != nil {
		return nil, err
	}
	return urns, nil
}

func (r *scoreSetRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.ScoreSet{}).Count(&n).Error
	return n, err
}

// MarkPublished makes the score set public; the first publication date is kept.
func (r *scoreSetRepo) MarkPublished(dbc dbctx.Context, scoreSetID int64, at time.Time) error {
	if err := dbc.DB(r.db).Model(&types.ScoreSet{}).
		Where("id = ?", scoreSetID).
		Update("private", false).Error; err != nil {
		return err
	}
	return dbc.DB(r.db).Model(&types.ScoreSet{}).
		Where("id = ? AND published_date IS NULL", scoreSetID).
		Update("published_date", at).Error
}

func replace[T any](db *gorm.DB, owner any, name string, values []*T) error {
	assoc := db.Model(owner).Association(name)
	if len(values) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}
