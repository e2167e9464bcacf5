package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ScoreSet struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	URN              string         `gorm:"uniqueIndex;not null;column:urn" json:"urn"`
	ExperimentID     int64          `gorm:"not null;column:experiment_id;index" json:"experiment_id"`
	Experiment       *Experiment    `gorm:"foreignKey:ExperimentID" json:"experiment,omitempty"`
	LicenseID        int64          `gorm:"not null;column:license_id" json:"license_id"`
	License          *License       `gorm:"foreignKey:LicenseID" json:"license,omitempty"`
	Title            string         `gorm:"not null;column:title" json:"title"`
	ShortDescription string         `gorm:"type:text;not null;column:short_description" json:"short_description"`
	AbstractText     string         `gorm:"type:text;not null;column:abstract_text" json:"abstract_text"`
	MethodText       string         `gorm:"type:text;not null;column:method_text" json:"method_text"`
	ExtraMetadata    datatypes.JSON `gorm:"column:extra_metadata" json:"extra_metadata,omitempty"`
	DataUsagePolicy  *string        `gorm:"type:text;column:data_usage_policy" json:"data_usage_policy,omitempty"`

	Keywords          []*Keyword          `gorm:"many2many:score_set_keywords" json:"keywords,omitempty"`
	DoiIdentifiers    []*DoiIdentifier    `gorm:"many2many:score_set_doi_identifiers" json:"doi_identifiers,omitempty"`
	PubmedIdentifiers []*PubmedIdentifier `gorm:"many2many:score_set_pubmed_identifiers" json:"pubmed_identifiers,omitempty"`

	// A score set has at most one direct predecessor and at most one direct successor.
	SupersededScoreSetID *int64    `gorm:"column:superseded_score_set_id;uniqueIndex" json:"superseded_score_set_id,omitempty"`
	SupersededScoreSet   *ScoreSet `gorm:"foreignKey:SupersededScoreSetID" json:"superseded_score_set,omitempty"`
	// Loaded explicitly by the repository; not a gorm relation.
	SupersedingScoreSet *ScoreSet `gorm:"-" json:"superseding_score_set,omitempty"`

	MetaAnalysisSources []*ScoreSet `gorm:"many2many:score_set_meta_analysis_sources;joinForeignKey:MetaAnalysisScoreSetID;joinReferences:SourceScoreSetID" json:"meta_analysis_sources,omitempty"`
	MetaAnalyses        []*ScoreSet `gorm:"many2many:score_set_meta_analysis_sources;joinForeignKey:SourceScoreSetID;joinReferences:MetaAnalysisScoreSetID" json:"meta_analyses,omitempty"`

	NumVariants    int            `gorm:"not null;column:num_variants" json:"num_variants"`
	DatasetColumns datatypes.JSON `gorm:"column:dataset_columns" json:"dataset_columns,omitempty"`
	Private        bool           `gorm:"not null;column:private" json:"private"`
	Approved       bool           `gorm:"not null;column:approved" json:"approved"`
	Normalised     bool           `gorm:"not null;column:normalised" json:"normalised"`
	PublishedDate  *time.Time     `gorm:"column:published_date" json:"published_date,omitempty"`

	CreatedByID  *int64 `gorm:"column:created_by_id;index" json:"created_by_id,omitempty"`
	CreatedBy    *User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ModifiedByID *int64 `gorm:"column:modified_by_id" json:"modified_by_id,omitempty"`
	ModifiedBy   *User  `gorm:"foreignKey:ModifiedByID" json:"modified_by,omitempty"`

	TargetGene *TargetGene `gorm:"foreignKey:ScoreSetID" json:"target_gene,omitempty"`
	Variants   []*Variant  `gorm:"foreignKey:ScoreSetID" json:"variants,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ScoreSet) TableName() string { return "score_sets" }

func (s *ScoreSet) OwnedBy(u *User) bool {
	return ownedBy(s.CreatedByID, u)
}

type Variant struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	URN        string         `gorm:"uniqueIndex;not null;column:urn" json:"urn"`
	ScoreSetID int64          `gorm:"not null;column:score_set_id;index" json:"score_set_id"`
	HgvsNt     *string        `gorm:"column:hgvs_nt" json:"hgvs_nt,omitempty"`
	HgvsPro    *string        `gorm:"column:hgvs_pro" json:"hgvs_pro,omitempty"`
	HgvsSplice *string        `gorm:"column:hgvs_splice" json:"hgvs_splice,omitempty"`
	Data       datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (Variant) TableName() string { return "variants" }
