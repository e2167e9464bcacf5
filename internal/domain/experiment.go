package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ExperimentSet struct {
	ID             int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	URN            string        `gorm:"uniqueIndex;not null;column:urn" json:"urn"`
	Private        bool          `gorm:"not null;column:private" json:"private"`
	PublishedDate  *time.Time    `gorm:"column:published_date" json:"published_date,omitempty"`
	NumExperiments int           `gorm:"not null;column:num_experiments" json:"num_experiments"`
	CreatedByID    *int64        `gorm:"column:created_by_id;index" json:"created_by_id,omitempty"`
	CreatedBy      *User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ModifiedByID   *int64        `gorm:"column:modified_by_id" json:"modified_by_id,omitempty"`
	ModifiedBy     *User         `gorm:"foreignKey:ModifiedByID" json:"modified_by,omitempty"`
	Experiments    []*Experiment `gorm:"foreignKey:ExperimentSetID" json:"experiments,omitempty"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (ExperimentSet) TableName() string { return "experiment_sets" }

type Experiment struct {
	ID                 int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	URN                string               `gorm:"uniqueIndex;not null;column:urn" json:"urn"`
	ExperimentSetID    int64                `gorm:"not null;column:experiment_set_id;index" json:"experiment_set_id"`
	ExperimentSet      *ExperimentSet       `gorm:"foreignKey:ExperimentSetID" json:"experiment_set,omitempty"`
	Title              string               `gorm:"not null;column:title" json:"title"`
	ShortDescription   string               `gorm:"type:text;not null;column:short_description" json:"short_description"`
	AbstractText       string               `gorm:"type:text;not null;column:abstract_text" json:"abstract_text"`
	MethodText         string               `gorm:"type:text;not null;column:method_text" json:"method_text"`
	ExtraMetadata      datatypes.JSON       `gorm:"column:extra_metadata" json:"extra_metadata,omitempty"`
	Keywords           []*Keyword           `gorm:"many2many:experiment_keywords" json:"keywords,omitempty"`
	DoiIdentifiers     []*DoiIdentifier     `gorm:"many2many:experiment_doi_identifiers" json:"doi_identifiers,omitempty"`
	PubmedIdentifiers  []*PubmedIdentifier  `gorm:"many2many:experiment_pubmed_identifiers" json:"pubmed_identifiers,omitempty"`
	RawReadIdentifiers []*RawReadIdentifier `gorm:"many2many:experiment_raw_read_identifiers" json:"raw_read_identifiers,omitempty"`
	NumScoreSets       int                  `gorm:"not null;column:num_score_sets" json:"num_score_sets"`
	Private            bool                 `gorm:"not null;column:private" json:"private"`
	Approved           bool                 `gorm:"not null;column:approved" json:"approved"`
	PublishedDate      *time.Time           `gorm:"column:published_date" json:"published_date,omitempty"`
	CreatedByID        *int64               `gorm:"column:created_by_id;index" json:"created_by_id,omitempty"`
	CreatedBy          *User                `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ModifiedByID       *int64               `gorm:"column:modified_by_id" json:"modified_by_id,omitempty"`
	ModifiedBy         *User                `gorm:"foreignKey:ModifiedByID" json:"modified_by,omitempty"`
	ScoreSets          []*ScoreSet          `gorm:"foreignKey:ExperimentID" json:"score_sets,omitempty"`
	CreatedAt          time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"not null" json:"updated_at"`
}

func (Experiment) TableName() string { return "experiments" }

func (e *Experiment) OwnedBy(u *User) bool {
	return ownedBy(e.CreatedByID, u)
}

func ownedBy(createdByID *int64, u *User) bool {
	if u == nil {
		return false
	}
	if u.IsSuperuser {
		return true
	}
	return createdByID != nil && *createdByID == u.ID
}

func (s *ExperimentSet) OwnedBy(u *User) bool {
	return ownedBy(s.CreatedByID, u)
}
