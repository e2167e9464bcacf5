package viewmodel

import (
	"github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/validation"
)

type ExperimentCreate struct {
	Title              string                    `json:"title" validate:"required"`
	ShortDescription   string                    `json:"shortDescription" validate:"required"`
	AbstractText       string                    `json:"abstractText" validate:"required"`
	MethodText         string                    `json:"methodText" validate:"required"`
	ExtraMetadata      map[string]any            `json:"extraMetadata"`
	Keywords           []string                  `json:"keywords"`
	DoiIdentifiers     []DoiIdentifierCreate     `json:"doiIdentifiers" validate:"dive"`
	PubmedIdentifiers  []PubmedIdentifierCreate  `json:"pubmedIdentifiers" validate:"dive"`
	RawReadIdentifiers []RawReadIdentifierCreate `json:"rawReadIdentifiers" validate:"dive"`
	ExperimentSetURN   *string                   `json:"experimentSetUrn"`
}

func (m *ExperimentCreate) Rules() []validation.Rule {
	rules := []validation.Rule{
		validation.Field("keywords", func() error { return validation.KeywordList(m.Keywords) }),
		validation.Field("experimentSetUrn", func() error {
			if m.ExperimentSetURN == nil {
				return nil
			}
			return validation.ExperimentSetURN(*m.ExperimentSetURN)
		}),
	}
	return append(rules, identifierRules(m.DoiIdentifiers, m.PubmedIdentifiers, m.RawReadIdentifiers)...)
}

func (m *ExperimentCreate) Validate() error { return validation.Validate(m) }

type ExperimentUpdate struct {
	Title              string                    `json:"title" validate:"required"`
	ShortDescription   string                    `json:"shortDescription" validate:"required"`
	AbstractText       string                    `json:"abstractText" validate:"required"`
	MethodText         string                    `json:"methodText" validate:"required"`
	ExtraMetadata      map[string]any            `json:"extraMetadata"`
	Keywords           []string                  `json:"keywords"`
	DoiIdentifiers     []DoiIdentifierCreate     `json:"doiIdentifiers" validate:"dive"`
	PubmedIdentifiers  []PubmedIdentifierCreate  `json:"pubmedIdentifiers" validate:"dive"`
	RawReadIdentifiers []RawReadIdentifierCreate `json:"rawReadIdentifiers" validate:"dive"`
}

func (m *ExperimentUpdate) Rules() []validation.Rule {
	rules := []validation.Rule{
		validation.Field("keywords", func() error { return validation.KeywordList(m.Keywords) }),
	}
	return append(rules, identifierRules(m.DoiIdentifiers, m.PubmedIdentifiers, m.RawReadIdentifiers)...)
}

func (m *ExperimentUpdate) Validate() error { return validation.Validate(m) }

// SavedExperiment mirrors the stored experiment, with related records referenced by URN.
type SavedExperiment struct {
	URN                string         `json:"urn"`
	Title              string         `json:"title"`
	ShortDescription   string         `json:"shortDescription"`
	AbstractText       string         `json:"abstractText"`
	MethodText         string         `json:"methodText"`
	ExtraMetadata      map[string]any `json:"extraMetadata"`
	Keywords           []string       `json:"keywords"`
	ExperimentSetURN   *string        `json:"experimentSetUrn"`
	NumScoreSets       int            `json:"numScoreSets"`
	DoiIdentifiers     []Identifier   `json:"doiIdentifiers"`
	PubmedIdentifiers  []Identifier   `json:"pubmedIdentifiers"`
	RawReadIdentifiers []Identifier   `json:"rawReadIdentifiers"`
	Private            bool           `json:"private"`
	PublishedDate      *Date          `json:"publishedDate"`
	CreationDate       Date           `json:"creationDate"`
	ModificationDate   Date           `json:"modificationDate"`
	CreatedBy          *SavedUser     `json:"createdBy"`
	ModifiedBy         *SavedUser     `json:"modifiedBy"`
}

func NewSavedExperiment(e *domain.Experiment) *SavedExperiment {
	if e == nil {
		return nil
	}
	out := &SavedExperiment{
		URN:                e.URN,
		Title:              e.Title,
		ShortDescription:   e.ShortDescription,
		AbstractText:       e.AbstractText,
		MethodText:         e.MethodText,
		ExtraMetadata:      Object(e.ExtraMetadata),
		Keywords:           keywordTexts(e.Keywords),
		NumScoreSets:       e.NumScoreSets,
		DoiIdentifiers:     NewDoiIdentifiers(e.DoiIdentifiers),
		PubmedIdentifiers:  NewPubmedIdentifiers(e.PubmedIdentifiers),
		RawReadIdentifiers: NewRawReadIdentifiers(e.RawReadIdentifiers),
		Private:            e.Private,
		PublishedDate:      NewDatePtr(e.PublishedDate),
		CreationDate:       NewDate(e.CreatedAt),
		ModificationDate:   NewDate(e.UpdatedAt),
		CreatedBy:          NewSavedUser(e.CreatedBy),
		ModifiedBy:         NewSavedUser(e.ModifiedBy),
	}
	if e.ExperimentSet != nil {
		urn := e.ExperimentSet.URN
		out.ExperimentSetURN = &urn
	}
	return out
}

// Experiment is the public read view; it adds the URNs of the experiment's score sets
// the reader may see.
type Experiment struct {
	SavedExperiment
	ScoreSetURNs []string `json:"scoreSetUrns"`
}

// NewExperiment lists published score sets only, so the view reads the same for every caller.
func NewExperiment(e *domain.Experiment) *Experiment {
	return newExperiment(e, func(s *domain.ScoreSet) bool { return !s.Private })
}

// NewExperimentFor also lists the private score sets viewer owns.
func NewExperimentFor(e *domain.Experiment, viewer *domain.User) *Experiment {
	return newExperiment(e, func(s *domain.ScoreSet) bool { return !s.Private || s.OwnedBy(viewer) })
}

func newExperiment(e *domain.Experiment, visible func(*domain.ScoreSet) bool) *Experiment {
	saved := NewSavedExperiment(e)
	if saved == nil {
		return nil
	}
	urns := make([]string, 0, len(e.ScoreSets))
	for _, s := range e.ScoreSets {
		if s != nil && visible(s) {
			urns = append(urns, s.URN)
		}
	}
	return &Experiment{SavedExperiment: *saved, ScoreSetURNs: sortedStrings(urns)}
}

func allScoreSets(*domain.ScoreSet) bool { return true }

type AdminExperiment struct {
	Experiment
	Approved bool `json:"approved"`
}

func NewAdminExperiment(e *domain.Experiment) *AdminExperiment {
	pub := newExperiment(e, allScoreSets)
	if pub == nil {
		return nil
	}
	return &AdminExperiment{Experiment: *pub, Approved: e.Approved}
}

type ShortExperiment struct {
	URN              string  `json:"urn"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"shortDescription"`
	ExperimentSetURN *string `json:"experimentSetUrn"`
	NumScoreSets     int     `json:"numScoreSets"`
	Private          bool    `json:"private"`
	PublishedDate    *Date   `json:"publishedDate"`
	CreationDate     Date    `json:"creationDate"`
	ModificationDate Date    `json:"modificationDate"`
}

func NewShortExperiment(e *domain.Experiment) *ShortExperiment {
	if e == nil {
		return nil
	}
	out := &ShortExperiment{
		URN:              e.URN,
		Title:            e.Title,
		ShortDescription: e.ShortDescription,
		NumScoreSets:     e.NumScoreSets,
		Private:          e.Private,
		PublishedDate:    NewDatePtr(e.PublishedDate),
		CreationDate:     NewDate(e.CreatedAt),
		ModificationDate: NewDate(e.UpdatedAt),
	}
	if e.ExperimentSet != nil {
		urn := e.ExperimentSet.URN
		out.ExperimentSetURN = &urn
	}
	return out
}

func NewShortExperiments(in []*domain.Experiment) []ShortExperiment {
	out := make([]ShortExperiment, 0, len(in))
	for _, e := range in {
		if s := NewShortExperiment(e); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

type ExperimentSet struct {
	URN              string            `json:"urn"`
	NumExperiments   int               `json:"numExperiments"`
	Private          bool              `json:"private"`
	PublishedDate    *Date             `json:"publishedDate"`
	CreationDate     Date              `json:"creationDate"`
	ModificationDate Date              `json:"modificationDate"`
	CreatedBy        *SavedUser        `json:"createdBy"`
	ModifiedBy       *SavedUser        `json:"modifiedBy"`
	Experiments      []ShortExperiment `json:"experiments"`
}

func NewExperimentSet(s *domain.ExperimentSet) *ExperimentSet {
	if s == nil {
		return nil
	}
	exps := make([]*domain.Experiment, 0, len(s.Experiments))
	for _, e := range s.Experiments {
		if e == nil {
			continue
		}
		if e.ExperimentSet == nil {
			cp := *e
			cp.ExperimentSet = s
			e = &cp
		}
		exps = append(exps, e)
	}
	return &ExperimentSet{
		URN:              s.URN,
		NumExperiments:   s.NumExperiments,
		Private:          s.Private,
		PublishedDate:    NewDatePtr(s.PublishedDate),
		CreationDate:     NewDate(s.CreatedAt),
		ModificationDate: NewDate(s.UpdatedAt),
		CreatedBy:        NewSavedUser(s.CreatedBy),
		ModifiedBy:       NewSavedUser(s.ModifiedBy),
		Experiments:      NewShortExperiments(exps),
	}
}
