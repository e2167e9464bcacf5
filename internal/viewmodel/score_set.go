package viewmodel

import (
	"github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/validation"
)

type ScoreSetCreate struct {
	Title                          string                   `json:"title" validate:"required"`
	ShortDescription               string                   `json:"shortDescription" validate:"required"`
	AbstractText                   string                   `json:"abstractText" validate:"required"`
	MethodText                     string                   `json:"methodText" validate:"required"`
	ExtraMetadata                  map[string]any           `json:"extraMetadata"`
	DataUsagePolicy                *string                  `json:"dataUsagePolicy"`
	Keywords                       []string                 `json:"keywords"`
	ExperimentURN                  string                   `json:"experimentUrn" validate:"required"`
	LicenseID                      int64                    `json:"licenseId" validate:"required,gt=0"`
	SupersededScoreSetURN          *string                  `json:"supersededScoreSetUrn"`
	MetaAnalysisSourceScoreSetURNs []string                 `json:"metaAnalysisSourceScoreSetUrns"`
	TargetGene                     *TargetGeneCreate        `json:"targetGene" validate:"required"`
	DoiIdentifiers                 []DoiIdentifierCreate    `json:"doiIdentifiers" validate:"dive"`
	PubmedIdentifiers              []PubmedIdentifierCreate `json:"pubmedIdentifiers" validate:"dive"`
}

func (m *ScoreSetCreate) Rules() []validation.Rule {
	rules := []validation.Rule{
		validation.Field("keywords", func() error { return validation.KeywordList(m.Keywords) }),
		validation.Field("experimentUrn", func() error { return validation.ExperimentURN(m.ExperimentURN) }),
		validation.Field("supersededScoreSetUrn", func() error {
			if m.SupersededScoreSetURN == nil {
				return nil
			}
			return validation.ScoreSetURN(*m.SupersededScoreSetURN)
		}),
		validation.Field("metaAnalysisSourceScoreSetUrns", func() error {
			return validation.ScoreSetURNs(m.MetaAnalysisSourceScoreSetURNs)
		}),
	}
	if m.TargetGene != nil {
		rules = append(rules, validation.Nested("targetGene", m.TargetGene))
	}
	return append(rules, identifierRules(m.DoiIdentifiers, m.PubmedIdentifiers, nil)...)
}

func (m *ScoreSetCreate) Validate() error { return validation.Validate(m) }

type ScoreSetUpdate struct {
	Title             string                   `json:"title" validate:"required"`
	ShortDescription  string                   `json:"shortDescription" validate:"required"`
	AbstractText      string                   `json:"abstractText" validate:"required"`
	MethodText        string                   `json:"methodText" validate:"required"`
	ExtraMetadata     map[string]any           `json:"extraMetadata"`
	DataUsagePolicy   *string                  `json:"dataUsagePolicy"`
	Keywords          []string                 `json:"keywords"`
	LicenseID         *int64                   `json:"licenseId" validate:"omitempty,gt=0"`
	TargetGene        *TargetGeneCreate        `json:"targetGene" validate:"required"`
	DoiIdentifiers    []DoiIdentifierCreate    `json:"doiIdentifiers" validate:"dive"`
	PubmedIdentifiers []PubmedIdentifierCreate `json:"pubmedIdentifiers" validate:"dive"`
}

func (m *ScoreSetUpdate) Rules() []validation.Rule {
	rules := []validation.Rule{
		validation.Field("keywords", func() error { return validation.KeywordList(m.Keywords) }),
	}
	if m.TargetGene != nil {
		rules = append(rules, validation.Nested("targetGene", m.TargetGene))
	}
	return append(rules, identifierRules(m.DoiIdentifiers, m.PubmedIdentifiers, nil)...)
}

func (m *ScoreSetUpdate) Validate() error { return validation.Validate(m) }

// SavedScoreSet mirrors the stored score set. Related score sets, the experiment and the
// license are referenced by URN or id; the richer views embed them.
type SavedScoreSet struct {
	URN                            string           `json:"urn"`
	Title                          string           `json:"title"`
	ShortDescription               string           `json:"shortDescription"`
	AbstractText                   string           `json:"abstractText"`
	MethodText                     string           `json:"methodText"`
	ExtraMetadata                  map[string]any   `json:"extraMetadata"`
	DataUsagePolicy                *string          `json:"dataUsagePolicy"`
	Keywords                       []string         `json:"keywords"`
	ExperimentURN                  string           `json:"experimentUrn"`
	LicenseID                      int64            `json:"licenseId"`
	SupersededScoreSetURN          *string          `json:"supersededScoreSetUrn"`
	SupersedingScoreSetURN         *string          `json:"supersedingScoreSetUrn"`
	MetaAnalysisSourceScoreSetURNs []string         `json:"metaAnalysisSourceScoreSetUrns"`
	MetaAnalysisURNs               []string         `json:"metaAnalysisUrns"`
	NumVariants                    int              `json:"numVariants"`
	DatasetColumns                 map[string]any   `json:"datasetColumns"`
	DoiIdentifiers                 []Identifier     `json:"doiIdentifiers"`
	PubmedIdentifiers              []Identifier     `json:"pubmedIdentifiers"`
	TargetGene                     *SavedTargetGene `json:"targetGene"`
	Private                        bool             `json:"private"`
	PublishedDate                  *Date            `json:"publishedDate"`
	CreationDate                   Date             `json:"creationDate"`
	ModificationDate               Date             `json:"modificationDate"`
	CreatedBy                      *SavedUser       `json:"createdBy"`
	ModifiedBy                     *SavedUser       `json:"modifiedBy"`
}

func NewSavedScoreSet(s *domain.ScoreSet) *SavedScoreSet {
	if s == nil {
		return nil
	}
	out := &SavedScoreSet{
		URN:                            s.URN,
		Title:                          s.Title,
		ShortDescription:               s.ShortDescription,
		AbstractText:                   s.AbstractText,
		MethodText:                     s.MethodText,
		ExtraMetadata:                  Object(s.ExtraMetadata),
		DataUsagePolicy:                s.DataUsagePolicy,
		Keywords:                       keywordTexts(s.Keywords),
		LicenseID:                      s.LicenseID,
		SupersededScoreSetURN:          urnOf(s.SupersededScoreSet),
		SupersedingScoreSetURN:         urnOf(s.SupersedingScoreSet),
		MetaAnalysisSourceScoreSetURNs: urnsOf(s.MetaAnalysisSources),
		MetaAnalysisURNs:               urnsOf(s.MetaAnalyses),
		NumVariants:                    s.NumVariants,
		DatasetColumns:                 Object(s.DatasetColumns),
		DoiIdentifiers:                 NewDoiIdentifiers(s.DoiIdentifiers),
		PubmedIdentifiers:              NewPubmedIdentifiers(s.PubmedIdentifiers),
		TargetGene:                     NewSavedTargetGene(s.TargetGene),
		Private:                        s.Private,
		PublishedDate:                  NewDatePtr(s.PublishedDate),
		CreationDate:                   NewDate(s.CreatedAt),
		ModificationDate:               NewDate(s.UpdatedAt),
		CreatedBy:                      NewSavedUser(s.CreatedBy),
		ModifiedBy:                     NewSavedUser(s.ModifiedBy),
	}
	if s.Experiment != nil {
		out.ExperimentURN = s.Experiment.URN
	}
	return out
}

// ScoreSet is the read view for regular callers. A superseding score set is embedded one
// level deep; its own successor is only referenced by URN.
type ScoreSet struct {
	SavedScoreSet
	Experiment                  *Experiment     `json:"experiment"`
	License                     *ShortLicense   `json:"license"`
	SupersededScoreSet          *ShortScoreSet  `json:"supersededScoreSet"`
	SupersedingScoreSet         *ScoreSet       `json:"supersedingScoreSet"`
	MetaAnalysisSourceScoreSets []ShortScoreSet `json:"metaAnalysisSourceScoreSets"`
	MetaAnalyses                []ShortScoreSet `json:"metaAnalyses"`
}

func NewScoreSet(s *domain.ScoreSet) *ScoreSet {
	return newScoreSet(s, true)
}

func newScoreSet(s *domain.ScoreSet, withSuccessor bool) *ScoreSet {
	saved := NewSavedScoreSet(s)
	if saved == nil {
		return nil
	}
	out := &ScoreSet{
		SavedScoreSet:               *saved,
		Experiment:                  NewExperiment(s.Experiment),
		License:                     NewShortLicense(s.License),
		SupersededScoreSet:          NewShortScoreSet(s.SupersededScoreSet),
		MetaAnalysisSourceScoreSets: NewShortScoreSets(s.MetaAnalysisSources),
		MetaAnalyses:                NewShortScoreSets(s.MetaAnalyses),
	}
	if withSuccessor {
		out.SupersedingScoreSet = newScoreSet(s.SupersedingScoreSet, false)
	}
	return out
}

type ScoreSetWithVariants struct {
	ScoreSet
	Variants []Variant `json:"variants"`
}

func NewScoreSetWithVariants(s *domain.ScoreSet) (*ScoreSetWithVariants, error) {
	pub := NewScoreSet(s)
	if pub == nil {
		return nil, nil
	}
	variants, err := NewVariants(s.Variants)
	if err != nil {
		return nil, err
	}
	return &ScoreSetWithVariants{ScoreSet: *pub, Variants: variants}, nil
}

// AdminScoreSet adds the curation flags only superusers see.
type AdminScoreSet struct {
	ScoreSet
	Approved   bool `json:"approved"`
	Normalised bool `json:"normalised"`
}

func NewAdminScoreSet(s *domain.ScoreSet) *AdminScoreSet {
	pub := NewScoreSet(s)
	if pub == nil {
		return nil
	}
	pub.Experiment = newExperiment(s.Experiment, allScoreSets)
	return &AdminScoreSet{ScoreSet: *pub, Approved: s.Approved, Normalised: s.Normalised}
}

// ShortScoreSet is used in list responses and for related score sets.
type ShortScoreSet struct {
	URN                   string           `json:"urn"`
	Title                 string           `json:"title"`
	ShortDescription      string           `json:"shortDescription"`
	SupersededScoreSetURN *string          `json:"supersededScoreSetUrn"`
	NumVariants           int              `json:"numVariants"`
	Experiment            *ShortExperiment `json:"experiment"`
	License               *ShortLicense    `json:"license"`
	TargetGene            *ShortTargetGene `json:"targetGene"`
	Private               bool             `json:"private"`
	PublishedDate         *Date            `json:"publishedDate"`
	CreationDate          Date             `json:"creationDate"`
	ModificationDate      Date             `json:"modificationDate"`
}

func NewShortScoreSet(s *domain.ScoreSet) *ShortScoreSet {
	if s == nil {
		return nil
	}
	return &ShortScoreSet{
		URN:                   s.URN,
		Title:                 s.Title,
		ShortDescription:      s.ShortDescription,
		SupersededScoreSetURN: urnOf(s.SupersededScoreSet),
		NumVariants:           s.NumVariants,
		Experiment:            NewShortExperiment(s.Experiment),
		License:               NewShortLicense(s.License),
		TargetGene:            NewShortTargetGene(s.TargetGene),
		Private:               s.Private,
		PublishedDate:         NewDatePtr(s.PublishedDate),
		CreationDate:          NewDate(s.CreatedAt),
		ModificationDate:      NewDate(s.UpdatedAt),
	}
}

func NewShortScoreSets(in []*domain.ScoreSet) []ShortScoreSet {
	out := make([]ShortScoreSet, 0, len(in))
	for _, s := range in {
		if v := NewShortScoreSet(s); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func urnOf(s *domain.ScoreSet) *string {
	if s == nil {
		return nil
	}
	urn := s.URN
	return &urn
}

func urnsOf(in []*domain.ScoreSet) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != nil {
			out = append(out, s.URN)
		}
	}
	return sortedStrings(out)
}
