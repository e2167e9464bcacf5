package viewmodel

import (
	"github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/validation"
)

type DoiIdentifierCreate struct {
	Identifier string `json:"identifier" validate:"required"`
}

func (m *DoiIdentifierCreate) Rules() []validation.Rule {
	return []validation.Rule{
		validation.Field("identifier", func() error { return validation.DOI(m.Identifier) }),
	}
}

type PubmedIdentifierCreate struct {
	Identifier string `json:"identifier" validate:"required"`
}

func (m *PubmedIdentifierCreate) Rules() []validation.Rule {
	return []validation.Rule{
		validation.Field("identifier", func() error { return validation.PubMed(m.Identifier) }),
	}
}

type RawReadIdentifierCreate struct {
	Identifier string `json:"identifier" validate:"required"`
}

func (m *RawReadIdentifierCreate) Rules() []validation.Rule {
	return []validation.Rule{
		validation.Field("identifier", func() error { return validation.RawRead(m.Identifier) }),
	}
}

// Identifier is the read shape shared by DOI, PubMed and raw-read identifiers.
type Identifier struct {
	ID         int64  `json:"id"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
}

func NewDoiIdentifiers(in []*domain.DoiIdentifier) []Identifier {
	out := make([]Identifier, 0, len(in))
	for _, d := range in {
		if d != nil {
			out = append(out, Identifier{ID: d.ID, Identifier: d.Identifier, URL: d.URL})
		}
	}
	return out
}

func NewPubmedIdentifiers(in []*domain.PubmedIdentifier) []Identifier {
	out := make([]Identifier, 0, len(in))
	for _, p := range in {
		if p != nil {
			out = append(out, Identifier{ID: p.ID, Identifier: p.Identifier, URL: p.URL})
		}
	}
	return out
}

func NewRawReadIdentifiers(in []*domain.RawReadIdentifier) []Identifier {
	out := make([]Identifier, 0, len(in))
	for _, r := range in {
		if r != nil {
			out = append(out, Identifier{ID: r.ID, Identifier: r.Identifier, URL: r.URL})
		}
	}
	return out
}

func keywordTexts(in []*domain.Keyword) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k != nil {
			out = append(out, k.Text)
		}
	}
	return sortedStrings(out)
}

func identifierRules(dois []DoiIdentifierCreate, pubmeds []PubmedIdentifierCreate, raws []RawReadIdentifierCreate) []validation.Rule {
	var rules []validation.Rule
	for i := range dois {
		rules = append(rules, validation.Nested(indexed("doiIdentifiers", i), &dois[i]))
	}
	for i := range pubmeds {
		rules = append(rules, validation.Nested(indexed("pubmedIdentifiers", i), &pubmeds[i]))
	}
	for i := range raws {
		rules = append(rules, validation.Nested(indexed("rawReadIdentifiers", i), &raws[i]))
	}
	return rules
}
