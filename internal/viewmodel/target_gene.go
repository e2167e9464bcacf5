package viewmodel

import (
	"errors"
	"sort"

	"github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/validation"
)

type WildTypeSequenceCreate struct {
	SequenceType string `json:"sequenceType" validate:"required"`
	Sequence     string `json:"sequence" validate:"required"`
}

func (m *WildTypeSequenceCreate) Rules() []validation.Rule {
	return []validation.Rule{
		validation.Field("sequenceType", func() error { return validation.SequenceType(m.SequenceType) }),
		validation.Field("sequence", func() error { return validation.Sequence(m.SequenceType, m.Sequence) }),
	}
}

type ExternalIdentifierCreate struct {
	DbName     string `json:"dbName" validate:"required"`
	Identifier string `json:"identifier" validate:"required"`
}

func (m *ExternalIdentifierCreate) Rules() []validation.Rule {
	return []validation.Rule{
		validation.Field("dbName", func() error { return validation.DbName(m.DbName) }),
		validation.Field("identifier", func() error { return validation.ExternalIdentifier(m.DbName, m.Identifier) }),
	}
}

type ExternalIdentifierOffsetCreate struct {
	Identifier ExternalIdentifierCreate `json:"identifier"`
	Offset     int                      `json:"offset" validate:"gte=0"`
}

func (m *ExternalIdentifierOffsetCreate) Rules() []validation.Rule {
	return []validation.Rule{validation.Nested("identifier", &m.Identifier)}
}

type ReferenceMapCreate struct {
	GenomeID  int64 `json:"genomeId" validate:"required,gt=0"`
	IsPrimary bool  `json:"isPrimary"`
}

type TargetGeneCreate struct {
	Name                string                           `json:"name" validate:"required"`
	Category            string                           `json:"category" validate:"required"`
	ExternalIdentifiers []ExternalIdentifierOffsetCreate `json:"externalIdentifiers" validate:"dive"`
	ReferenceMaps       []ReferenceMapCreate             `json:"referenceMaps" validate:"required,min=1,dive"`
	WtSequence          *WildTypeSequenceCreate          `json:"wtSequence" validate:"required"`
}

func (m *TargetGeneCreate) Rules() []validation.Rule {
	rules := []validation.Rule{
		validation.Field("category", func() error { return validation.Category(m.Category) }),
		validation.Field("referenceMaps", func() error {
			primaries := 0
			for _, rm := range m.ReferenceMaps {
				if rm.IsPrimary {
					primaries++
				}
			}
			if primaries > 1 {
				return errors.New("at most one reference map may be primary")
			}
			return nil
		}),
	}
	for i := range m.ExternalIdentifiers {
		rules = append(rules, validation.Nested(indexed("externalIdentifiers", i), &m.ExternalIdentifiers[i]))
	}
	if m.WtSequence != nil {
		rules = append(rules, validation.Nested("wtSequence", m.WtSequence))
	}
	return rules
}

// Validate is used when a target gene is built on its own rather than inside a score set.
func (m *TargetGeneCreate) Validate() error { return validation.Validate(m) }

type WildTypeSequence struct {
	SequenceType string `json:"sequenceType"`
	Sequence     string `json:"sequence"`
}

type ExternalIdentifier struct {
	DbName     string `json:"dbName"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
}

type ExternalIdentifierOffset struct {
	Identifier ExternalIdentifier `json:"identifier"`
	Offset     int                `json:"offset"`
}

type ReferenceMap struct {
	ID               int64            `json:"id"`
	GenomeID         int64            `json:"genomeId"`
	TargetID         int64            `json:"targetId"`
	IsPrimary        bool             `json:"isPrimary"`
	Genome           *ReferenceGenome `json:"genome"`
	CreationDate     Date             `json:"creationDate"`
	ModificationDate Date             `json:"modificationDate"`
}

type ShortTargetGene struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type SavedTargetGene struct {
	ShortTargetGene
	ExternalIdentifiers []ExternalIdentifierOffset `json:"externalIdentifiers"`
	ReferenceMaps       []ReferenceMap             `json:"referenceMaps"`
	WtSequence          *WildTypeSequence          `json:"wtSequence"`
}

func NewShortTargetGene(t *domain.TargetGene) *ShortTargetGene {
	if t == nil {
		return nil
	}
	return &ShortTargetGene{Name: t.Name, Category: t.Category}
}

func NewSavedTargetGene(t *domain.TargetGene) *SavedTargetGene {
	if t == nil {
		return nil
	}
	out := &SavedTargetGene{
		ShortTargetGene:     *NewShortTargetGene(t),
		ExternalIdentifiers: make([]ExternalIdentifierOffset, 0, len(t.ExternalIdentifiers)),
		ReferenceMaps:       make([]ReferenceMap, 0, len(t.ReferenceMaps)),
	}
	for _, o := range t.ExternalIdentifiers {
		if o == nil || o.ExternalIdentifier == nil {
			continue
		}
		out.ExternalIdentifiers = append(out.ExternalIdentifiers, ExternalIdentifierOffset{
			Identifier: ExternalIdentifier{
				DbName:     o.ExternalIdentifier.DbName,
				Identifier: o.ExternalIdentifier.Identifier,
				URL:        domain.ExternalURL(o.ExternalIdentifier.DbName, o.ExternalIdentifier.Identifier),
			},
			Offset: o.Offset,
		})
	}
	sort.SliceStable(out.ExternalIdentifiers, func(i, j int) bool {
		a, b := out.ExternalIdentifiers[i].Identifier, out.ExternalIdentifiers[j].Identifier
		if a.DbName != b.DbName {
			return a.DbName < b.DbName
		}
		return a.Identifier < b.Identifier
	})
	for _, rm := range t.ReferenceMaps {
		if rm == nil {
			continue
		}
		out.ReferenceMaps = append(out.ReferenceMaps, ReferenceMap{
			ID:               rm.ID,
			GenomeID:         rm.GenomeID,
			TargetID:         rm.TargetGeneID,
			IsPrimary:        rm.IsPrimary,
			Genome:           NewReferenceGenome(rm.Genome),
			CreationDate:     NewDate(rm.CreatedAt),
			ModificationDate: NewDate(rm.UpdatedAt),
		})
	}
	sort.SliceStable(out.ReferenceMaps, func(i, j int) bool { return out.ReferenceMaps[i].ID < out.ReferenceMaps[j].ID })
	if t.WildTypeSequence != nil {
		out.WtSequence = &WildTypeSequence{
			SequenceType: t.WildTypeSequence.SequenceType,
			Sequence:     t.WildTypeSequence.Sequence,
		}
	}
	return out
}
