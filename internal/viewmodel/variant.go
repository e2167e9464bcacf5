package viewmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gorm.io/datatypes"

	"github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/validation"
)

type VariantCreate struct {
	HgvsNt     *string        `json:"hgvsNt"`
	HgvsPro    *string        `json:"hgvsPro"`
	HgvsSplice *string        `json:"hgvsSplice"`
	Scores     map[string]any `json:"scores" validate:"required,min=1"`
	Counts     map[string]any `json:"counts"`
}

func (m *VariantCreate) Rules() []validation.Rule {
	return []validation.Rule{
		validation.Field("hgvsNt", func() error {
			if nonEmpty(m.HgvsNt) || nonEmpty(m.HgvsPro) || nonEmpty(m.HgvsSplice) {
				return nil
			}
			return errors.New("a variant needs at least one hgvsNt, hgvsPro or hgvsSplice string")
		}),
	}
}

// Data is the JSON payload stored on the variant row.
func (m *VariantCreate) Data() datatypes.JSON {
	b, err := json.Marshal(variantData{Scores: orEmpty(m.Scores), Counts: orEmpty(m.Counts)})
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// VariantUpload replaces every variant of a score set.
type VariantUpload struct {
	Variants []VariantCreate `json:"variants" validate:"required,min=1,dive"`
}

func (m *VariantUpload) Rules() []validation.Rule {
	rules := make([]validation.Rule, 0, len(m.Variants)+1)
	for i := range m.Variants {
		rules = append(rules, validation.Nested(indexed("variants", i), &m.Variants[i]))
	}
	rules = append(rules, validation.Field("variants", func() error {
		if len(m.Variants) == 0 {
			return nil
		}
		scores, counts := keysOf(m.Variants[0].Scores), keysOf(m.Variants[0].Counts)
		for i, v := range m.Variants[1:] {
			if !sameKeys(scores, keysOf(v.Scores)) || !sameKeys(counts, keysOf(v.Counts)) {
				return fmt.Errorf("variant %d does not share the score and count columns of variant 0", i+1)
			}
		}
		return nil
	}))
	return rules
}

func (m *VariantUpload) Validate() error { return validation.Validate(m) }

// DatasetColumns describes the score and count columns shared by the upload.
func (m *VariantUpload) DatasetColumns() datatypes.JSON {
	cols := map[string]any{"scoreColumns": []string{}, "countColumns": []string{}}
	if len(m.Variants) > 0 {
		cols["scoreColumns"] = keysOf(m.Variants[0].Scores)
		cols["countColumns"] = keysOf(m.Variants[0].Counts)
	}
	return JSON(cols)
}

type Variant struct {
	URN              string         `json:"urn"`
	HgvsNt           *string        `json:"hgvsNt"`
	HgvsPro          *string        `json:"hgvsPro"`
	HgvsSplice       *string        `json:"hgvsSplice"`
	Scores           map[string]any `json:"scores"`
	Counts           map[string]any `json:"counts"`
	CreationDate     Date           `json:"creationDate"`
	ModificationDate Date           `json:"modificationDate"`
}

type variantData struct {
	Scores map[string]any `json:"scores"`
	Counts map[string]any `json:"counts"`
}

// NewVariant fails when the stored score payload is not valid JSON.
func NewVariant(v *domain.Variant) (*Variant, error) {
	if v == nil {
		return nil, nil
	}
	var data variantData
	if len(v.Data) > 0 {
		if err := json.Unmarshal(v.Data, &data); err != nil {
			return nil, fmt.Errorf("decode variant %s data: %w", v.URN, err)
		}
	}
	return &Variant{
		URN:              v.URN,
		HgvsNt:           v.HgvsNt,
		HgvsPro:          v.HgvsPro,
		HgvsSplice:       v.HgvsSplice,
		Scores:           orEmpty(data.Scores),
		Counts:           orEmpty(data.Counts),
		CreationDate:     NewDate(v.CreatedAt),
		ModificationDate: NewDate(v.UpdatedAt),
	}, nil
}

func NewVariants(in []*domain.Variant) ([]Variant, error) {
	out := make([]Variant, 0, len(in))
	for _, v := range in {
		vv, err := NewVariant(v)
		if err != nil {
			return nil, err
		}
		if vv != nil {
			out = append(out, *vv)
		}
	}
	return out, nil
}

func nonEmpty(s *string) bool { return s != nil && *s != "" }

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
