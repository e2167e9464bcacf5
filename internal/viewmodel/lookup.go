package viewmodel

import "github.com/yungbote/mavedb-backend/internal/domain"

type ShortLicense struct {
	ID        int64   `json:"id"`
	ShortName string  `json:"shortName"`
	LongName  string  `json:"longName"`
	Link      *string `json:"link"`
	Version   *string `json:"version"`
}

type License struct {
	ShortLicense
	Text             string `json:"text"`
	CreationDate     Date   `json:"creationDate"`
	ModificationDate Date   `json:"modificationDate"`
}

func NewShortLicense(l *domain.License) *ShortLicense {
	if l == nil {
		return nil
	}
	return &ShortLicense{ID: l.ID, ShortName: l.ShortName, LongName: l.LongName, Link: l.Link, Version: l.Version}
}

func NewLicense(l *domain.License) *License {
	if l == nil {
		return nil
	}
	return &License{
		ShortLicense:     *NewShortLicense(l),
		Text:             l.Text,
		CreationDate:     NewDate(l.CreatedAt),
		ModificationDate: NewDate(l.UpdatedAt),
	}
}

type ReferenceGenome struct {
	ID               int64  `json:"id"`
	ShortName        string `json:"shortName"`
	OrganismName     string `json:"organismName"`
	CreationDate     Date   `json:"creationDate"`
	ModificationDate Date   `json:"modificationDate"`
}

func NewReferenceGenome(g *domain.ReferenceGenome) *ReferenceGenome {
	if g == nil {
		return nil
	}
	return &ReferenceGenome{
		ID:               g.ID,
		ShortName:        g.ShortName,
		OrganismName:     g.OrganismName,
		CreationDate:     NewDate(g.CreatedAt),
		ModificationDate: NewDate(g.UpdatedAt),
	}
}
