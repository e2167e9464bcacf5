// Package seed loads the reference tables (licenses, reference genomes) score sets point at.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/data/repos"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

//go:embed defaults.yaml
var defaults []byte

type License struct {
	ID        int64   `yaml:"id"`
	ShortName string  `yaml:"shortName"`
	LongName  string  `yaml:"longName"`
	Text      string  `yaml:"text"`
	Link      *string `yaml:"link"`
	Version   *string `yaml:"version"`
}

type ReferenceGenome struct {
	ID           int64  `yaml:"id"`
	ShortName    string `yaml:"shortName"`
	OrganismName string `yaml:"organismName"`
}

type Fixture struct {
	Licenses         []License         `yaml:"licenses"`
	ReferenceGenomes []ReferenceGenome `yaml:"referenceGenomes"`
}

// Default returns the fixture compiled into the binary.
func Default() (*Fixture, error) {
	return Load(bytes.NewReader(defaults))
}

func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode seed fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) validate() error {
	seen := map[int64]bool{}
	for i, l := range fx.Licenses {
		if l.ID <= 0 {
			return fmt.Errorf("licenses[%d]: id must be positive", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("licenses[%d]: duplicate id %d", i, l.ID)
		}
		seen[l.ID] = true
		if strings.TrimSpace(l.ShortName) == "" || strings.TrimSpace(l.LongName) == "" {
			return fmt.Errorf("licenses[%d]: shortName and longName are required", i)
		}
	}
	seen = map[int64]bool{}
	for i, g := range fx.ReferenceGenomes {
		if g.ID <= 0 {
			return fmt.Errorf("referenceGenomes[%d]: id must be positive", i)
		}
		if seen[g.ID] {
			return fmt.Errorf("referenceGenomes[%d]: duplicate id %d", i, g.ID)
		}
		seen[g.ID] = true
		if strings.TrimSpace(g.ShortName) == "" || strings.TrimSpace(g.OrganismName) == "" {
			return fmt.Errorf("referenceGenomes[%d]: shortName and organismName are required", i)
		}
	}
	return nil
}

// Apply upserts the fixture by id in one transaction.
func Apply(ctx context.Context, db *gorm.DB, log *logger.Logger, licenseRepo repos.LicenseRepo, genomeRepo repos.ReferenceGenomeRepo, fx *Fixture) error {
	licenses := make([]*types.License, 0, len(fx.Licenses))
	for _, l := range fx.Licenses {
		licenses = append(licenses, &types.License{
			ID: l.ID, ShortName: l.ShortName, LongName: l.LongName, Text: l.Text, Link: l.Link, Version: l.Version,
		})
	}
	genomes := make([]*types.ReferenceGenome, 0, len(fx.ReferenceGenomes))
	for _, g := range fx.ReferenceGenomes {
		genomes = append(genomes, &types.ReferenceGenome{ID: g.ID, ShortName: g.ShortName, OrganismName: g.OrganismName})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := licenseRepo.Upsert(dbc, licenses); err != nil {
			return fmt.Errorf("upsert licenses: %w", err)
		}
		if err := genomeRepo.Upsert(dbc, genomes); err != nil {
			return fmt.Errorf("upsert reference genomes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.WithContext(ctx).Info("Seeded reference data", "licenses", len(licenses), "reference_genomes", len(genomes))
	return nil
}
