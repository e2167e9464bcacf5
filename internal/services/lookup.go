package services

import (
	"context"
	"fmt"

	"github.com/yungbote/mavedb-backend/internal/data/repos"
	"github.com/yungbote/mavedb-backend/internal/platform/apierr"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
	"github.com/yungbote/mavedb-backend/internal/validation"
	"github.com/yungbote/mavedb-backend/internal/viewmodel"
)

// LookupService serves the reference tables clients pick values from.
type LookupService interface {
	Licenses(ctx context.Context) ([]viewmodel.ShortLicense, error)
	License(ctx context.Context, id int64) (*viewmodel.License, error)
	ReferenceGenomes(ctx context.Context) ([]viewmodel.ReferenceGenome, error)
	ReferenceGenome(ctx context.Context, id int64) (*viewmodel.ReferenceGenome, error)
	Keywords(ctx context.Context) []string
}

type lookupService struct {
	log                 *logger.Logger
	licenseRepo         repos.LicenseRepo
	referenceGenomeRepo repos.ReferenceGenomeRepo
}

func NewLookupService(log *logger.Logger, licenseRepo repos.LicenseRepo, referenceGenomeRepo repos.ReferenceGenomeRepo) LookupService {
	return &lookupService{
		log:                 log.With("service", "LookupService"),
		licenseRepo:         licenseRepo,
		referenceGenomeRepo: referenceGenomeRepo,
	}
}

func (ls *lookupService) Licenses(ctx context.Context) ([]viewmodel.ShortLicense, error) {
	rows, err := ls.licenseRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		ls.log.WithContext(ctx).Error("List licenses failed", "error", err)
		return nil, apierr.Internal("list_licenses_failed", err)
	}
	out := make([]viewmodel.ShortLicense, 0, len(rows))
	for _, l := range rows {
		out = append(out, *viewmodel.NewShortLicense(l))
	}
	return out, nil
}

func (ls *lookupService) License(ctx context.Context, id int64) (*viewmodel.License, error) {
	l, err := ls.licenseRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, apierr.Internal("load_license_failed", err)
	}
	if l == nil {
		return nil, apierr.NotFound("license_not_found", fmt.Errorf("license with id %d not found", id))
	}
	return viewmodel.NewLicense(l), nil
}

func (ls *lookupService) ReferenceGenomes(ctx context.Context) ([]viewmodel.ReferenceGenome, error) {
	rows, err := ls.referenceGenomeRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		ls.log.WithContext(ctx).Error("List reference genomes failed", "error", err)
		return nil, apierr.Internal("list_reference_genomes_failed", err)
	}
	out := make([]viewmodel.ReferenceGenome, 0, len(rows))
	for _, g := range rows {
		out = append(out, *viewmodel.NewReferenceGenome(g))
	}
	return out, nil
}

func (ls *lookupService) ReferenceGenome(ctx context.Context, id int64) (*viewmodel.ReferenceGenome, error) {
	rows, err := ls.referenceGenomeRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{id})
	if err != nil {
		return nil, apierr.Internal("load_reference_genome_failed", err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("reference_genome_not_found", fmt.Errorf("reference genome with id %d not found", id))
	}
	return viewmodel.NewReferenceGenome(rows[0]), nil
}

func (ls *lookupService) Keywords(ctx context.Context) []string {
	out := make([]string, len(validation.Keywords))
	copy(out, validation.Keywords)
	return out
}
