package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/data/repos"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/observability"
	"github.com/yungbote/mavedb-backend/internal/platform/apierr"
	"github.com/yungbote/mavedb-backend/internal/platform/ctxutil"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
	"github.com/yungbote/mavedb-backend/internal/platform/viewcache"
	"github.com/yungbote/mavedb-backend/internal/validation"
	"github.com/yungbote/mavedb-backend/internal/viewmodel"
)

type ScoreSetGetOptions struct {
	IncludeVariants bool
}

type ScoreSetService interface {
	Create(ctx context.Context, in *viewmodel.ScoreSetCreate) (*viewmodel.ScoreSet, error)
	Update(ctx context.Context, urn string, in *viewmodel.ScoreSetUpdate) (*viewmodel.ScoreSet, error)
	UploadVariants(ctx context.Context, urn string, in *viewmodel.VariantUpload) (*viewmodel.ScoreSet, error)
	Publish(ctx context.Context, urn string) (*viewmodel.ScoreSet, error)
	// Get returns *viewmodel.ScoreSetWithVariants when variants are requested,
	// *viewmodel.AdminScoreSet for superusers and *viewmodel.ScoreSet otherwise.
	Get(ctx context.Context, urn string, opts ScoreSetGetOptions) (any, error)
	List(ctx context.Context) ([]viewmodel.ShortScoreSet, error)
}

type scoreSetService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	metrics             *observability.Metrics
	cache               viewcache.Cache
	experimentSetRepo   repos.ExperimentSetRepo
	experimentRepo      repos.ExperimentRepo
	scoreSetRepo        repos.ScoreSetRepo
	targetGeneRepo      repos.TargetGeneRepo
	variantRepo         repos.VariantRepo
	licenseRepo         repos.LicenseRepo
	referenceGenomeRepo repos.ReferenceGenomeRepo
	identifierRepo      repos.IdentifierRepo
}

func NewScoreSetService(
	db *gorm.DB,
	log *logger.Logger,
	metrics *observability.Metrics,
	cache viewcache.Cache,
	experimentSetRepo repos.ExperimentSetRepo,
	experimentRepo repos.ExperimentRepo,
	scoreSetRepo repos.ScoreSetRepo,
	targetGeneRepo repos.TargetGeneRepo,
	variantRepo repos.VariantRepo,
	licenseRepo repos.LicenseRepo,
	referenceGenomeRepo repos.ReferenceGenomeRepo,
	identifierRepo repos.IdentifierRepo,
) ScoreSetService {
	if cache == nil {
		cache = viewcache.Nop()
	}
	return &scoreSetService{
		db:                  db,
		log:                 log.With("service", "ScoreSetService"),
		metrics:             metrics,
		cache:               cache,
		experimentSetRepo:   experimentSetRepo,
		experimentRepo:      experimentRepo,
		scoreSetRepo:        scoreSetRepo,
		targetGeneRepo:      targetGeneRepo,
		variantRepo:         variantRepo,
		licenseRepo:         licenseRepo,
		referenceGenomeRepo: referenceGenomeRepo,
		identifierRepo:      identifierRepo,
	}
}

// scoreSetRefs are the records a create or update payload points at.
type scoreSetRefs struct {
	experiment  *types.Experiment
	superseded  *types.ScoreSet
	metaSources []*types.ScoreSet
}

type refRequest struct {
	experimentURN  *string
	licenseID      *int64
	supersededURN  *string
	metaSourceURNs []string
	targetGene     *viewmodel.TargetGeneCreate
}

// resolveRefs loads every referenced record and reports all that are missing at once,
// before anything is written.
func (ss *scoreSetService) resolveRefs(dbc dbctx.Context, req refRequest) (*scoreSetRefs, error) {
	refs := &scoreSetRefs{}
	missing := &validation.Error{}

	if req.experimentURN != nil {
		exp, err := ss.experimentRepo.GetByURN(dbc, *req.experimentURN)
		if err != nil {
			return nil, err
		}
		if exp == nil {
			missing.Fields = append(missing.Fields, apierr.FieldError{
				Field:   "experimentUrn",
				Message: fmt.Sprintf("experiment with URN '%s' not found", *req.experimentURN),
			})
		}
		refs.experiment = exp
	}

	if req.licenseID != nil {
		lic, err := ss.licenseRepo.GetByID(dbc, *req.licenseID)
		if err != nil {
			return nil, err
		}
		if lic == nil {
			missing.Fields = append(missing.Fields, apierr.FieldError{
				Field:   "licenseId",
				Message: fmt.Sprintf("license with id %d not found", *req.licenseID),
			})
		}
	}

	if req.supersededURN != nil {
		found, err := ss.scoreSetRepo.GetByURNs(dbc, []string{*req.supersededURN})
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			missing.Fields = append(missing.Fields, apierr.FieldError{
				Field:   "supersededScoreSetUrn",
				Message: fmt.Sprintf("score set with URN '%s' not found", *req.supersededURN),
			})
		} else {
			refs.superseded = found[0]
		}
	}

	if len(req.metaSourceURNs) > 0 {
		found, err := ss.scoreSetRepo.GetByURNs(dbc, req.metaSourceURNs)
		if err != nil {
			return nil, err
		}
		byURN := make(map[string]*types.ScoreSet, len(found))
		for _, s := range found {
			byURN[s.URN] = s
		}
		seen := make(map[string]bool, len(req.metaSourceURNs))
		for _, urn := range req.metaSourceURNs {
			if seen[urn] {
				continue
			}
			seen[urn] = true
			s, ok := byURN[urn]
			if !ok {
				missing.Fields = append(missing.Fields, apierr.FieldError{
					Field:   "metaAnalysisSourceScoreSetUrns",
					Message: fmt.Sprintf("score set with URN '%s' not found", urn),
				})
				break
			}
			refs.metaSources = append(refs.metaSources, s)
		}
	}

	if req.targetGene != nil && len(req.targetGene.ReferenceMaps) > 0 {
		ids := make([]int64, 0, len(req.targetGene.ReferenceMaps))
		for _, rm := range req.targetGene.ReferenceMaps {
			ids = append(ids, rm.GenomeID)
		}
		genomes, err := ss.referenceGenomeRepo.GetByIDs(dbc, ids)
		if err != nil {
			return nil, err
		}
		known := make(map[int64]bool, len(genomes))
		for _, g := range genomes {
			known[g.ID] = true
		}
		for i, rm := range req.targetGene.ReferenceMaps {
			if !known[rm.GenomeID] {
				missing.Fields = append(missing.Fields, apierr.FieldError{
					Field:   fmt.Sprintf("targetGene.referenceMaps[%d].genomeId", i),
					Message: fmt.Sprintf("reference genome with id %d not found", rm.GenomeID),
				})
			}
		}
	}

	if len(missing.Fields) > 0 {
		return nil, unknownReference(missing)
	}
	return refs, nil
}

// Create stores a new private score set under an experiment the caller owns.
func (ss *scoreSetService) Create(ctx context.Context, in *viewmodel.ScoreSetCreate) (*viewmodel.ScoreSet, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(ss.metrics, "ScoreSetCreate", err)
	}

	var (
		urn      string
		siblings []string
	)
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		refs, err := ss.resolveRefs(dbc, refRequest{
			experimentURN:  &in.ExperimentURN,
			licenseID:      &in.LicenseID,
			supersededURN:  in.SupersededScoreSetURN,
			metaSourceURNs: in.MetaAnalysisSourceScoreSetURNs,
			targetGene:     in.TargetGene,
		})
		if err != nil {
			return err
		}
		exp := refs.experiment
		if err := requireOwner(user, exp, "experiment", exp.URN); err != nil {
			return err
		}
		if prev := refs.superseded; prev != nil {
			if err := requireOwner(user, prev, "score set", prev.URN); err != nil {
				return err
			}
			has, err := ss.scoreSetRepo.HasSuccessor(dbc, prev.ID)
			if err != nil {
				return err
			}
			if has {
				ss.metrics.IncWriteConflict("score_set")
				return apierr.Conflict("already_superseded", fmt.Errorf("score set '%s' has already been superseded", prev.URN))
			}
		}

		existing, err := ss.scoreSetRepo.URNsInExperiment(dbc, exp.ID)
		if err != nil {
			return err
		}
		s := &types.ScoreSet{
			URN:              nextScoreSetURN(exp.URN, existing),
			ExperimentID:     exp.ID,
			LicenseID:        in.LicenseID,
			Title:            in.Title,
			ShortDescription: in.ShortDescription,
			AbstractText:     in.AbstractText,
			MethodText:       in.MethodText,
			ExtraMetadata:    viewmodel.JSON(in.ExtraMetadata),
			DataUsagePolicy:  in.DataUsagePolicy,
			DatasetColumns:   viewmodel.JSON(nil),
			Private:          true,
			CreatedByID:      &user.ID,
			ModifiedByID:     &user.ID,
		}
		if refs.superseded != nil {
			s.SupersededScoreSetID = &refs.superseded.ID
		}
		if err := ss.scoreSetRepo.Create(dbc, s); err != nil {
			return err
		}
		s.MetaAnalysisSources = refs.metaSources
		if err := ss.linkScoreSet(dbc, s, in.Keywords, in.DoiIdentifiers, in.PubmedIdentifiers); err != nil {
			return err
		}
		if err := ss.storeTargetGene(dbc, s.ID, in.TargetGene); err != nil {
			return err
		}
		if err := ss.experimentRepo.IncrementScoreSets(dbc, exp.ID); err != nil {
			return err
		}
		urn = s.URN
		siblings = existing
		return nil
	})
	if err != nil {
		ss.log.WithContext(ctx).Warn("Create score set failed", "error", err)
		return nil, storeError(ss.metrics, "score_set", "create_score_set_failed", err)
	}
	ss.metrics.IncRecordCreated("score_set")
	ss.log.WithContext(ctx).Info("Created score set", "urn", urn, "user_id", user.ID)

	s, err := ss.load(ctx, urn, repos.ScoreSetGetOptions{})
	if err != nil {
		return nil, err
	}
	ss.invalidate(ctx, s)
	ss.dropViews(ctx, siblings)
	return viewmodel.NewScoreSet(s), nil
}

func (ss *scoreSetService) linkScoreSet(
	dbc dbctx.Context,
	s *types.ScoreSet,
	keywords []string,
	dois []viewmodel.DoiIdentifierCreate,
	pubmeds []viewmodel.PubmedIdentifierCreate,
) error {
	l, err := resolveLinks(dbc, ss.identifierRepo, keywords, dois, pubmeds, nil)
	if err != nil {
		return err
	}
	s.Keywords = l.keywords
	s.DoiIdentifiers = l.dois
	s.PubmedIdentifiers = l.pubmeds
	return ss.scoreSetRepo.ReplaceAssociations(dbc, s)
}

func (ss *scoreSetService) storeTargetGene(dbc dbctx.Context, scoreSetID int64, in *viewmodel.TargetGeneCreate) error {
	tg := &types.TargetGene{
		Name:     in.Name,
		Category: in.Category,
		WildTypeSequence: &types.WildTypeSequence{
			SequenceType: in.WtSequence.SequenceType,
			Sequence:     in.WtSequence.Sequence,
		},
	}
	seen := map[int64]bool{}
	for _, off := range in.ExternalIdentifiers {
		ext, err := ss.identifierRepo.ExternalIdentifier(dbc, off.Identifier.DbName, off.Identifier.Identifier)
		if err != nil {
			return err
		}
		if seen[ext.ID] {
			continue
		}
		seen[ext.ID] = true
		tg.ExternalIdentifiers = append(tg.ExternalIdentifiers, &types.TargetGeneIdentifierOffset{
			ExternalIdentifierID: ext.ID,
			ExternalIdentifier:   ext,
			Offset:               off.Offset,
		})
	}
	for _, rm := range in.ReferenceMaps {
		tg.ReferenceMaps = append(tg.ReferenceMaps, &types.ReferenceMap{GenomeID: rm.GenomeID, IsPrimary: rm.IsPrimary})
	}
	return ss.targetGeneRepo.Replace(dbc, scoreSetID, tg)
}

// mutate loads the score set at urn inside a transaction, checks the caller owns it and
// runs fn. The reloaded record is returned and its cached views are dropped.
func (ss *scoreSetService) mutate(ctx context.Context, urn, code string, fn func(dbc dbctx.Context, user *types.User, s *types.ScoreSet) error) (*types.ScoreSet, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	var before *types.ScoreSet
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		s, err := ss.scoreSetRepo.GetByURN(dbc, urn, repos.ScoreSetGetOptions{})
		if err != nil {
			return err
		}
		if s == nil {
			return apierr.NotFound("score_set_not_found", fmt.Errorf("score set with URN '%s' not found", urn))
		}
		if err := requireOwner(user, s, "score set", urn); err != nil {
			return err
		}
		before = s
		return fn(dbc, user, s)
	})
	if err != nil {
		return nil, storeError(ss.metrics, "score_set", code, err)
	}
	after, err := ss.load(ctx, urn, repos.ScoreSetGetOptions{})
	if err != nil {
		return nil, err
	}
	ss.invalidate(ctx, before, after)
	return after, nil
}

func (ss *scoreSetService) Update(ctx context.Context, urn string, in *viewmodel.ScoreSetUpdate) (*viewmodel.ScoreSet, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(ss.metrics, "ScoreSetUpdate", err)
	}
	s, err := ss.mutate(ctx, urn, "update_score_set_failed", func(dbc dbctx.Context, user *types.User, s *types.ScoreSet) error {
		if _, err := ss.resolveRefs(dbc, refRequest{licenseID: in.LicenseID, targetGene: in.TargetGene}); err != nil {
			return err
		}
		s.Title = in.Title
		s.ShortDescription = in.ShortDescription
		s.AbstractText = in.AbstractText
		s.MethodText = in.MethodText
		s.ExtraMetadata = viewmodel.JSON(in.ExtraMetadata)
		s.DataUsagePolicy = in.DataUsagePolicy
		if in.LicenseID != nil {
			s.LicenseID = *in.LicenseID
			s.License = nil
		}
		s.ModifiedByID = &user.ID
		if err := ss.scoreSetRepo.Update(dbc, s); err != nil {
			return err
		}
		if err := ss.linkScoreSet(dbc, s, in.Keywords, in.DoiIdentifiers, in.PubmedIdentifiers); err != nil {
			return err
		}
		return ss.storeTargetGene(dbc, s.ID, in.TargetGene)
	})
	if err != nil {
		return nil, err
	}
	return viewmodel.NewScoreSet(s), nil
}

// UploadVariants replaces the score set's variants and recomputes numVariants and
// datasetColumns from the payload.
func (ss *scoreSetService) UploadVariants(ctx context.Context, urn string, in *viewmodel.VariantUpload) (*viewmodel.ScoreSet, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(ss.metrics, "VariantUpload", err)
	}
	s, err := ss.mutate(ctx, urn, "upload_variants_failed", func(dbc dbctx.Context, user *types.User, s *types.ScoreSet) error {
		variants := make([]*types.Variant, 0, len(in.Variants))
		for i := range in.Variants {
			v := &in.Variants[i]
			variants = append(variants, &types.Variant{
				URN:        variantURN(s.URN, i),
				HgvsNt:     v.HgvsNt,
				HgvsPro:    v.HgvsPro,
				HgvsSplice: v.HgvsSplice,
				Data:       v.Data(),
			})
		}
		if err := ss.variantRepo.Replace(dbc, s.ID, variants); err != nil {
			return err
		}
		s.NumVariants = len(variants)
		s.DatasetColumns = in.DatasetColumns()
		s.ModifiedByID = &user.ID
		return ss.scoreSetRepo.Update(dbc, s)
	})
	if err != nil {
		return nil, err
	}
	ss.log.WithContext(ctx).Info("Uploaded variants", "urn", urn, "count", len(in.Variants))
	return viewmodel.NewScoreSet(s), nil
}

// Publish makes the score set, its experiment and its experiment set public. Publishing
// again keeps the first publication date.
func (ss *scoreSetService) Publish(ctx context.Context, urn string) (*viewmodel.ScoreSet, error) {
	var siblings []string
	s, err := ss.mutate(ctx, urn, "publish_score_set_failed", func(dbc dbctx.Context, _ *types.User, s *types.ScoreSet) error {
		now := time.Now().UTC()
		if err := ss.scoreSetRepo.MarkPublished(dbc, s.ID, now); err != nil {
			return err
		}
		if err := ss.experimentRepo.MarkPublished(dbc, s.ExperimentID, now); err != nil {
			return err
		}
		if s.Experiment != nil {
			if err := ss.experimentSetRepo.MarkPublished(dbc, s.Experiment.ExperimentSetID, now); err != nil {
				return err
			}
		}
		var err error
		siblings, err = ss.scoreSetRepo.URNsInExperiment(dbc, s.ExperimentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Every score set view of the experiment embeds its publication state.
	ss.dropViews(ctx, siblings)
	ss.log.WithContext(ctx).Info("Published score set", "urn", urn)
	return viewmodel.NewScoreSet(s), nil
}

func (ss *scoreSetService) load(ctx context.Context, urn string, opts repos.ScoreSetGetOptions) (*types.ScoreSet, error) {
	s, err := ss.scoreSetRepo.GetByURN(dbctx.Context{Ctx: ctx}, urn, opts)
	if err != nil {
		return nil, apierr.Internal("load_score_set_failed", err)
	}
	if s == nil {
		return nil, apierr.NotFound("score_set_not_found", fmt.Errorf("score set with URN '%s' not found", urn))
	}
	return s, nil
}

func (ss *scoreSetService) Get(ctx context.Context, urn string, opts ScoreSetGetOptions) (any, error) {
	admin := isSuperuser(ctxutil.CurrentUser(ctx))
	cacheable := !admin && !opts.IncludeVariants
	key := viewcache.ScoreSetKey(urn)

	if cacheable {
		if raw, ok := ss.cache.Get(ctx, key); ok {
			var view viewmodel.ScoreSet
			if err := json.Unmarshal(raw, &view); err == nil {
				ss.metrics.ObserveViewCache(true)
				return &view, nil
			}
			ss.cache.Delete(ctx, key)
		}
		ss.metrics.ObserveViewCache(false)
	}

	s, err := ss.load(ctx, urn, repos.ScoreSetGetOptions{Variants: opts.IncludeVariants})
	if err != nil {
		return nil, err
	}
	switch {
	case opts.IncludeVariants:
		view, err := viewmodel.NewScoreSetWithVariants(s)
		if err != nil {
			ss.log.WithContext(ctx).Error("Stored variant data is unreadable", "urn", urn, "error", err)
			return nil, apierr.Internal("decode_variants_failed", err)
		}
		return view, nil
	case admin:
		return viewmodel.NewAdminScoreSet(s), nil
	}
	view := viewmodel.NewScoreSet(s)
	if raw, err := json.Marshal(view); err == nil {
		ss.cache.Set(ctx, key, raw)
	}
	return view, nil
}

func (ss *scoreSetService) List(ctx context.Context) ([]viewmodel.ShortScoreSet, error) {
	userID, all := visibleTo(ctxutil.CurrentUser(ctx))
	sets, err := ss.scoreSetRepo.List(dbctx.Context{Ctx: ctx}, repos.ScoreSetVisibility{UserID: userID, All: all})
	if err != nil {
		return nil, apierr.Internal("list_score_sets_failed", err)
	}
	return viewmodel.NewShortScoreSets(sets), nil
}

// dropViews deletes the cached views of the score sets at urns.
func (ss *scoreSetService) dropViews(ctx context.Context, urns []string) {
	if len(urns) == 0 {
		return
	}
	keys := make([]string, 0, len(urns))
	for _, u := range urns {
		keys = append(keys, viewcache.ScoreSetKey(u))
	}
	ss.cache.Delete(ctx, keys...)
}

// invalidate drops the cached views of sets and of every score set whose view embeds them.
func (ss *scoreSetService) invalidate(ctx context.Context, sets ...*types.ScoreSet) {
	var keys []string
	add := func(s *types.ScoreSet) {
		if s != nil {
			keys = append(keys, viewcache.ScoreSetKey(s.URN))
		}
	}
	for _, s := range sets {
		if s == nil {
			continue
		}
		add(s)
		add(s.SupersededScoreSet)
		add(s.SupersedingScoreSet)
		for _, m := range s.MetaAnalysisSources {
			add(m)
		}
		for _, m := range s.MetaAnalyses {
			add(m)
		}
	}
	ss.cache.Delete(ctx, keys...)
}
