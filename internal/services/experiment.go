package services

import (
	"context"
	"fmt"

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

type ExperimentService interface {
	Create(ctx context.Context, in *viewmodel.ExperimentCreate) (*viewmodel.Experiment, error)
	Update(ctx context.Context, urn string, in *viewmodel.ExperimentUpdate) (*viewmodel.Experiment, error)
	// Get returns *viewmodel.AdminExperiment for superusers, *viewmodel.Experiment otherwise.
	Get(ctx context.Context, urn string) (any, error)
	List(ctx context.Context) ([]viewmodel.ShortExperiment, error)
	ListScoreSets(ctx context.Context, urn string) ([]viewmodel.ShortScoreSet, error)
	GetExperimentSet(ctx context.Context, urn string) (*viewmodel.ExperimentSet, error)
}

type experimentService struct {
	db                *gorm.DB
	log               *logger.Logger
	metrics           *observability.Metrics
	cache             viewcache.Cache
	experimentSetRepo repos.ExperimentSetRepo
	experimentRepo    repos.ExperimentRepo
	scoreSetRepo      repos.ScoreSetRepo
	identifierRepo    repos.IdentifierRepo
}

func NewExperimentService(
	db *gorm.DB,
	log *logger.Logger,
	metrics *observability.Metrics,
	cache viewcache.Cache,
	experimentSetRepo repos.ExperimentSetRepo,
	experimentRepo repos.ExperimentRepo,
	scoreSetRepo repos.ScoreSetRepo,
	identifierRepo repos.IdentifierRepo,
) ExperimentService {
	if cache == nil {
		cache = viewcache.Nop()
	}
	return &experimentService{
		db:                db,
		log:               log.With("service", "ExperimentService"),
		metrics:           metrics,
		cache:             cache,
		experimentSetRepo: experimentSetRepo,
		experimentRepo:    experimentRepo,
		scoreSetRepo:      scoreSetRepo,
		identifierRepo:    identifierRepo,
	}
}

// Create stores a new private experiment. Without experimentSetUrn a new set is created
// for it; otherwise the caller must own the named set.
func (es *experimentService) Create(ctx context.Context, in *viewmodel.ExperimentCreate) (*viewmodel.Experiment, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(es.metrics, "ExperimentCreate", err)
	}

	var urn string
	err = es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		var set *types.ExperimentSet
		if in.ExperimentSetURN != nil {
			set, err = es.experimentSetRepo.GetByURN(dbc, *in.ExperimentSetURN)
			if err != nil {
				return err
			}
			if set == nil {
				return unknownReference(validation.Fail(
					"experimentSetUrn",
					fmt.Sprintf("experiment set with URN '%s' not found", *in.ExperimentSetURN),
				))
			}
			if err := requireOwner(user, set, "experiment set", set.URN); err != nil {
				return err
			}
		} else {
			latest, err := es.experimentSetRepo.LatestURN(dbc)
			if err != nil {
				return err
			}
			setURN, err := nextExperimentSetURN(latest)
			if err != nil {
				return err
			}
			set = &types.ExperimentSet{URN: setURN, Private: true, CreatedByID: &user.ID, ModifiedByID: &user.ID}
			if err := es.experimentSetRepo.Create(dbc, set); err != nil {
				return err
			}
			es.metrics.IncRecordCreated("experiment_set")
		}

		existing, err := es.experimentRepo.URNsInSet(dbc, set.ID)
		if err != nil {
			return err
		}
		exp := &types.Experiment{
			URN:              nextExperimentURN(set.URN, existing),
			ExperimentSetID:  set.ID,
			Title:            in.Title,
			ShortDescription: in.ShortDescription,
			AbstractText:     in.AbstractText,
			MethodText:       in.MethodText,
			ExtraMetadata:    viewmodel.JSON(in.ExtraMetadata),
			Private:          true,
			CreatedByID:      &user.ID,
			ModifiedByID:     &user.ID,
		}
		if err := es.experimentRepo.Create(dbc, exp); err != nil {
			return err
		}
		if err := es.linkExperiment(dbc, exp, in.Keywords, in.DoiIdentifiers, in.PubmedIdentifiers, in.RawReadIdentifiers); err != nil {
			return err
		}
		if err := es.experimentSetRepo.IncrementExperiments(dbc, set.ID); err != nil {
			return err
		}
		urn = exp.URN
		return nil
	})
	if err != nil {
		es.log.WithContext(ctx).Warn("Create experiment failed", "error", err)
		return nil, storeError(es.metrics, "experiment", "create_experiment_failed", err)
	}
	es.metrics.IncRecordCreated("experiment")
	es.log.WithContext(ctx).Info("Created experiment", "urn", urn, "user_id", user.ID)
	return es.load(ctx, urn)
}

func (es *experimentService) linkExperiment(
	dbc dbctx.Context,
	exp *types.Experiment,
	keywords []string,
	dois []viewmodel.DoiIdentifierCreate,
	pubmeds []viewmodel.PubmedIdentifierCreate,
	raws []viewmodel.RawReadIdentifierCreate,
) error {
	l, err := resolveLinks(dbc, es.identifierRepo, keywords, dois, pubmeds, raws)
	if err != nil {
		return err
	}
	exp.Keywords = l.keywords
	exp.DoiIdentifiers = l.dois
	exp.PubmedIdentifiers = l.pubmeds
	exp.RawReadIdentifiers = l.raws
	return es.experimentRepo.ReplaceAssociations(dbc, exp)
}

func (es *experimentService) Update(ctx context.Context, urn string, in *viewmodel.ExperimentUpdate) (*viewmodel.Experiment, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(es.metrics, "ExperimentUpdate", err)
	}

	var scoreSetURNs []string
	err = es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exp, err := es.experimentRepo.GetByURN(dbc, urn)
		if err != nil {
			return err
		}
		if exp == nil {
			return apierr.NotFound("experiment_not_found", fmt.Errorf("experiment with URN '%s' not found", urn))
		}
		if err := requireOwner(user, exp, "experiment", urn); err != nil {
			return err
		}
		exp.Title = in.Title
		exp.ShortDescription = in.ShortDescription
		exp.AbstractText = in.AbstractText
		exp.MethodText = in.MethodText
		exp.ExtraMetadata = viewmodel.JSON(in.ExtraMetadata)
		exp.ModifiedByID = &user.ID
		if err := es.experimentRepo.Update(dbc, exp); err != nil {
			return err
		}
		if err := es.linkExperiment(dbc, exp, in.Keywords, in.DoiIdentifiers, in.PubmedIdentifiers, in.RawReadIdentifiers); err != nil {
			return err
		}
		scoreSetURNs, err = es.scoreSetRepo.URNsInExperiment(dbc, exp.ID)
		return err
	})
	if err != nil {
		return nil, storeError(es.metrics, "experiment", "update_experiment_failed", err)
	}

	// Score set views embed their experiment.
	keys := make([]string, 0, len(scoreSetURNs))
	for _, u := range scoreSetURNs {
		keys = append(keys, viewcache.ScoreSetKey(u))
	}
	es.cache.Delete(ctx, keys...)
	return es.load(ctx, urn)
}

func (es *experimentService) load(ctx context.Context, urn string) (*viewmodel.Experiment, error) {
	exp, err := es.experimentRepo.GetByURN(dbctx.Context{Ctx: ctx}, urn)
	if err != nil {
		return nil, apierr.Internal("load_experiment_failed", err)
	}
	if exp == nil {
		return nil, apierr.NotFound("experiment_not_found", fmt.Errorf("experiment with URN '%s' not found", urn))
	}
	return viewmodel.NewExperimentFor(exp, ctxutil.CurrentUser(ctx)), nil
}

func (es *experimentService) Get(ctx context.Context, urn string) (any, error) {
	exp, err := es.experimentRepo.GetByURN(dbctx.Context{Ctx: ctx}, urn)
	if err != nil {
		return nil, apierr.Internal("load_experiment_failed", err)
	}
	if exp == nil {
		return nil, apierr.NotFound("experiment_not_found", fmt.Errorf("experiment with URN '%s' not found", urn))
	}
	if isSuperuser(ctxutil.CurrentUser(ctx)) {
		return viewmodel.NewAdminExperiment(exp), nil
	}
	return viewmodel.NewExperimentFor(exp, ctxutil.CurrentUser(ctx)), nil
}

func (es *experimentService) List(ctx context.Context) ([]viewmodel.ShortExperiment, error) {
	userID, all := visibleTo(ctxutil.CurrentUser(ctx))
	exps, err := es.experimentRepo.List(dbctx.Context{Ctx: ctx}, repos.ExperimentVisibility{UserID: userID, All: all})
	if err != nil {
		return nil, apierr.Internal("list_experiments_failed", err)
	}
	return viewmodel.NewShortExperiments(exps), nil
}

func (es *experimentService) ListScoreSets(ctx context.Context, urn string) ([]viewmodel.ShortScoreSet, error) {
	dbc := dbctx.Context{Ctx: ctx}
	exp, err := es.experimentRepo.GetByURN(dbc, urn)
	if err != nil {
		return nil, apierr.Internal("load_experiment_failed", err)
	}
	if exp == nil {
		return nil, apierr.NotFound("experiment_not_found", fmt.Errorf("experiment with URN '%s' not found", urn))
	}
	userID, all := visibleTo(ctxutil.CurrentUser(ctx))
	sets, err := es.scoreSetRepo.ListByExperiment(dbc, exp.ID, repos.ScoreSetVisibility{UserID: userID, All: all})
	if err != nil {
		return nil, apierr.Internal("list_score_sets_failed", err)
	}
	return viewmodel.NewShortScoreSets(sets), nil
}

func (es *experimentService) GetExperimentSet(ctx context.Context, urn string) (*viewmodel.ExperimentSet, error) {
	set, err := es.experimentSetRepo.GetByURN(dbctx.Context{Ctx: ctx}, urn)
	if err != nil {
		return nil, apierr.Internal("load_experiment_set_failed", err)
	}
	if set == nil {
		return nil, apierr.NotFound("experiment_set_not_found", fmt.Errorf("experiment set with URN '%s' not found", urn))
	}
	return viewmodel.NewExperimentSet(set), nil
}
