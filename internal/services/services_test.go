package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/data/repos"
	"github.com/yungbote/mavedb-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/apierr"
	"github.com/yungbote/mavedb-backend/internal/platform/ctxutil"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/viewcache"
	"github.com/yungbote/mavedb-backend/internal/viewmodel"
)

type fixture struct {
	db          *gorm.DB
	owner       *types.User
	other       *types.User
	cache       viewcache.Cache
	experiments ExperimentService
	scoreSets   ScoreSetService
	scoreSetDB  repos.ScoreSetRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cache := viewcache.NewMemory(time.Minute)

	setRepo := repos.NewExperimentSetRepo(db, log)
	expRepo := repos.NewExperimentRepo(db, log)
	ssRepo := repos.NewScoreSetRepo(db, log)
	idRepo := repos.NewIdentifierRepo(db, log)

	return &fixture{
		db:          db,
		owner:       testutil.User(t, db, testutil.TestUsername),
		other:       testutil.User(t, db, testutil.ExtraUsername),
		cache:       cache,
		experiments: NewExperimentService(db, log, nil, cache, setRepo, expRepo, ssRepo, idRepo),
		scoreSets: NewScoreSetService(db, log, nil, cache, setRepo, expRepo, ssRepo,
			repos.NewTargetGeneRepo(db, log), repos.NewVariantRepo(db, log),
			repos.NewLicenseRepo(db, log), repos.NewReferenceGenomeRepo(db, log), idRepo),
		scoreSetDB: ssRepo,
	}
}

func as(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{User: u})
}

func dbctxFor(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx} }

func scoreSetPayload(experimentURN string) *viewmodel.ScoreSetCreate {
	return &viewmodel.ScoreSetCreate{
		Title:            "Test Score Set Title",
		ShortDescription: "Test score set",
		AbstractText:     "Abstract",
		MethodText:       "Methods",
		Keywords:         []string{"DMS"},
		ExperimentURN:    experimentURN,
		LicenseID:        testutil.LicenseID,
		TargetGene: &viewmodel.TargetGeneCreate{
			Name:     "UBE2I",
			Category: types.CategoryProteinCoding,
			ExternalIdentifiers: []viewmodel.ExternalIdentifierOffsetCreate{
				{Identifier: viewmodel.ExternalIdentifierCreate{DbName: types.DbUniProt, Identifier: "P63279"}, Offset: 3},
			},
			ReferenceMaps: []viewmodel.ReferenceMapCreate{{GenomeID: testutil.GenomeID, IsPrimary: true}},
			WtSequence:    &viewmodel.WildTypeSequenceCreate{SequenceType: types.SequenceTypeDNA, Sequence: "acgttt"},
		},
		DoiIdentifiers: []viewmodel.DoiIdentifierCreate{{Identifier: "10.1000/xyz123"}},
	}
}

func statusOf(t *testing.T, err error) (int, *apierr.Error) {
	t.Helper()
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "expected api error, got %v", err)
	return ae.Status, ae
}

func TestCreateScoreSet(t *testing.T) {
	f := newFixture(t)
	exp := testutil.SeedExperiment(t, context.Background(), f.db, f.owner, "urn:mavedb:00000001")

	got, err := f.scoreSets.Create(as(f.owner), scoreSetPayload(exp.URN))
	require.NoError(t, err)

	assert.Equal(t, "urn:mavedb:00000001-a-1", got.URN)
	assert.True(t, got.Private)
	assert.Nil(t, got.PublishedDate)
	assert.Equal(t, []string{"DMS"}, got.Keywords)
	assert.Equal(t, exp.URN, got.ExperimentURN)
	require.NotNil(t, got.License)
	assert.Equal(t, testutil.LicenseID, got.License.ID)
	require.NotNil(t, got.TargetGene)
	assert.Equal(t, "acgttt", got.TargetGene.WtSequence.Sequence)
	require.Len(t, got.TargetGene.ExternalIdentifiers, 1)
	assert.Equal(t, 3, got.TargetGene.ExternalIdentifiers[0].Offset)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, testutil.TestUsername, got.CreatedBy.OrcidID)

	second, err := f.scoreSets.Create(as(f.owner), scoreSetPayload(exp.URN))
	require.NoError(t, err)
	assert.Equal(t, "urn:mavedb:00000001-a-2", second.URN)
}

func TestCreateScoreSetKeepsSuppliedFields(t *testing.T) {
	f := newFixture(t)
	exp := testutil.SeedExperiment(t, context.Background(), f.db, f.owner, "urn:mavedb:00000001")

	in := scoreSetPayload(exp.URN)
	in.Keywords = []string{"Deep mutational scan", "VAMP-seq"}
	in.TargetGene.WtSequence.Sequence = "acGTtn"
	got, err := f.scoreSets.Create(as(f.owner), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deep mutational scan", "VAMP-seq"}, got.Keywords)
	assert.Equal(t, "acGTtn", got.TargetGene.WtSequence.Sequence)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.ShortDescription, got.ShortDescription)
	assert.Equal(t, in.AbstractText, got.AbstractText)
	assert.Equal(t, in.MethodText, got.MethodText)

	// Keywords must match the vocabulary spelling; nothing is rewritten.
	in.Keywords = []string{"dms"}
	_, err = f.scoreSets.Create(as(f.owner), in)
	status, ae := statusOf(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.Len(t, ae.Fields, 1)
	assert.Equal(t, "keywords", ae.Fields[0].Field)
}

func TestCreateScoreSetRefreshesSiblingViews(t *testing.T) {
	f := newFixture(t)
	exp := testutil.SeedExperiment(t, context.Background(), f.db, f.owner, "urn:mavedb:00000001")

	first, err := f.scoreSets.Create(as(f.owner), scoreSetPayload(exp.URN))
	require.NoError(t, err)
	view, err := f.scoreSets.Get(as(f.other), first.URN, ScoreSetGetOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, view.(*viewmodel.ScoreSet).Experiment.NumScoreSets)

	_, err = f.scoreSets.Create(as(f.owner), scoreSetPayload(exp.URN))
	require.NoError(t, err)

	view, err = f.scoreSets.Get(as(f.other), first.URN, ScoreSetGetOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, view.(*viewmodel.ScoreSet).Experiment.NumScoreSets)
}

func TestCreateScoreSetRepeatedMetaAnalysisSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	src := testutil.SeedScoreSet(t, ctx, f.db, exp, "urn:mavedb:00000001-a-1", nil)

	in := scoreSetPayload(exp.URN)
	in.MetaAnalysisSourceScoreSetURNs = []string{src.URN, src.URN}
	got, err := f.scoreSets.Create(as(f.owner), in)
	require.NoError(t, err)
	require.Len(t, got.MetaAnalysisSourceScoreSets, 1)
	assert.Equal(t, src.URN, got.MetaAnalysisSourceScoreSets[0].URN)
}

func TestCreateScoreSetURNCollisionIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	elsewhere := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000002")
	// Stored under another experiment, so allocation for exp does not see it.
	testutil.SeedScoreSet(t, ctx, f.db, elsewhere, "urn:mavedb:00000001-a-1", nil)
	before, err := f.scoreSetDB.Count(dbctxFor(ctx))
	require.NoError(t, err)

	_, err = f.scoreSets.Create(as(f.owner), scoreSetPayload(exp.URN))
	status, ae := statusOf(t, err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", ae.Code)

	after, err := f.scoreSetDB.Count(dbctxFor(ctx))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	listed, err := f.experiments.ListScoreSets(as(f.owner), exp.URN)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreateScoreSetRequiresAuth(t *testing.T) {
	f := newFixture(t)
	_, err := f.scoreSets.Create(context.Background(), scoreSetPayload("urn:mavedb:00000001-a"))
	status, _ := statusOf(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateScoreSetUnknownReferencesWriteNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	before, err := f.scoreSetDB.Count(dbctxFor(ctx))
	require.NoError(t, err)

	in := scoreSetPayload("urn:mavedb:00000009-a")
	in.LicenseID = 99
	in.TargetGene.ReferenceMaps[0].GenomeID = 42
	_, err = f.scoreSets.Create(as(f.owner), in)
	status, ae := statusOf(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	fields := map[string]bool{}
	for _, fe := range ae.Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["experimentUrn"])
	assert.True(t, fields["licenseId"])
	assert.True(t, fields["targetGene.referenceMaps[0].genomeId"])

	after, err := f.scoreSetDB.Count(dbctxFor(ctx))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// A well-formed payload against the real experiment still succeeds.
	_, err = f.scoreSets.Create(as(f.owner), scoreSetPayload(exp.URN))
	require.NoError(t, err)
}

func TestCreateScoreSetInvalidPayload(t *testing.T) {
	f := newFixture(t)
	in := scoreSetPayload("not-a-urn")
	in.Keywords = []string{"Not a keyword"}
	_, err := f.scoreSets.Create(as(f.owner), in)
	status, ae := statusOf(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation_failed", ae.Code)
}

func TestCreateScoreSetInOthersExperimentForbidden(t *testing.T) {
	f := newFixture(t)
	exp := testutil.SeedExperiment(t, context.Background(), f.db, f.owner, "urn:mavedb:00000001")
	_, err := f.scoreSets.Create(as(f.other), scoreSetPayload(exp.URN))
	status, _ := statusOf(t, err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestConcurrentSupersedeAdmitsOneSuccessor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	prev := testutil.SeedScoreSet(t, ctx, f.db, exp, "urn:mavedb:00000001-a-1", nil)
	before, err := f.scoreSetDB.Count(dbctxFor(ctx))
	require.NoError(t, err)

	var ok, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			in := scoreSetPayload(exp.URN)
			in.SupersededScoreSetURN = &prev.URN
			_, err := f.scoreSets.Create(as(f.owner), in)
			switch {
			case err == nil:
				ok.Add(1)
			case apierr.Is(err, http.StatusConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(1), conflicts.Load())

	after, err := f.scoreSetDB.Count(dbctxFor(ctx))
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	view, err := f.scoreSets.Get(ctx, prev.URN, ScoreSetGetOptions{})
	require.NoError(t, err)
	ss := view.(*viewmodel.ScoreSet)
	require.NotNil(t, ss.SupersedingScoreSet)
	assert.Equal(t, "urn:mavedb:00000001-a-2", ss.SupersedingScoreSet.URN)
}

func TestUpdateByNonOwnerForbiddenButReadable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	ss := testutil.SeedScoreSet(t, ctx, f.db, exp, "urn:mavedb:00000001-a-1", nil)

	in := &viewmodel.ScoreSetUpdate{
		Title:            "Changed",
		ShortDescription: "Changed",
		AbstractText:     "Abstract",
		MethodText:       "Methods",
		TargetGene:       scoreSetPayload(exp.URN).TargetGene,
	}
	_, err := f.scoreSets.Update(as(f.other), ss.URN, in)
	status, _ := statusOf(t, err)
	assert.Equal(t, http.StatusForbidden, status)

	view, err := f.scoreSets.Get(as(f.other), ss.URN, ScoreSetGetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Test Score Set Title", view.(*viewmodel.ScoreSet).Title)

	got, err := f.scoreSets.Update(as(f.owner), ss.URN, in)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Title)
	assert.Equal(t, "UBE2I", got.TargetGene.Name)

	// The cached view from the earlier read is gone.
	view, err = f.scoreSets.Get(as(f.other), ss.URN, ScoreSetGetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Changed", view.(*viewmodel.ScoreSet).Title)
}

func TestUpdateUnknownScoreSet(t *testing.T) {
	f := newFixture(t)
	in := &viewmodel.ScoreSetUpdate{
		Title:            "Changed",
		ShortDescription: "Changed",
		AbstractText:     "Abstract",
		MethodText:       "Methods",
		TargetGene:       scoreSetPayload("urn:mavedb:00000001-a").TargetGene,
	}
	_, err := f.scoreSets.Update(as(f.owner), "urn:mavedb:00000001-a-9", in)
	status, _ := statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUploadVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	ss := testutil.SeedScoreSet(t, ctx, f.db, exp, "urn:mavedb:00000001-a-1", nil)

	nt1, nt2 := "c.1A>G", "c.2C>T"
	in := &viewmodel.VariantUpload{Variants: []viewmodel.VariantCreate{
		{HgvsNt: &nt1, Scores: map[string]any{"score": 1.5}},
		{HgvsNt: &nt2, Scores: map[string]any{"score": -0.5}},
	}}
	got, err := f.scoreSets.UploadVariants(as(f.owner), ss.URN, in)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumVariants)
	assert.Equal(t, []any{"score"}, got.DatasetColumns["scoreColumns"])

	view, err := f.scoreSets.Get(ctx, ss.URN, ScoreSetGetOptions{IncludeVariants: true})
	require.NoError(t, err)
	withVariants := view.(*viewmodel.ScoreSetWithVariants)
	require.Len(t, withVariants.Variants, 2)
	assert.Equal(t, "urn:mavedb:00000001-a-1#1", withVariants.Variants[0].URN)
	assert.Equal(t, "urn:mavedb:00000001-a-1#2", withVariants.Variants[1].URN)
}

func TestPublishCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	ss := testutil.SeedScoreSet(t, ctx, f.db, exp, "urn:mavedb:00000001-a-1", nil)

	_, err := f.scoreSets.Publish(as(f.other), ss.URN)
	status, _ := statusOf(t, err)
	assert.Equal(t, http.StatusForbidden, status)

	got, err := f.scoreSets.Publish(as(f.owner), ss.URN)
	require.NoError(t, err)
	assert.False(t, got.Private)
	require.NotNil(t, got.PublishedDate)
	require.NotNil(t, got.Experiment)
	assert.False(t, got.Experiment.Private)

	set, err := f.experiments.GetExperimentSet(ctx, "urn:mavedb:00000001")
	require.NoError(t, err)
	assert.False(t, set.Private)

	// Anonymous callers now see it listed.
	listed, err := f.scoreSets.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, ss.URN, listed[0].URN)
}

func TestListHidesOthersPrivateScoreSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exp := testutil.SeedExperiment(t, ctx, f.db, f.owner, "urn:mavedb:00000001")
	testutil.SeedScoreSet(t, ctx, f.db, exp, "urn:mavedb:00000001-a-1", nil)

	mine, err := f.scoreSets.List(as(f.owner))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.scoreSets.List(as(f.other))
	require.NoError(t, err)
	assert.Empty(t, theirs)

	admin := testutil.SeedSuperuser(t, ctx, f.db, "9999-9999-9999-9999")
	all, err := f.scoreSets.List(as(admin))
	require.NoError(t, err)
	assert.Len(t, all, 1)

	view, err := f.scoreSets.Get(as(admin), "urn:mavedb:00000001-a-1", ScoreSetGetOptions{})
	require.NoError(t, err)
	_, isAdmin := view.(*viewmodel.AdminScoreSet)
	assert.True(t, isAdmin)
}

func TestCreateExperiment(t *testing.T) {
	f := newFixture(t)
	in := &viewmodel.ExperimentCreate{
		Title:            "Test Experiment Title",
		ShortDescription: "Test experiment",
		AbstractText:     "Abstract",
		MethodText:       "Methods",
		Keywords:         []string{"Binding"},
	}
	first, err := f.experiments.Create(as(f.owner), in)
	require.NoError(t, err)
	assert.Equal(t, "urn:mavedb:00000001-a", first.URN)
	assert.True(t, first.Private)

	setURN := "urn:mavedb:00000001"
	in.ExperimentSetURN = &setURN
	second, err := f.experiments.Create(as(f.owner), in)
	require.NoError(t, err)
	assert.Equal(t, "urn:mavedb:00000001-b", second.URN)

	_, err = f.experiments.Create(as(f.other), in)
	status, _ := statusOf(t, err)
	assert.Equal(t, http.StatusForbidden, status)

	missing := "urn:mavedb:00000042"
	in.ExperimentSetURN = &missing
	_, err = f.experiments.Create(as(f.owner), in)
	status, ae := statusOf(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.Len(t, ae.Fields, 1)
	assert.Equal(t, "experimentSetUrn", ae.Fields[0].Field)

	third, err := f.experiments.Create(as(f.owner), &viewmodel.ExperimentCreate{
		Title: "Another", ShortDescription: "Another", AbstractText: "A", MethodText: "M",
	})
	require.NoError(t, err)
	assert.Equal(t, "urn:mavedb:00000002-a", third.URN)
}

func TestExperimentListScoreSetsUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.experiments.ListScoreSets(context.Background(), "urn:mavedb:00000001-z")
	status, _ := statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestURNAllocation(t *testing.T) {
	next, err := nextExperimentSetURN("")
	require.NoError(t, err)
	assert.Equal(t, "urn:mavedb:00000001", next)

	next, err = nextExperimentSetURN("urn:mavedb:00000041")
	require.NoError(t, err)
	assert.Equal(t, "urn:mavedb:00000042", next)

	_, err = nextExperimentSetURN("urn:mavedb:abc")
	assert.Error(t, err)

	set := "urn:mavedb:00000001"
	assert.Equal(t, set+"-a", nextExperimentURN(set, nil))
	assert.Equal(t, set+"-c", nextExperimentURN(set, []string{set + "-a", set + "-b"}))
	assert.Equal(t, set+"-aa", nextExperimentURN(set, []string{set + "-z"}))
	assert.Equal(t, set+"-ba", nextExperimentURN(set, []string{set + "-y", set + "-az"}))

	exp := set + "-a"
	assert.Equal(t, exp+"-1", nextScoreSetURN(exp, nil))
	assert.Equal(t, exp+"-11", nextScoreSetURN(exp, []string{exp + "-2", exp + "-10", exp + "-3"}))

	assert.Equal(t, exp+"-1#1", variantURN(exp+"-1", 0))
}
