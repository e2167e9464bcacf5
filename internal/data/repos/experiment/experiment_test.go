package experiment

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/mavedb-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
)

func TestExperimentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.User(t, db, testutil.TestUsername)
	other := testutil.User(t, db, testutil.ExtraUsername)
	sets := NewExperimentSetRepo(db, testutil.Logger(t))
	repo := NewExperimentRepo(db, testutil.Logger(t))

	latest, err := sets.LatestURN(dbc)
	if err != nil || latest != "" {
		t.Fatalf("LatestURN (empty): got %q (err=%v)", latest, err)
	}

	set := &types.ExperimentSet{URN: "urn:mavedb:00000001", Private: true, CreatedByID: &owner.ID}
	if err := sets.Create(dbc, set); err != nil {
		t.Fatalf("Create set: %v", err)
	}
	e := &types.Experiment{
		URN: "urn:mavedb:00000001-a", ExperimentSetID: set.ID, Title: "T", ShortDescription: "S",
		AbstractText: "A", MethodText: "M", Private: true, CreatedByID: &owner.ID, ModifiedByID: &owner.ID,
		Keywords: []*types.Keyword{{Text: "DMS"}},
	}
	if err := tx.Create(e.Keywords[0]).Error; err != nil {
		t.Fatalf("seed keyword: %v", err)
	}
	if err := repo.Create(dbc, e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.ReplaceAssociations(dbc, e); err != nil {
		t.Fatalf("ReplaceAssociations: %v", err)
	}
	if err := sets.IncrementExperiments(dbc, set.ID); err != nil {
		t.Fatalf("IncrementExperiments: %v", err)
	}

	got, err := repo.GetByURN(dbc, e.URN)
	if err != nil || got == nil {
		t.Fatalf("GetByURN: %+v (err=%v)", got, err)
	}
	if got.ExperimentSet == nil || got.ExperimentSet.URN != set.URN {
		t.Fatalf("GetByURN: experiment set not loaded: %+v", got.ExperimentSet)
	}
	if len(got.Keywords) != 1 || got.Keywords[0].Text != "DMS" {
		t.Fatalf("GetByURN: keywords not loaded: %+v", got.Keywords)
	}
	if got.CreatedBy == nil || got.CreatedBy.Username != testutil.TestUsername {
		t.Fatalf("GetByURN: created by not loaded: %+v", got.CreatedBy)
	}

	got.Keywords = nil
	got.Title = "Renamed"
	if err := repo.Update(dbc, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.ReplaceAssociations(dbc, got); err != nil {
		t.Fatalf("ReplaceAssociations (clear): %v", err)
	}
	got, err = repo.GetByURN(dbc, e.URN)
	if err != nil || got.Title != "Renamed" || len(got.Keywords) != 0 {
		t.Fatalf("GetByURN after update: %+v (err=%v)", got, err)
	}

	storedSet, err := sets.GetByURN(dbc, set.URN)
	if err != nil || storedSet == nil || storedSet.NumExperiments != 1 || len(storedSet.Experiments) != 1 {
		t.Fatalf("set GetByURN: %+v (err=%v)", storedSet, err)
	}
	latest, err = sets.LatestURN(dbc)
	if err != nil || latest != set.URN {
		t.Fatalf("LatestURN: got %q (err=%v)", latest, err)
	}

	urns, err := repo.URNsInSet(dbc, set.ID)
	if err != nil || len(urns) != 1 || urns[0] != e.URN {
		t.Fatalf("URNsInSet: %v (err=%v)", urns, err)
	}

	mine, err := repo.List(dbc, Visibility{UserID: owner.ID})
	if err != nil || len(mine) != 1 {
		t.Fatalf("List (owner): %d (err=%v)", len(mine), err)
	}
	theirs, err := repo.List(dbc, Visibility{UserID: other.ID})
	if err != nil || len(theirs) != 0 {
		t.Fatalf("List (other): %d (err=%v)", len(theirs), err)
	}

	published := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if err := repo.MarkPublished(dbc, e.ID, published); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}
	if err := repo.MarkPublished(dbc, e.ID, published.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("MarkPublished (again): %v", err)
	}
	got, err = repo.GetByURN(dbc, e.URN)
	if err != nil || got.Private || got.PublishedDate == nil || !got.PublishedDate.Equal(published) {
		t.Fatalf("MarkPublished: %+v (err=%v)", got, err)
	}
	theirs, err = repo.List(dbc, Visibility{UserID: other.ID})
	if err != nil || len(theirs) != 1 {
		t.Fatalf("List (other, published): %d (err=%v)", len(theirs), err)
	}

	missing, err := repo.GetByURN(dbc, "urn:mavedb:00000009-a")
	if err != nil || missing != nil {
		t.Fatalf("GetByURN (missing): %+v (err=%v)", missing, err)
	}
}
