package identifier

import (
	"context"
	"testing"

	"github.com/yungbote/mavedb-backend/internal/data/repos/testutil"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
)

func TestIdentifierRepoFindOrCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewIdentifierRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	first, err := repo.Keywords(dbc, []string{"DMS", "SGE", "DMS"})
	if err != nil {
		t.Fatalf("Keywords: %v", err)
	}
	if len(first) != 2 || first[0].Text != "DMS" || first[1].Text != "SGE" {
		t.Fatalf("Keywords: unexpected result: %+v", first)
	}
	again, err := repo.Keywords(dbc, []string{"SGE"})
	if err != nil {
		t.Fatalf("Keywords (again): %v", err)
	}
	if len(again) != 1 || again[0].ID != first[1].ID {
		t.Fatalf("Keywords (again): expected existing row %d, got %+v", first[1].ID, again)
	}

	dois, err := repo.DoiIdentifiers(dbc, []string{"10.1038/s41586-018-0461-z"})
	if err != nil {
		t.Fatalf("DoiIdentifiers: %v", err)
	}
	if len(dois) != 1 || dois[0].URL != "https://doi.org/10.1038/s41586-018-0461-z" {
		t.Fatalf("DoiIdentifiers: unexpected result: %+v", dois)
	}

	pubmeds, err := repo.PubmedIdentifiers(dbc, []string{"29785012"})
	if err != nil || len(pubmeds) != 1 || pubmeds[0].ID == 0 {
		t.Fatalf("PubmedIdentifiers: unexpected result: %+v (err=%v)", pubmeds, err)
	}

	raws, err := repo.RawReadIdentifiers(dbc, nil)
	if err != nil || len(raws) != 0 {
		t.Fatalf("RawReadIdentifiers: unexpected result: %+v (err=%v)", raws, err)
	}

	ext, err := repo.ExternalIdentifier(dbc, "Ensembl", "ENSG00000103275")
	if err != nil {
		t.Fatalf("ExternalIdentifier: %v", err)
	}
	same, err := repo.ExternalIdentifier(dbc, "Ensembl", "ENSG00000103275")
	if err != nil || same.ID != ext.ID {
		t.Fatalf("ExternalIdentifier (again): expected %d, got %+v (err=%v)", ext.ID, same, err)
	}
}
