package user

import (
	"context"
	"testing"

	"github.com/yungbote/mavedb-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{Username: "0000-0002-1825-0097", FirstName: "A", LastName: "B", IsActive: true},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []int64{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].Username != "0000-0002-1825-0097" {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	got, err := repo.GetByUsername(dbc, testutil.TestUsername)
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got == nil || got.FirstName != "First" {
		t.Fatalf("GetByUsername: unexpected result: %+v", got)
	}

	missing, err := repo.GetByUsername(dbc, "9999-9999-9999-9999")
	if err != nil {
		t.Fatalf("GetByUsername (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByUsername (missing): expected nil, got %+v", missing)
	}

	if err := repo.UpdateName(dbc, created[0].ID, "C", "D"); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	got, err = repo.GetByUsername(dbc, "0000-0002-1825-0097")
	if err != nil || got == nil || got.FirstName != "C" || got.LastName != "D" {
		t.Fatalf("UpdateName: unexpected result: %+v (err=%v)", got, err)
	}
}

func TestUserRepoGetOrCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	first, err := repo.GetOrCreate(dbc, &types.User{Username: "0000-0001-0000-0001", FirstName: "New"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first.ID == 0 || !first.IsActive {
		t.Fatalf("GetOrCreate: unexpected result: %+v", first)
	}

	second, err := repo.GetOrCreate(dbc, &types.User{Username: "0000-0001-0000-0001", FirstName: "Renamed"})
	if err != nil {
		t.Fatalf("GetOrCreate (existing): %v", err)
	}
	if second.ID != first.ID || second.FirstName != "New" {
		t.Fatalf("GetOrCreate (existing): expected the stored user, got %+v", second)
	}
}
