package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
)

const (
	TestUsername  = "0000-1111-2222-3333"
	ExtraUsername = "1234-5678-8765-4321"
	LicenseID     = int64(1)
	GenomeID      = int64(1)
)

func seedReference(tb testing.TB, db *gorm.DB) {
	tb.Helper()
	link, version := "localhost", "1.0"
	rows := []any{
		&types.User{Username: TestUsername, FirstName: "First", LastName: "Last", IsActive: true},
		&types.User{Username: ExtraUsername, FirstName: "Extra", LastName: "User", IsActive: true},
		&types.License{ID: LicenseID, ShortName: "Short", LongName: "Long", Text: "Don't be evil.", Link: &link, Version: &version},
		&types.ReferenceGenome{ID: GenomeID, ShortName: "Name", OrganismName: "Organism"},
	}
	for _, r := range rows {
		if err := db.Create(r).Error; err != nil {
			tb.Fatalf("seed %T: %v", r, err)
		}
	}
}

// User loads a seeded user by ORCID id.
func User(tb testing.TB, db *gorm.DB, username string) *types.User {
	tb.Helper()
	var u types.User
	if err := db.Where("username = ?", username).First(&u).Error; err != nil {
		tb.Fatalf("load user %s: %v", username, err)
	}
	return &u
}

func SeedSuperuser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{Username: username, FirstName: "Admin", LastName: "User", IsActive: true, IsSuperuser: true}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed superuser: %v", err)
	}
	return u
}

// SeedExperiment stores an experiment set and one experiment owned by owner.
func SeedExperiment(tb testing.TB, ctx context.Context, tx *gorm.DB, owner *types.User, setURN string) *types.Experiment {
	tb.Helper()
	set := &types.ExperimentSet{URN: setURN, Private: true, NumExperiments: 1, CreatedByID: &owner.ID, ModifiedByID: &owner.ID}
	if err := tx.WithContext(ctx).Create(set).Error; err != nil {
		tb.Fatalf("seed experiment set: %v", err)
	}
	exp := &types.Experiment{
		URN:              setURN + "-a",
		ExperimentSetID:  set.ID,
		Title:            "Test Experiment Title",
		ShortDescription: "Test experiment",
		AbstractText:     "Abstract",
		MethodText:       "Methods",
		Private:          true,
		CreatedByID:      &owner.ID,
		ModifiedByID:     &owner.ID,
	}
	if err := tx.WithContext(ctx).Omit("ExperimentSet", "CreatedBy", "ModifiedBy").Create(exp).Error; err != nil {
		tb.Fatalf("seed experiment: %v", err)
	}
	exp.ExperimentSet = set
	return exp
}

// SeedScoreSet stores a private score set under exp with a minimal dna target.
func SeedScoreSet(tb testing.TB, ctx context.Context, tx *gorm.DB, exp *types.Experiment, urn string, supersedes *types.ScoreSet) *types.ScoreSet {
	tb.Helper()
	ss := &types.ScoreSet{
		URN:              urn,
		ExperimentID:     exp.ID,
		LicenseID:        LicenseID,
		Title:            "Test Score Set Title",
		ShortDescription: "Test score set",
		AbstractText:     "Abstract",
		MethodText:       "Methods",
		Private:          true,
		CreatedByID:      exp.CreatedByID,
		ModifiedByID:     exp.CreatedByID,
	}
	if supersedes != nil {
		ss.SupersededScoreSetID = &supersedes.ID
	}
	if err := tx.WithContext(ctx).Omit("Experiment", "License", "SupersededScoreSet", "CreatedBy", "ModifiedBy").Create(ss).Error; err != nil {
		tb.Fatalf("seed score set: %v", err)
	}
	seq := &types.WildTypeSequence{SequenceType: types.SequenceTypeDNA, Sequence: "ACGTTT"}
	if err := tx.WithContext(ctx).Create(seq).Error; err != nil {
		tb.Fatalf("seed wt sequence: %v", err)
	}
	tg := &types.TargetGene{ScoreSetID: ss.ID, Name: "TEST1", Category: types.CategoryProteinCoding, WildTypeSequenceID: seq.ID}
	if err := tx.WithContext(ctx).Omit("WildTypeSequence").Create(tg).Error; err != nil {
		tb.Fatalf("seed target gene: %v", err)
	}
	rm := &types.ReferenceMap{TargetGeneID: tg.ID, GenomeID: GenomeID}
	if err := tx.WithContext(ctx).Omit("Genome").Create(rm).Error; err != nil {
		tb.Fatalf("seed reference map: %v", err)
	}
	return ss
}
