package identifier

import (
	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

// IdentifierRepo finds or creates the shared keyword and identifier rows records link to.
// Results follow input order with duplicates dropped.
type IdentifierRepo interface {
	Keywords(dbc dbctx.Context, texts []string) ([]*types.Keyword, error)
	DoiIdentifiers(dbc dbctx.Context, ids []string) ([]*types.DoiIdentifier, error)
	PubmedIdentifiers(dbc dbctx.Context, ids []string) ([]*types.PubmedIdentifier, error)
	RawReadIdentifiers(dbc dbctx.Context, ids []string) ([]*types.RawReadIdentifier, error)
	ExternalIdentifier(dbc dbctx.Context, dbName, id string) (*types.ExternalIdentifier, error)
}

type identifierRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdentifierRepo(db *gorm.DB, baseLog *logger.Logger) IdentifierRepo {
	return &identifierRepo{db: db, log: baseLog.With("repo", "IdentifierRepo")}
}

func (r *identifierRepo) Keywords(dbc dbctx.Context, texts []string) ([]*types.Keyword, error) {
	out := make([]*types.Keyword, 0, len(texts))
	for _, t := range unique(texts) {
		k := types.Keyword{}
		if err := dbc.DB(r.db).Where(types.Keyword{Text: t}).FirstOrCreate(&k).Error; err != nil {
			return nil, err
		}
		out = append(out, &k)
	}
	return out, nil
}

func (r *identifierRepo) DoiIdentifiers(dbc dbctx.Context, ids []string) ([]*types.DoiIdentifier, error) {
	out := make([]*types.DoiIdentifier, 0, len(ids))
	for _, id := range unique(ids) {
		d := types.DoiIdentifier{}
		if err := dbc.DB(r.db).
			Where(types.DoiIdentifier{Identifier: id}).
			Attrs(types.DoiIdentifier{URL: types.DoiURL(id)}).
			FirstOrCreate(&d).Error; err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, nil
}

func (r *identifierRepo) PubmedIdentifiers(dbc dbctx.Context, ids []string) ([]*types.PubmedIdentifier, error) {
	out := make([]*types.PubmedIdentifier, 0, len(ids))
	for _, id := range unique(ids) {
		p := types.PubmedIdentifier{}
		if err := dbc.DB(r.db).
			Where(types.PubmedIdentifier{Identifier: id}).
			Attrs(types.PubmedIdentifier{URL: types.PubmedURL(id)}).
			FirstOrCreate(&p).Error; err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r *identifierRepo) RawReadIdentifiers(dbc dbctx.Context, ids []string) ([]*types.RawReadIdentifier, error) {
	out := make([]*types.RawReadIdentifier, 0, len(ids))
	for _, id := range unique(ids) {
		rr := types.RawReadIdentifier{}
		if err := dbc.DB(r.db).
			Where(types.RawReadIdentifier{Identifier: id}).
			Attrs(types.RawReadIdentifier{URL: types.RawReadURL(id)}).
			FirstOrCreate(&rr).Error; err != nil {
			return nil, err
		}
		out = append(out, &rr)
	}
	return out, nil
}

func (r *identifierRepo) ExternalIdentifier(dbc dbctx.Context, dbName, id string) (*types.ExternalIdentifier, error) {
	e := types.ExternalIdentifier{}
	if err := dbc.DB(r.db).
		Where(types.ExternalIdentifier{DbName: dbName, Identifier: id}).
		FirstOrCreate(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
