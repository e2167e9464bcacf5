package services

import (
	"github.com/yungbote/mavedb-backend/internal/data/repos"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/viewmodel"
)

// links are the shared keyword and publication rows a record points at.
type links struct {
	keywords []*types.Keyword
	dois     []*types.DoiIdentifier
	pubmeds  []*types.PubmedIdentifier
	raws     []*types.RawReadIdentifier
}

func resolveLinks(
	dbc dbctx.Context,
	identifierRepo repos.IdentifierRepo,
	keywords []string,
	dois []viewmodel.DoiIdentifierCreate,
	pubmeds []viewmodel.PubmedIdentifierCreate,
	raws []viewmodel.RawReadIdentifierCreate,
) (links, error) {
	var out links
	var err error

	if out.keywords, err = identifierRepo.Keywords(dbc, keywords); err != nil {
		return out, err
	}

	ids := make([]string, 0, len(dois))
	for _, d := range dois {
		ids = append(ids, d.Identifier)
	}
	if out.dois, err = identifierRepo.DoiIdentifiers(dbc, ids); err != nil {
		return out, err
	}

	ids = ids[:0]
	for _, p := range pubmeds {
		ids = append(ids, p.Identifier)
	}
	if out.pubmeds, err = identifierRepo.PubmedIdentifiers(dbc, ids); err != nil {
		return out, err
	}

	ids = ids[:0]
	for _, r := range raws {
		ids = append(ids, r.Identifier)
	}
	if out.raws, err = identifierRepo.RawReadIdentifiers(dbc, ids); err != nil {
		return out, err
	}
	return out, nil
}
