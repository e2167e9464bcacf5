package services

import (
	"context"
	"errors"
	"fmt"

	dbpkg "github.com/yungbote/mavedb-backend/internal/data/db"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/observability"
	"github.com/yungbote/mavedb-backend/internal/platform/apierr"
	"github.com/yungbote/mavedb-backend/internal/platform/ctxutil"
	"github.com/yungbote/mavedb-backend/internal/validation"
)

func requireUser(ctx context.Context) (*types.User, error) {
	u := ctxutil.CurrentUser(ctx)
	if u == nil || u.ID == 0 {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("authentication required"))
	}
	return u, nil
}

func requireOwner(u *types.User, owned interface{ OwnedBy(*types.User) bool }, kind, urn string) error {
	if owned.OwnedBy(u) {
		return nil
	}
	return apierr.Forbidden("forbidden", fmt.Errorf("insufficient permissions for %s '%s'", kind, urn))
}

// invalid turns a model validation failure into a 422 carrying the failed fields.
func invalid(m *observability.Metrics, model string, err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		m.IncValidationFailure(model)
		return apierr.Unprocessable("validation_failed", ve, ve.Fields...)
	}
	return apierr.BadRequest("invalid_request", err)
}

// unknownReference reports body fields naming records that do not exist.
func unknownReference(ve *validation.Error) error {
	return apierr.Unprocessable("unknown_reference", ve, ve.Fields...)
}

// storeError maps constraint violations to 409 and passes api errors through.
func storeError(m *observability.Metrics, kind, code string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	if dbpkg.IsConflict(err) {
		m.IncWriteConflict(kind)
		return apierr.Conflict("conflict", err)
	}
	return apierr.Internal(code, err)
}

func visibleTo(u *types.User) (userID int64, all bool) {
	if u == nil {
		return 0, false
	}
	return u.ID, u.IsSuperuser
}

func isSuperuser(u *types.User) bool {
	return u != nil && u.IsSuperuser
}
