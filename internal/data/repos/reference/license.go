package reference

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

type LicenseRepo interface {
	Upsert(dbc dbctx.Context, licenses []*types.License) error
	List(dbc dbctx.Context) ([]*types.License, error)
	GetByID(dbc dbctx.Context, id int64) (*types.License, error)
}

type licenseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLicenseRepo(db *gorm.DB, baseLog *logger.Logger) LicenseRepo {
	return &licenseRepo{db: db, log: baseLog.With("repo", "LicenseRepo")}
}

// Upsert stores licenses by id, overwriting existing rows.
func (r *licenseRepo) Upsert(dbc dbctx.Context, licenses []*types.License) error {
	if len(licenses) == 0 {
		return nil
	}
	return dbc.DB(r.db).Save(&licenses).Error
}

func (r *licenseRepo) List(dbc dbctx.Context) ([]*types.License, error) {
	var out []*types.License
	if err := dbc.DB(r.db).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns nil when the license does not exist.
func (r *licenseRepo) GetByID(dbc dbctx.Context, id int64) (*types.License, error) {
	var l types.License
	err := dbc.DB(r.db).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
