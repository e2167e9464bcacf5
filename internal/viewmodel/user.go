package viewmodel

import "github.com/yungbote/mavedb-backend/internal/domain"

// SavedUser is the public face of a user attached to records they created or modified.
type SavedUser struct {
	OrcidID   string `json:"orcidId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func NewSavedUser(u *domain.User) *SavedUser {
	if u == nil {
		return nil
	}
	return &SavedUser{OrcidID: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

// CurrentUser is returned to callers asking about themselves.
type CurrentUser struct {
	SavedUser
	Email       *string `json:"email"`
	IsStaff     bool    `json:"isStaff"`
	IsSuperuser bool    `json:"isSuperuser"`
}

func NewCurrentUser(u *domain.User) *CurrentUser {
	if u == nil {
		return nil
	}
	return &CurrentUser{
		SavedUser:   *NewSavedUser(u),
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}
