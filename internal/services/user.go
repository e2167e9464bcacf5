package services

import (
	"context"

	"github.com/yungbote/mavedb-backend/internal/viewmodel"
)

type UserService interface {
	Me(ctx context.Context) (*viewmodel.CurrentUser, error)
}

type userService struct{}

func NewUserService() UserService { return &userService{} }

func (us *userService) Me(ctx context.Context) (*viewmodel.CurrentUser, error) {
	u, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return viewmodel.NewCurrentUser(u), nil
}
