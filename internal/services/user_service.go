package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/identity"
)

type UserService struct {
	Users identity.Provider
}

func NewUserService(users identity.Provider) *UserService { return &UserService{Users: users} }

func view(u identity.User) domain.UserView {
	return domain.UserView{ID: domain.UserID(u.UID), Email: u.Email, DisplayName: u.DisplayName}
}

func (s *UserService) List(ctx context.Context) ([]domain.UserView, error) {
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, view(u))
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id domain.UserID) (domain.UserView, error) {
	u, err := s.Users.GetUser(ctx, string(id))
	if err != nil {
		return domain.UserView{}, err
	}
	return view(u), nil
}

func (s *UserService) Delete(ctx context.Context, id domain.UserID) error {
	return s.Users.DeleteUser(ctx, string(id))
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.Users.CountUsers(ctx)
}
