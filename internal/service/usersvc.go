package service

import (
	"context"
	"strings"

	"socialboard/internal/domain"
)

type UsersSearchStore interface {
	SearchUsers(ctx context.Context, q string, limit int, excludeUserID string) ([]domain.UserSummary, error)
}

type UsersService struct {
	Users  UsersStore
	Search UsersSearchStore
}

func (s *UsersService) SearchUsers(ctx context.Context, q string, limit int, excludeUserID string) ([]domain.UserSummary, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domain.NewValidationError(map[string]string{"q": "required"})
	}
	return s.Search.SearchUsers(ctx, q, limit, excludeUserID)
}

func (s *UsersService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.NewValidationError(map[string]string{"username": "required"})
	}
	return s.Users.GetUserByUsername(ctx, username)
}

func (s *UsersService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.NewValidationError(map[string]string{"id": "required"})
	}
	return s.Users.GetUserByID(ctx, id)
}
