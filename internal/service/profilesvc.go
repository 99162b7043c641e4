package service

import (
	"context"
	"strings"

	"socialboard/internal/domain"
)

type ProfileStore interface {
	SetAvatar(ctx context.Context, userID, avatarPath string) error
}

type ProfileService struct {
	Store ProfileStore
}

// UpdateAvatar records the generated filename of an already-saved image. The
// blob itself is owned by the upload directory, not the store.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID, avatarPath string) error {
	if strings.TrimSpace(avatarPath) == "" {
		return domain.NewValidationError(map[string]string{"avatar": "file is required"})
	}
	return s.Store.SetAvatar(ctx, userID, avatarPath)
}
