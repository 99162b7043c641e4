package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"socialboard/internal/domain"
)

type PostsStore interface {
	Insert(ctx context.Context, authorID, body, imagePath string) (domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
}

type FeedService struct {
	Posts PostsStore
}

// ListPosts returns the user's posts in reverse-chronological order, without
// a limit.
func (s *FeedService) ListPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	if userID == "" {
		return nil, domain.NewValidationError(map[string]string{"user": "required"})
	}
	return s.Posts.ListByAuthor(ctx, userID)
}

// CreatePost inserts an immutable post. The body may be empty when an image
// is attached; a post with neither is rejected.
func (s *FeedService) CreatePost(ctx context.Context, authorID, body, imagePath string) (domain.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" && imagePath == "" {
		return domain.Post{}, domain.NewValidationError(map[string]string{"post": "text or image is required"})
	}
	if utf8.RuneCountInString(body) > domain.MaxPostLen {
		return domain.Post{}, domain.NewValidationError(map[string]string{"body": "must be 500 characters or less"})
	}
	return s.Posts.Insert(ctx, authorID, body, imagePath)
}
