package postgres

import (
	"context"
	"fmt"

	"socialboard/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostsStore struct {
	pool *pgxpool.Pool
}

func NewPostsStore(pool *pgxpool.Pool) *PostsStore {
	return &PostsStore{pool: pool}
}

func (s *PostsStore) Insert(ctx context.Context, authorID, body, imagePath string) (domain.Post, error) {
	const q = `
		INSERT INTO posts (author_id, body, image_path)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, body, image_path, created_at
	`

	var (
		p        domain.Post
		idUUID   pgtype.UUID
		authorUU pgtype.UUID
		imgText  pgtype.Text
	)
	err := s.pool.QueryRow(ctx, q, authorID, body, nullIfEmpty(imagePath)).Scan(
		&idUUID,
		&authorUU,
		&p.Body,
		&imgText,
		&p.CreatedAt,
	)
	if err != nil {
		return domain.Post{}, fmt.Errorf("insert post: %w", err)
	}

	p.ID = uuidOrEmpty(idUUID)
	p.AuthorID = uuidOrEmpty(authorUU)
	p.ImagePath = textOrEmpty(imgText)
	return p, nil
}

// ListByAuthor returns all of a user's posts, newest first. No pagination:
// the feed is unbounded by design and callers may impose their own cap.
func (s *PostsStore) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	const q = `
		SELECT id, author_id, body, image_path, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, q, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		var (
			p        domain.Post
			idUUID   pgtype.UUID
			authorUU pgtype.UUID
			imgText  pgtype.Text
		)
		if err := rows.Scan(&idUUID, &authorUU, &p.Body, &imgText, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.ID = uuidOrEmpty(idUUID)
		p.AuthorID = uuidOrEmpty(authorUU)
		p.ImagePath = textOrEmpty(imgText)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}
