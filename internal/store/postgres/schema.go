package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables on startup if they do not exist yet. The
// uniqueness constraint on the ordered friendship pair is the concurrency
// mechanism the friend upsert depends on; everything else is plain storage.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		email         text NOT NULL,
		username      text NOT NULL,
		password_hash text NOT NULL,
		avatar_path   text NOT NULL DEFAULT '',
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now(),
		last_login_at timestamptz,
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    uuid NOT NULL REFERENCES users(id),
		created_at timestamptz NOT NULL DEFAULT now(),
		expires_at timestamptz NOT NULL,
		revoked_at timestamptz,
		ip         text,
		user_agent text
	)`,

	`CREATE TABLE IF NOT EXISTS friendships (
		id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		user_low   uuid NOT NULL REFERENCES users(id),
		user_high  uuid NOT NULL REFERENCES users(id),
		status     text NOT NULL DEFAULT 'accepted',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT friendships_status_chk CHECK (status IN ('pending', 'accepted', 'denied')),
		CONSTRAINT friendships_pair_order_chk CHECK (user_low < user_high),
		CONSTRAINT friendships_pair_uq UNIQUE (user_low, user_high)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		sender_id   uuid NOT NULL REFERENCES users(id),
		receiver_id uuid NOT NULL REFERENCES users(id),
		body        text NOT NULL,
		created_at  timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT messages_body_chk CHECK (char_length(body) BETWEEN 1 AND 500)
	)`,

	`CREATE INDEX IF NOT EXISTS messages_pair_created_idx
		ON messages (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id), created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS posts (
		id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		author_id  uuid NOT NULL REFERENCES users(id),
		body       text NOT NULL DEFAULT '',
		image_path text,
		created_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT posts_body_chk CHECK (char_length(body) <= 500),
		CONSTRAINT posts_not_empty_chk CHECK (body <> '' OR image_path IS NOT NULL)
	)`,

	`CREATE INDEX IF NOT EXISTS posts_author_created_idx
		ON posts (author_id, created_at DESC)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
