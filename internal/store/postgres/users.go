package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = `id, email, username, avatar_path, created_at, updated_at, last_login_at`

func (s *UsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, email, username, passwordHash))
	if err != nil {
		return domain.User{}, mapUserWriteError(err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetUserByUsername is case-sensitive: usernames are stored and matched
// exactly as entered at signup.
func (s *UsersStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, q, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	const q = `
		SELECT id, email, username, password_hash, avatar_path, created_at, updated_at, last_login_at
		FROM users
		WHERE username = $1 OR email = $1
		ORDER BY (username = $1) DESC
		LIMIT 1
	`

	var (
		u           domain.UserWithPassword
		idUUID      pgtype.UUID
		lastLoginTS pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, login).Scan(
		&idUUID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.AvatarPath,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by login: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func (s *UsersStore) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	const q = `UPDATE users SET last_login_at = $2 WHERE id = $1`

	if _, err := s.pool.Exec(ctx, q, userID, when); err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	return nil
}

func (s *UsersStore) SetAvatar(ctx context.Context, userID, avatarPath string) error {
	const q = `UPDATE users SET avatar_path = $2, updated_at = now() WHERE id = $1`

	ct, err := s.pool.Exec(ctx, q, userID, avatarPath)
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u           domain.User
		idUUID      pgtype.UUID
		lastLoginTS pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&u.Email,
		&u.Username,
		&u.AvatarPath,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = uuidOrEmpty(idUUID)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func mapUserWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		switch pgerr.ConstraintName {
		case "users_username_key":
			return domain.ErrUsernameTaken
		case "users_email_key":
			return domain.ErrEmailTaken
		}
	}
	return fmt.Errorf("write user: %w", err)
}
