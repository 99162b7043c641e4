package postgres

import (
	"context"
	"errors"
	"fmt"

	"socialboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FriendshipsStore struct {
	pool *pgxpool.Pool
}

func NewFriendshipsStore(pool *pgxpool.Pool) *FriendshipsStore {
	return &FriendshipsStore{pool: pool}
}

// Establish upserts the (userLow, userHigh) edge to accepted. The caller must
// pass the pair in ascending id order; friendships_pair_uq guarantees at most
// one edge per pair even under concurrent calls from both sides. A concurrent
// insert of the same pair surfaces as domain.ErrFriendshipConflict, which the
// service layer retries once.
func (s *FriendshipsStore) Establish(ctx context.Context, userLow, userHigh string) (domain.FriendshipOutcome, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("establish friendship: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sel = `
		SELECT status
		FROM friendships
		WHERE user_low = $1 AND user_high = $2
		FOR UPDATE
	`

	var status domain.FriendshipStatus
	err = tx.QueryRow(ctx, sel, userLow, userHigh).Scan(&status)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		const ins = `
			INSERT INTO friendships (user_low, user_high, status)
			VALUES ($1, $2, 'accepted')
		`
		if _, err := tx.Exec(ctx, ins, userLow, userHigh); err != nil {
			var pgerr *pgconn.PgError
			if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "friendships_pair_uq" {
				return "", domain.ErrFriendshipConflict
			}
			return "", fmt.Errorf("establish friendship: insert: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return "", fmt.Errorf("establish friendship: commit: %w", err)
		}
		return domain.FriendshipEstablished, nil

	case err != nil:
		return "", fmt.Errorf("establish friendship: select: %w", err)

	case status == domain.FriendshipAccepted:
		return domain.FriendshipUnchanged, nil
	}

	const upd = `
		UPDATE friendships
		SET status = 'accepted', updated_at = now()
		WHERE user_low = $1 AND user_high = $2
	`
	if _, err := tx.Exec(ctx, upd, userLow, userHigh); err != nil {
		return "", fmt.Errorf("establish friendship: update: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("establish friendship: commit: %w", err)
	}
	return domain.FriendshipEstablished, nil
}

func (s *FriendshipsStore) AreFriends(ctx context.Context, userLow, userHigh string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE user_low = $1 AND user_high = $2 AND status = 'accepted'
		)
	`

	var friends bool
	if err := s.pool.QueryRow(ctx, q, userLow, userHigh).Scan(&friends); err != nil {
		return false, fmt.Errorf("are friends: %w", err)
	}
	return friends, nil
}

func (s *FriendshipsStore) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	const q = `
		SELECT u.id, u.username, u.avatar_path
		FROM friendships f
		JOIN users u ON u.id = CASE
			WHEN f.user_low = $1 THEN f.user_high
			ELSE f.user_low
		END
		WHERE f.status = 'accepted' AND (f.user_low = $1 OR f.user_high = $1)
		ORDER BY u.username ASC
	`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var idUUID pgtype.UUID
		var username, avatarPath string
		if err := rows.Scan(&idUUID, &username, &avatarPath); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		out = append(out, domain.UserSummary{ID: uuidOrEmpty(idUUID), Username: username, AvatarPath: avatarPath})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return out, nil
}
