package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessagesStore struct {
	pool *pgxpool.Pool
}

func NewMessagesStore(pool *pgxpool.Pool) *MessagesStore {
	return &MessagesStore{pool: pool}
}

// Insert appends a message only if an accepted friendship exists between the
// pair. The friendship check runs inside the insert statement itself, so there
// is no window between check and write. Returns domain.ErrForbidden when the
// pair is not friends.
func (s *MessagesStore) Insert(ctx context.Context, senderID, receiverID, body string) (string, time.Time, error) {
	const q = `
		INSERT INTO messages (sender_id, receiver_id, body)
		SELECT $1, $2, $3
		WHERE EXISTS (
			SELECT 1 FROM friendships
			WHERE user_low = LEAST($1::uuid, $2::uuid)
			  AND user_high = GREATEST($1::uuid, $2::uuid)
			  AND status = 'accepted'
		)
		RETURNING id, created_at
	`

	var (
		idUUID    pgtype.UUID
		createdAt time.Time
	)
	err := s.pool.QueryRow(ctx, q, senderID, receiverID, body).Scan(&idUUID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, domain.ErrForbidden
		}
		return "", time.Time{}, fmt.Errorf("insert message: %w", err)
	}

	return uuidOrEmpty(idUUID), createdAt, nil
}

// ConversationWindow returns the most recent messages between the pair,
// newest first. Equal timestamps break on id so the order is deterministic.
// The service reverses the window to ascending order before returning it.
func (s *MessagesStore) ConversationWindow(ctx context.Context, q domain.ConversationQuery) ([]domain.Message, error) {
	const query = `
		SELECT id, sender_id, receiver_id, body, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, query, q.UserA, q.UserB, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("conversation window: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var (
			m          domain.Message
			idUUID     pgtype.UUID
			senderUU   pgtype.UUID
			receiverUU pgtype.UUID
		)
		if err := rows.Scan(&idUUID, &senderUU, &receiverUU, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = uuidOrEmpty(idUUID)
		m.SenderID = uuidOrEmpty(senderUU)
		m.ReceiverID = uuidOrEmpty(receiverUU)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation window: %w", err)
	}
	return out, nil
}
