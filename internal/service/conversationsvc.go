package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"socialboard/internal/domain"
)

type MessagesStore interface {
	Insert(ctx context.Context, senderID, receiverID, body string) (string, time.Time, error)
	ConversationWindow(ctx context.Context, q domain.ConversationQuery) ([]domain.Message, error)
}

// ConversationService reads and appends the direct-message log between two
// friends. There is no push transport: clients learn about new messages by
// calling FetchConversation again, and the only delivery guarantee is
// read-your-writes against the same backing store.
type ConversationService struct {
	Users    UsersStore
	Friends  *FriendsService
	Messages MessagesStore
}

// FetchConversation returns the most recent q.Limit messages between the two
// users, oldest first. The window is selected newest-first and then reversed:
// a full chat always shows the latest messages, not the earliest. This
// recency-window policy is deliberate. Fetching requires an accepted
// friendship, like the chat widget it serves.
func (s *ConversationService) FetchConversation(ctx context.Context, q domain.ConversationQuery) ([]domain.Message, error) {
	if q.UserA == "" || q.UserB == "" {
		return nil, domain.NewValidationError(map[string]string{"user": "required"})
	}
	if q.Limit <= 0 {
		q.Limit = domain.DefaultConversationLimit
	}

	friends, err := s.Friends.IsFriend(ctx, q.UserA, q.UserB)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, domain.ErrForbidden
	}

	window, err := s.Messages.ConversationWindow(ctx, q)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(window)-1; i < j; i, j = i+1, j-1 {
		window[i], window[j] = window[j], window[i]
	}
	return window, nil
}

// SendMessage appends one immutable message. The receiver must exist and must
// be an accepted friend of the sender; the friendship is re-checked inside the
// insert statement, so a message can never be written after an edge stops
// being accepted. Messaging yourself is forbidden, not invalid: there is no
// self-friendship, so it fails the same way any non-friend send does. No
// fan-out happens on success.
func (s *ConversationService) SendMessage(ctx context.Context, senderID, receiverID, body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", domain.NewValidationError(map[string]string{"body": "required"})
	}
	if utf8.RuneCountInString(body) > domain.MaxMessageLen {
		return "", domain.NewValidationError(map[string]string{"body": "must be 500 characters or less"})
	}
	if receiverID == "" {
		return "", domain.NewValidationError(map[string]string{"receiver_id": "required"})
	}
	if senderID == receiverID {
		return "", domain.ErrForbidden
	}

	if _, err := s.Users.GetUserByID(ctx, receiverID); err != nil {
		return "", err
	}

	id, _, err := s.Messages.Insert(ctx, senderID, receiverID, body)
	return id, err
}
