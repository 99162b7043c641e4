package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"socialboard/internal/domain"
)

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
}

func (a *api) handleMessagesSend(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	// Reject malformed ids here so they never reach a uuid query parameter.
	if uuid.Validate(req.ReceiverID) != nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"receiver_id": "must be a valid id"}))
		return
	}

	id, err := a.conversationSvc.SendMessage(r.Context(), u.ID, req.ReceiverID, req.Body)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type conversationResponse struct {
	CurrentUserID  string           `json:"current_user_id"`
	FriendID       string           `json:"friend_id"`
	FriendUsername string           `json:"friend_username"`
	MessagesCount  int              `json:"messages_count"`
	Messages       []domain.Message `json:"messages"`
}

// handleConversationGet is the poll endpoint behind the chat widget. Clients
// call it on a fixed interval; each response is the latest window, oldest
// message first, so the widget can re-render the box wholesale.
func (a *api) handleConversationGet(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	friendID := r.PathValue("id")
	if uuid.Validate(friendID) != nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "must be a valid id"}))
		return
	}

	friend, err := a.usersSvc.GetByID(r.Context(), friendID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteDomainError(w, domain.NewValidationError(map[string]string{"limit": "must be a positive number"}))
			return
		}
		limit = n
	}

	msgs, err := a.conversationSvc.FetchConversation(r.Context(), domain.ConversationQuery{
		UserA: u.ID,
		UserB: friend.ID,
		Limit: limit,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, conversationResponse{
		CurrentUserID:  u.ID,
		FriendID:       friend.ID,
		FriendUsername: friend.Username,
		MessagesCount:  len(msgs),
		Messages:       msgs,
	})
}
