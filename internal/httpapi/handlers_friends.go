package httpapi

import (
	"net/http"

	"socialboard/internal/domain"
)

type addFriendRequest struct {
	Username string `json:"username"`
}

type addFriendResponse struct {
	Friend  domain.UserSummary       `json:"friend"`
	Outcome domain.FriendshipOutcome `json:"outcome"`
}

// handleFriendsAdd is the single friending operation: no request/accept
// round-trip, the pair is friends as soon as either side adds the other.
func (a *api) handleFriendsAdd(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req addFriendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	friend, outcome, err := a.friendsSvc.AddFriend(r.Context(), u.ID, req.Username)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if outcome == domain.FriendshipUnchanged {
		status = http.StatusOK
	}
	WriteJSON(w, status, addFriendResponse{Friend: friend, Outcome: outcome})
}

func (a *api) handleFriendsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	friends, err := a.friendsSvc.ListFriends(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if friends == nil {
		friends = []domain.UserSummary{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"friends": friends})
}

// handleFriendsStatus reports whether the caller and the named user are
// friends. The answer is the same regardless of which side asks.
func (a *api) handleFriendsStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	target, err := a.usersSvc.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	friends, err := a.friendsSvc.IsFriend(r.Context(), u.ID, target.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"friends": friends})
}
