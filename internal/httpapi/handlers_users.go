package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"socialboard/internal/domain"
)

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email,omitempty"`
	Username   string    `json:"username"`
	AvatarPath string    `json:"avatar_path,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func writeUser(w http.ResponseWriter, status int, u domain.User) {
	WriteJSON(w, status, userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		AvatarPath: u.AvatarPath,
		AvatarURL:  uploadURL(u.AvatarPath),
		CreatedAt:  u.CreatedAt,
	})
}

func uploadURL(path string) string {
	if path == "" {
		return ""
	}
	return "/uploads/" + path
}

func (a *api) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	writeUser(w, http.StatusOK, u)
}

// handleUsersGet is the public half of a profile page: the user's summary
// without the email.
func (a *api) handleUsersGet(w http.ResponseWriter, r *http.Request) {
	target, err := a.usersSvc.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	target.Email = ""
	writeUser(w, http.StatusOK, target)
}

func (a *api) handleUsersSearch(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteDomainError(w, domain.NewValidationError(map[string]string{"limit": "must be a number"}))
			return
		}
		limit = n
	}

	results, err := a.usersSvc.SearchUsers(r.Context(), r.URL.Query().Get("q"), limit, u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if results == nil {
		results = []domain.UserSummary{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"users": results})
}
