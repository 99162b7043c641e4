package httpapi

import (
	"errors"
	"net/http"
	"time"

	"socialboard/internal/domain"
	"socialboard/internal/uploads"
)

type postResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	ImagePath string    `json:"image_path,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Body:      p.Body,
		ImagePath: p.ImagePath,
		ImageURL:  uploadURL(p.ImagePath),
		CreatedAt: p.CreatedAt,
	}
}

func (a *api) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	target, err := a.usersSvc.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	posts, err := a.feedSvc.ListPosts(r.Context(), target.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"posts": out})
}

func (a *api) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxUploadSize)
	if err := r.ParseMultipartForm(uploads.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_post", "post is too large")
		return
	}

	body := r.FormValue("body")

	imagePath := ""
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		imagePath, err = uploads.SaveImage(a.uploadDir, file, header.Filename)
		if errors.Is(err, uploads.ErrUnsupportedImage) {
			WriteError(w, http.StatusBadRequest, "invalid_image", "image must be a jpg or png file")
			return
		}
		if err != nil {
			a.logger.Error("store post image failed", "err", err)
			WriteError(w, http.StatusInternalServerError, "internal_error", "failed to store image")
			return
		}
	case err == http.ErrMissingFile:
		// text-only post
	default:
		WriteError(w, http.StatusBadRequest, "invalid_image", "image upload is malformed")
		return
	}

	post, err := a.feedSvc.CreatePost(r.Context(), u.ID, body, imagePath)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toPostResponse(post))
}
