package httpapi

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"socialboard/internal/domain"
	"socialboard/internal/uploads"
)

func (a *api) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxUploadSize)
	if err := r.ParseMultipartForm(uploads.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_avatar", "avatar file is too large")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_avatar", "avatar file is required")
		return
	}
	defer file.Close()

	filename, err := uploads.SaveImage(a.uploadDir, file, header.Filename)
	if errors.Is(err, uploads.ErrUnsupportedImage) {
		WriteError(w, http.StatusBadRequest, "invalid_avatar", "avatar must be a jpg or png file")
		return
	}
	if err != nil {
		a.logger.Error("store avatar failed", "err", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "failed to store avatar")
		return
	}

	if err := a.profileSvc.UpdateAvatar(r.Context(), u.ID, filename); err != nil {
		_ = os.Remove(filepath.Join(a.uploadDir, filename))
		WriteDomainError(w, err)
		return
	}

	updated, err := a.usersSvc.GetByID(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeUser(w, http.StatusOK, updated)
}
