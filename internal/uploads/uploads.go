// Package uploads stores user-submitted images under generated filenames.
// Both the JSON API and the web UI save through it.
package uploads

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize bounds the whole multipart body for avatar and post uploads.
const MaxUploadSize = 8 << 20

var ErrUnsupportedImage = errors.New("unsupported image type")

// SaveImage writes the uploaded file into dir under a random name and returns
// the stored filename. Only jpg and png extensions are accepted. The file
// lands via a temp file and rename so the uploads directory never holds
// partial writes.
func SaveImage(dir string, file multipart.File, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", ErrUnsupportedImage
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.NewString() + ext
	targetPath := filepath.Join(dir, filename)
	tmpFile, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return "", err
	}

	cleanup := func(err error) (string, error) {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return "", err
	}

	if _, err := io.Copy(tmpFile, file); err != nil {
		return cleanup(err)
	}
	if err := tmpFile.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmpFile.Name(), targetPath); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", err
	}
	if err := os.Chmod(targetPath, 0o644); err != nil {
		_ = os.Remove(targetPath)
		return "", err
	}

	return filename, nil
}
