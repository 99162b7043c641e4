package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialboard/internal/domain"
	"socialboard/internal/service"
)

type stubPostsStore struct {
	t *testing.T

	insertFunc       func(context.Context, string, string, string) (domain.Post, error)
	listByAuthorFunc func(context.Context, string) ([]domain.Post, error)
}

func (s *stubPostsStore) Insert(ctx context.Context, authorID, body, imagePath string) (domain.Post, error) {
	if s.insertFunc != nil {
		return s.insertFunc(ctx, authorID, body, imagePath)
	}
	s.t.Fatalf("Insert called unexpectedly")
	return domain.Post{}, context.Canceled
}

func (s *stubPostsStore) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	if s.listByAuthorFunc != nil {
		return s.listByAuthorFunc(ctx, authorID)
	}
	s.t.Fatalf("ListByAuthor called unexpectedly")
	return nil, context.Canceled
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestPostCreateTextOnly(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	posts := &stubPostsStore{
		t: t,
		insertFunc: func(_ context.Context, authorID, body, imagePath string) (domain.Post, error) {
			if authorID != "user-1" {
				t.Fatalf("unexpected author: %s", authorID)
			}
			if body != "hello world" || imagePath != "" {
				t.Fatalf("unexpected post: %q %q", body, imagePath)
			}
			return domain.Post{ID: "post-1", AuthorID: authorID, Body: body, CreatedAt: created}, nil
		},
	}

	api := &api{
		feedSvc:   &service.FeedService{Posts: posts},
		uploadDir: t.TempDir(),
	}

	buf, contentType := multipartBody(t, map[string]string{"body": "hello world"})
	req := httptest.NewRequest(http.MethodPost, "/v1/posts", buf)
	req.Header.Set("Content-Type", contentType)
	req = asUser(req, domain.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	api.handlePostCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d, body: %s", rr.Code, rr.Body.String())
	}

	var got postResponse
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "post-1" || got.Body != "hello world" {
		t.Fatalf("unexpected post: %#v", got)
	}
	if got.ImageURL != "" {
		t.Fatalf("unexpected image url: %s", got.ImageURL)
	}
}

func TestPostCreateEmptyRejected(t *testing.T) {
	api := &api{
		feedSvc:   &service.FeedService{Posts: &stubPostsStore{t: t}},
		uploadDir: t.TempDir(),
	}

	buf, contentType := multipartBody(t, map[string]string{"body": "   "})
	req := httptest.NewRequest(http.MethodPost, "/v1/posts", buf)
	req.Header.Set("Content-Type", contentType)
	req = asUser(req, domain.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	api.handlePostCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestPostCreateRejectsUnsupportedImage(t *testing.T) {
	api := &api{
		feedSvc:   &service.FeedService{Posts: &stubPostsStore{t: t}},
		uploadDir: t.TempDir(),
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "payload.exe")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("not an image")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = asUser(req, domain.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	api.handlePostCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestUserPostsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(_ context.Context, username string) (domain.User, error) {
			if username != "alice" {
				t.Fatalf("unexpected username: %s", username)
			}
			return domain.User{ID: "user-2", Username: "alice"}, nil
		},
	}
	posts := &stubPostsStore{
		t: t,
		listByAuthorFunc: func(_ context.Context, authorID string) ([]domain.Post, error) {
			if authorID != "user-2" {
				t.Fatalf("unexpected author: %s", authorID)
			}
			return []domain.Post{
				{ID: "post-2", AuthorID: authorID, Body: "later", CreatedAt: base.Add(time.Hour)},
				{ID: "post-1", AuthorID: authorID, Body: "earlier", ImagePath: "img.png", CreatedAt: base},
			}, nil
		},
	}

	api := &api{
		feedSvc:  &service.FeedService{Posts: posts},
		usersSvc: &service.UsersService{Users: users},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/users/alice/posts", nil)
	req.SetPathValue("username", "alice")
	req = asUser(req, domain.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	api.handleUserPosts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var got struct {
		Posts []postResponse `json:"posts"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Posts) != 2 || got.Posts[0].ID != "post-2" {
		t.Fatalf("unexpected posts: %#v", got.Posts)
	}
	if got.Posts[1].ImageURL != "/uploads/img.png" {
		t.Fatalf("unexpected image url: %s", got.Posts[1].ImageURL)
	}
}
