package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialboard/internal/domain"
	"socialboard/internal/service"
)

type stubUsersStore struct {
	t *testing.T

	createUserFunc        func(context.Context, string, string, string) (domain.User, error)
	getUserByIDFunc       func(context.Context, string) (domain.User, error)
	getUserByUsernameFunc func(context.Context, string) (domain.User, error)
	getUserByLoginFunc    func(context.Context, string) (domain.UserWithPassword, error)
	setLastLoginFunc      func(context.Context, string, time.Time) error
}

func (s *stubUsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	if s.createUserFunc != nil {
		return s.createUserFunc(ctx, email, username, passwordHash)
	}
	s.t.Fatalf("CreateUser called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getUserByIDFunc != nil {
		return s.getUserByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetUserByID called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	if s.getUserByUsernameFunc != nil {
		return s.getUserByUsernameFunc(ctx, username)
	}
	s.t.Fatalf("GetUserByUsername called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	if s.getUserByLoginFunc != nil {
		return s.getUserByLoginFunc(ctx, login)
	}
	s.t.Fatalf("GetUserByLogin called unexpectedly")
	return domain.UserWithPassword{}, context.Canceled
}

func (s *stubUsersStore) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	if s.setLastLoginFunc != nil {
		return s.setLastLoginFunc(ctx, userID, when)
	}
	s.t.Fatalf("SetLastLogin called unexpectedly")
	return context.Canceled
}

type stubFriendshipsStore struct {
	t *testing.T

	establishFunc   func(context.Context, string, string) (domain.FriendshipOutcome, error)
	areFriendsFunc  func(context.Context, string, string) (bool, error)
	listFriendsFunc func(context.Context, string) ([]domain.UserSummary, error)
}

func (s *stubFriendshipsStore) Establish(ctx context.Context, userLow, userHigh string) (domain.FriendshipOutcome, error) {
	if s.establishFunc != nil {
		return s.establishFunc(ctx, userLow, userHigh)
	}
	s.t.Fatalf("Establish called unexpectedly")
	return "", context.Canceled
}

func (s *stubFriendshipsStore) AreFriends(ctx context.Context, userLow, userHigh string) (bool, error) {
	if s.areFriendsFunc != nil {
		return s.areFriendsFunc(ctx, userLow, userHigh)
	}
	s.t.Fatalf("AreFriends called unexpectedly")
	return false, context.Canceled
}

func (s *stubFriendshipsStore) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	if s.listFriendsFunc != nil {
		return s.listFriendsFunc(ctx, userID)
	}
	s.t.Fatalf("ListFriends called unexpectedly")
	return nil, context.Canceled
}

func asUser(req *http.Request, u domain.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), authUserKey, u))
}

func TestFriendsAddEstablished(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(_ context.Context, username string) (domain.User, error) {
			if username != "alice" {
				t.Fatalf("unexpected username: %s", username)
			}
			return domain.User{ID: "user-2", Username: "alice"}, nil
		},
	}
	friendships := &stubFriendshipsStore{
		t: t,
		establishFunc: func(_ context.Context, low, high string) (domain.FriendshipOutcome, error) {
			if low != "user-1" || high != "user-2" {
				t.Fatalf("unexpected pair: %s %s", low, high)
			}
			return domain.FriendshipEstablished, nil
		},
	}

	api := &api{
		friendsSvc: &service.FriendsService{Users: users, Friendships: friendships},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/friends", strings.NewReader(`{"username":"alice"}`))
	req = asUser(req, domain.User{ID: "user-1", Username: "bob"})
	rr := httptest.NewRecorder()
	api.handleFriendsAdd(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var got addFriendResponse
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Friend.ID != "user-2" || got.Friend.Username != "alice" {
		t.Fatalf("unexpected friend: %#v", got.Friend)
	}
	if got.Outcome != domain.FriendshipEstablished {
		t.Fatalf("unexpected outcome: %s", got.Outcome)
	}
}

func TestFriendsAddExistingFriendIsOK(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{ID: "user-2", Username: "alice"}, nil
		},
	}
	friendships := &stubFriendshipsStore{
		t: t,
		establishFunc: func(_ context.Context, _, _ string) (domain.FriendshipOutcome, error) {
			return domain.FriendshipUnchanged, nil
		},
	}

	api := &api{
		friendsSvc: &service.FriendsService{Users: users, Friendships: friendships},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/friends", strings.NewReader(`{"username":"alice"}`))
	req = asUser(req, domain.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	api.handleFriendsAdd(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestFriendsAddSelfRejected(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{ID: "user-1", Username: "bob"}, nil
		},
	}

	api := &api{
		friendsSvc: &service.FriendsService{Users: users, Friendships: &stubFriendshipsStore{t: t}},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/friends", strings.NewReader(`{"username":"bob"}`))
	req = asUser(req, domain.User{ID: "user-1", Username: "bob"})
	rr := httptest.NewRecorder()
	api.handleFriendsAdd(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "self_friendship" {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
}

func TestFriendsAddUnknownUsername(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}

	api := &api{
		friendsSvc: &service.FriendsService{Users: users, Friendships: &stubFriendshipsStore{t: t}},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/friends", strings.NewReader(`{"username":"ghost"}`))
	req = asUser(req, domain.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	api.handleFriendsAdd(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestFriendsListEmpty(t *testing.T) {
	friendships := &stubFriendshipsStore{
		t: t,
		listFriendsFunc: func(_ context.Context, userID string) ([]domain.UserSummary, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return nil, nil
		},
	}

	api := &api{
		friendsSvc: &service.FriendsService{Friendships: friendships},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/friends", nil)
	req = asUser(req, domain.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	api.handleFriendsList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"friends":[]}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestFriendsStatusSymmetric(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{ID: "user-2", Username: "alice"}, nil
		},
	}
	friendships := &stubFriendshipsStore{
		t: t,
		areFriendsFunc: func(_ context.Context, low, high string) (bool, error) {
			if low != "user-1" || high != "user-2" {
				t.Fatalf("unexpected pair: %s %s", low, high)
			}
			return true, nil
		},
	}
	svc := &service.FriendsService{Users: users, Friendships: friendships}

	api := &api{
		friendsSvc: svc,
		usersSvc:   &service.UsersService{Users: users},
	}

	for _, caller := range []string{"user-1", "user-2"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/friends/alice", nil)
		req.SetPathValue("username", "alice")
		req = asUser(req, domain.User{ID: caller})
		rr := httptest.NewRecorder()

		if caller == "user-2" {
			// asking about yourself is never a friendship
			api.handleFriendsStatus(rr, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("unexpected status: %d", rr.Code)
			}
			if got := strings.TrimSpace(rr.Body.String()); got != `{"friends":false}` {
				t.Fatalf("unexpected body: %s", got)
			}
			continue
		}

		api.handleFriendsStatus(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rr.Code)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != `{"friends":true}` {
			t.Fatalf("unexpected body: %s", got)
		}
	}
}
