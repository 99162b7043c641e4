package service

import (
	"context"
	"errors"
	"testing"

	"socialboard/internal/domain"
)

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
	return "", errors.New("unexpected call")
}

func (s *stubFriendshipsStore) AreFriends(ctx context.Context, userLow, userHigh string) (bool, error) {
	if s.areFriendsFunc != nil {
		return s.areFriendsFunc(ctx, userLow, userHigh)
	}
	s.t.Fatalf("AreFriends called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubFriendshipsStore) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	if s.listFriendsFunc != nil {
		return s.listFriendsFunc(ctx, userID)
	}
	s.t.Fatalf("ListFriends called unexpectedly")
	return nil, errors.New("unexpected call")
}

func TestEstablishFriendshipRejectsSelf(t *testing.T) {
	svc := &FriendsService{Friendships: &stubFriendshipsStore{t: t}}

	_, err := svc.EstablishFriendship(context.Background(), "user-1", "user-1")
	if !errors.Is(err, domain.ErrSelfFriendship) {
		t.Fatalf("err = %v, want ErrSelfFriendship", err)
	}
}

func TestEstablishFriendshipNormalizesPairOrder(t *testing.T) {
	var gotLow, gotHigh string
	store := &stubFriendshipsStore{
		t: t,
		establishFunc: func(_ context.Context, low, high string) (domain.FriendshipOutcome, error) {
			gotLow, gotHigh = low, high
			return domain.FriendshipEstablished, nil
		},
	}
	svc := &FriendsService{Friendships: store}

	outcome, err := svc.EstablishFriendship(context.Background(), "user-b", "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != domain.FriendshipEstablished {
		t.Errorf("outcome = %q", outcome)
	}
	if gotLow != "user-a" || gotHigh != "user-b" {
		t.Errorf("pair = (%q, %q), want (user-a, user-b)", gotLow, gotHigh)
	}
}

func TestEstablishFriendshipAlreadyAcceptedIsNoOp(t *testing.T) {
	store := &stubFriendshipsStore{
		t: t,
		establishFunc: func(context.Context, string, string) (domain.FriendshipOutcome, error) {
			return domain.FriendshipUnchanged, nil
		},
	}
	svc := &FriendsService{Friendships: store}

	outcome, err := svc.EstablishFriendship(context.Background(), "user-a", "user-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != domain.FriendshipUnchanged {
		t.Errorf("outcome = %q, want unchanged", outcome)
	}
}

func TestEstablishFriendshipRetriesConflictOnce(t *testing.T) {
	calls := 0
	store := &stubFriendshipsStore{
		t: t,
		establishFunc: func(context.Context, string, string) (domain.FriendshipOutcome, error) {
			calls++
			if calls == 1 {
				return "", domain.ErrFriendshipConflict
			}
			return domain.FriendshipUnchanged, nil
		},
	}
	svc := &FriendsService{Friendships: store}

	outcome, err := svc.EstablishFriendship(context.Background(), "user-a", "user-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("establish calls = %d, want 2", calls)
	}
	if outcome != domain.FriendshipUnchanged {
		t.Errorf("outcome = %q", outcome)
	}
}

func TestEstablishFriendshipSurfacesRepeatedConflict(t *testing.T) {
	calls := 0
	store := &stubFriendshipsStore{
		t: t,
		establishFunc: func(context.Context, string, string) (domain.FriendshipOutcome, error) {
			calls++
			return "", domain.ErrFriendshipConflict
		},
	}
	svc := &FriendsService{Friendships: store}

	_, err := svc.EstablishFriendship(context.Background(), "user-a", "user-b")
	if !errors.Is(err, domain.ErrFriendshipConflict) {
		t.Fatalf("err = %v, want ErrFriendshipConflict", err)
	}
	if calls != 2 {
		t.Errorf("establish calls = %d, want exactly one retry", calls)
	}
}

func TestAddFriendResolvesUsername(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(_ context.Context, username string) (domain.User, error) {
			if username != "alice" {
				t.Fatalf("username = %q", username)
			}
			return domain.User{ID: "user-2", Username: "alice"}, nil
		},
	}
	store := &stubFriendshipsStore{
		t: t,
		establishFunc: func(context.Context, string, string) (domain.FriendshipOutcome, error) {
			return domain.FriendshipEstablished, nil
		},
	}
	svc := &FriendsService{Users: users, Friendships: store}

	target, outcome, err := svc.AddFriend(context.Background(), "user-1", " alice ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Username != "alice" || target.ID != "user-2" {
		t.Errorf("target = %+v", target)
	}
	if outcome != domain.FriendshipEstablished {
		t.Errorf("outcome = %q", outcome)
	}
}

func TestAddFriendUnknownUsername(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByUsernameFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := &FriendsService{Users: users, Friendships: &stubFriendshipsStore{t: t}}

	_, _, err := svc.AddFriend(context.Background(), "user-1", "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIsFriendSymmetric(t *testing.T) {
	store := &stubFriendshipsStore{
		t: t,
		areFriendsFunc: func(_ context.Context, low, high string) (bool, error) {
			if low != "user-a" || high != "user-b" {
				t.Fatalf("pair = (%q, %q), want normalized order", low, high)
			}
			return true, nil
		},
	}
	svc := &FriendsService{Friendships: store}

	for _, pair := range [][2]string{{"user-a", "user-b"}, {"user-b", "user-a"}} {
		ok, err := svc.IsFriend(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Errorf("IsFriend(%q, %q) = false", pair[0], pair[1])
		}
	}
}

func TestIsFriendShortCircuits(t *testing.T) {
	// The store must not be queried for absent or self pairs.
	svc := &FriendsService{Friendships: &stubFriendshipsStore{t: t}}

	cases := [][2]string{{"", "user-b"}, {"user-a", ""}, {"", ""}, {"user-a", "user-a"}}
	for _, pair := range cases {
		ok, err := svc.IsFriend(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Errorf("IsFriend(%q, %q) = true", pair[0], pair[1])
		}
	}
}

func TestListFriendsEmpty(t *testing.T) {
	store := &stubFriendshipsStore{
		t: t,
		listFriendsFunc: func(context.Context, string) ([]domain.UserSummary, error) {
			return nil, nil
		},
	}
	svc := &FriendsService{Friendships: store}

	friends, err := svc.ListFriends(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(friends) != 0 {
		t.Errorf("friends = %v, want empty", friends)
	}
}
