package service

import (
	"context"
	"errors"
	"strings"

	"socialboard/internal/domain"
)

type FriendshipsStore interface {
	Establish(ctx context.Context, userLow, userHigh string) (domain.FriendshipOutcome, error)
	AreFriends(ctx context.Context, userLow, userHigh string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error)
}

// FriendsService resolves symmetric friendship state from stored pair edges.
// There is no approval step: adding a friend is immediate and mutual, matching
// the product decision to collapse request and accept into one action.
type FriendsService struct {
	Users       UsersStore
	Friendships FriendshipsStore
}

// EstablishFriendship upserts the edge between actor and target to accepted.
// Adding an existing friend reports FriendshipUnchanged rather than failing.
// A pair-uniqueness conflict means both sides added each other at the same
// moment; that race is expected, so the upsert is retried once before the
// conflict surfaces.
func (s *FriendsService) EstablishFriendship(ctx context.Context, actorID, targetID string) (domain.FriendshipOutcome, error) {
	if actorID == "" || targetID == "" {
		return "", domain.NewValidationError(map[string]string{"user": "required"})
	}
	if actorID == targetID {
		return "", domain.ErrSelfFriendship
	}

	low, high := orderPair(actorID, targetID)
	outcome, err := s.Friendships.Establish(ctx, low, high)
	if errors.Is(err, domain.ErrFriendshipConflict) {
		outcome, err = s.Friendships.Establish(ctx, low, high)
	}
	return outcome, err
}

// AddFriend resolves the target by username and establishes the friendship.
func (s *FriendsService) AddFriend(ctx context.Context, actorID, targetUsername string) (domain.UserSummary, domain.FriendshipOutcome, error) {
	targetUsername = strings.TrimSpace(targetUsername)
	if targetUsername == "" {
		return domain.UserSummary{}, "", domain.NewValidationError(map[string]string{"username": "required"})
	}

	target, err := s.Users.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return domain.UserSummary{}, "", err
	}

	outcome, err := s.EstablishFriendship(ctx, actorID, target.ID)
	if err != nil {
		return domain.UserSummary{}, "", err
	}

	summary := domain.UserSummary{ID: target.ID, Username: target.Username, AvatarPath: target.AvatarPath}
	return summary, outcome, nil
}

// IsFriend is symmetric in its arguments and short-circuits false when either
// id is absent.
func (s *FriendsService) IsFriend(ctx context.Context, userA, userB string) (bool, error) {
	if userA == "" || userB == "" || userA == userB {
		return false, nil
	}
	low, high := orderPair(userA, userB)
	return s.Friendships.AreFriends(ctx, low, high)
}

// ListFriends returns every user connected through an accepted edge. Ordering
// is whatever the store yields; callers should treat the result as a set.
func (s *FriendsService) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	return s.Friendships.ListFriends(ctx, userID)
}

func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
