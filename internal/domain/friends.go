package domain

import "time"

type FriendshipStatus string

// Pending and denied exist in the schema but are never produced by the exposed
// friending flow: adding a friend upserts straight to accepted. They are kept
// so a propose/accept workflow could be introduced without a migration.
const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDenied   FriendshipStatus = "denied"
)

// Friendship is one stored edge per unordered user pair. UserLow/UserHigh hold
// the pair in lexicographic id order so the database can enforce uniqueness.
type Friendship struct {
	ID        string
	UserLow   string
	UserHigh  string
	Status    FriendshipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FriendshipOutcome reports what EstablishFriendship did. An already-accepted
// edge is an informational no-op, not an error.
type FriendshipOutcome string

const (
	FriendshipEstablished FriendshipOutcome = "established"
	FriendshipUnchanged   FriendshipOutcome = "unchanged"
)
