package domain

import "time"

type User struct {
	ID          string
	Email       string
	Username    string
	AvatarPath  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

type UserWithPassword struct {
	User
	PasswordHash string
}

// UserSummary is the projection embedded in friend lists and search results.
type UserSummary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
