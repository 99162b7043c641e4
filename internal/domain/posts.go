package domain

import "time"

const MaxPostLen = 500

// Post body may be empty when an image is attached; never both empty.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
