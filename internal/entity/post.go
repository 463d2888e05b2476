package entity

import "time"

// Post is a forum entry. AuthorName is a point-in-time copy taken at
// creation and is intentionally never back-filled from the live user record.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	ImageURL   string    `json:"image_url,omitempty"`
	FileURL    string    `json:"file_url,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Comment is attached to a post by id. The back-reference is not an
// ownership edge; a comment may outlive its post and must render without it.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	Text       string    `json:"text"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
