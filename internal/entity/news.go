package entity

import "time"

// NewsArticle is externally owned and read-only; it is fetched fresh per
// view and never persisted. A zero PublishedAt means the source did not
// report a publish time.
type NewsArticle struct {
	ID          string    `json:"article_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Link        string    `json:"link"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"pub_date,omitempty"`
	SourceID    string    `json:"source_id,omitempty"`
}
