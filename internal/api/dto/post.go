package dto

import "time"

// PostDTO 文章
type PostDTO struct {
	ID         uint64    `json:"id"`
	AuthorID   uint64    `json:"author_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Published  bool      `json:"published"`
	ViewsCount int64     `json:"views_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}
