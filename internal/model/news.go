package model

import (
	"strings"
	"time"

	"github.com/A-ndrey/spdesk/internal/failure"
)

type News struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	IsPinned   bool      `json:"is_pinned"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type NewNews struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned *bool  `json:"is_pinned"`
}

func (n NewNews) Validate() error {
	const op = "model.NewNews"

	if strings.TrimSpace(n.Title) == "" {
		return failure.Validation(op, "Title is required")
	}
	if strings.TrimSpace(n.Content) == "" {
		return failure.Validation(op, "Content is required")
	}

	return nil
}

type NewsPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	IsPinned *bool   `json:"is_pinned"`
}

func (p NewsPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsPinned == nil
}
