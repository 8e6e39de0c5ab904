package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/A-ndrey/spdesk/internal/failure"
)

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
	BlogArchived  BlogStatus = "archived"
)

func (s BlogStatus) Valid() bool {
	switch s {
	case BlogDraft, BlogPublished, BlogArchived:
		return true
	default:
		return false
	}
}

type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	AuthorID    string     `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	Status      BlogStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var errTitleNoSlug = failure.Validation("model.Blog", "Title must contain letters or digits")

type NewBlogPost struct {
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Excerpt *string     `json:"excerpt"`
	Status  *BlogStatus `json:"status"`
}

func (b NewBlogPost) Validate() error {
	const op = "model.NewBlogPost"

	if strings.TrimSpace(b.Title) == "" {
		return failure.Validation(op, "Title is required")
	}
	if Slugify(b.Title) == "" {
		return errTitleNoSlug
	}
	if strings.TrimSpace(b.Content) == "" {
		return failure.Validation(op, "Content is required")
	}
	if b.Status != nil && !b.Status.Valid() {
		return failure.Validation(op, "Invalid status")
	}

	return nil
}

type BlogPatch struct {
	Title   *string     `json:"title"`
	Content *string     `json:"content"`
	Excerpt *string     `json:"excerpt"`
	Status  *BlogStatus `json:"status"`
}

func (p BlogPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Excerpt == nil && p.Status == nil
}

func (p BlogPatch) Validate() error {
	if p.Title != nil && Slugify(*p.Title) == "" {
		return errTitleNoSlug
	}
	if p.Status != nil && !p.Status.Valid() {
		return failure.Validation("model.BlogPatch", "Invalid status")
	}

	return nil
}

// Slugify lowercases title and joins its alphanumeric runs with '-'.
func Slugify(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	return strings.Join(words, "-")
}
