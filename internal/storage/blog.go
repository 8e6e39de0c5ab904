package storage

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/A-ndrey/spdesk/internal/model"
)

const blogSelect = `select b.id, b.title, b.slug, b.content, b.excerpt, b.author_id, u.name, b.status, b.published_at, b.created_at, b.updated_at
	from blog_posts b join users u on u.id = b.author_id`

type Blog struct {
	db DBTX
}

func NewBlog(db DBTX) *Blog {
	return &Blog{db: db}
}

func (b *Blog) Create(ctx context.Context, authorID string, in model.NewBlogPost) (model.BlogPost, error) {
	ts := now()
	id := newID()

	status := model.BlogDraft
	if in.Status != nil {
		status = *in.Status
	}

	var publishedAt any
	if status == model.BlogPublished {
		publishedAt = ts
	}

	_, err := b.db.ExecContext(ctx,
		"insert into blog_posts (id, title, slug, content, excerpt, author_id, status, published_at, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, in.Title, model.Slugify(in.Title), in.Content, nullable(in.Excerpt), authorID, status, publishedAt, ts, ts,
	)
	if err != nil {
		return model.BlogPost{}, err
	}

	return b.Get(ctx, id)
}

func (b *Blog) Get(ctx context.Context, postID string) (model.BlogPost, error) {
	post, err := scanBlogPost(b.db.QueryRowContext(ctx, blogSelect+" where b.id = ?", postID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BlogPost{}, ErrNotFound
	}

	return post, err
}

func (b *Blog) List(ctx context.Context) ([]model.BlogPost, error) {
	rows, err := b.db.QueryContext(ctx, blogSelect+" order by b.created_at desc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.BlogPost{}
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func scanBlogPost(row rowScanner) (model.BlogPost, error) {
	var (
		post        model.BlogPost
		excerpt     sql.NullString
		publishedAt sql.NullTime
	)

	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &excerpt, &post.AuthorID, &post.AuthorName,
		&post.Status, &publishedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return model.BlogPost{}, err
	}

	post.Excerpt = stringPtr(excerpt)
	post.PublishedAt = timePtr(publishedAt)

	return post, nil
}

// Update applies patch. A new title regenerates the slug and publishing stamps
// published_at.
func (b *Blog) Update(ctx context.Context, postID string, patch model.BlogPatch) error {
	ts := now()

	ub := sq.Update("blog_posts")
	if patch.Title != nil {
		ub = ub.Set("title", *patch.Title).Set("slug", model.Slugify(*patch.Title))
	}
	if patch.Content != nil {
		ub = ub.Set("content", *patch.Content)
	}
	if patch.Excerpt != nil {
		ub = ub.Set("excerpt", *patch.Excerpt)
	}
	if patch.Status != nil {
		ub = ub.Set("status", string(*patch.Status))
		if *patch.Status == model.BlogPublished {
			ub = ub.Set("published_at", ts)
		}
	}

	return execUpdate(ctx, b.db, ub.Set("updated_at", ts).Where(sq.Eq{"id": postID}))
}

func (b *Blog) Delete(ctx context.Context, postID string) error {
	return execUpdate(ctx, b.db, sq.Delete("blog_posts").Where(sq.Eq{"id": postID}))
}
