package storage

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/A-ndrey/spdesk/internal/model"
)

const newsSelect = `select n.id, n.title, n.content, n.author_id, u.name, n.is_pinned, n.created_at, n.updated_at
	from news n join users u on u.id = n.author_id`

type News struct {
	db DBTX
}

func NewNews(db DBTX) *News {
	return &News{db: db}
}

func (n *News) Create(ctx context.Context, authorID string, in model.NewNews) (model.News, error) {
	ts := now()
	id := newID()
	pinned := in.IsPinned != nil && *in.IsPinned

	_, err := n.db.ExecContext(ctx,
		"insert into news (id, title, content, author_id, is_pinned, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?)",
		id, in.Title, in.Content, authorID, pinned, ts, ts,
	)
	if err != nil {
		return model.News{}, err
	}

	return n.Get(ctx, id)
}

func (n *News) Get(ctx context.Context, newsID string) (model.News, error) {
	item, err := scanNews(n.db.QueryRowContext(ctx, newsSelect+" where n.id = ?", newsID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.News{}, ErrNotFound
	}

	return item, err
}

func (n *News) List(ctx context.Context) ([]model.News, error) {
	rows, err := n.db.QueryContext(ctx, newsSelect+" order by n.is_pinned desc, n.created_at desc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.News{}
	for rows.Next() {
		item, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanNews(row rowScanner) (model.News, error) {
	var item model.News
	err := row.Scan(&item.ID, &item.Title, &item.Content, &item.AuthorID, &item.AuthorName, &item.IsPinned, &item.CreatedAt, &item.UpdatedAt)

	return item, err
}

func (n *News) Update(ctx context.Context, newsID string, patch model.NewsPatch) error {
	b := sq.Update("news")
	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Content != nil {
		b = b.Set("content", *patch.Content)
	}
	if patch.IsPinned != nil {
		b = b.Set("is_pinned", *patch.IsPinned)
	}

	return execUpdate(ctx, n.db, b.Set("updated_at", now()).Where(sq.Eq{"id": newsID}))
}

func (n *News) Delete(ctx context.Context, newsID string) error {
	return execUpdate(ctx, n.db, sq.Delete("news").Where(sq.Eq{"id": newsID}))
}
