package storage

import (
	"context"

	"github.com/A-ndrey/spdesk/internal/model"
)

// comments stores notes for one parent table. table and parent are fixed
// identifiers, never user input.
type comments struct {
	db     DBTX
	table  string
	parent string
}

func (c comments) add(ctx context.Context, parentID, userID, text string) (model.Comment, error) {
	cm := model.Comment{
		ID:        newID(),
		ParentID:  parentID,
		UserID:    userID,
		Comment:   text,
		CreatedAt: now(),
	}

	_, err := c.db.ExecContext(ctx,
		"insert into "+c.table+" (id, "+c.parent+", user_id, comment, created_at) values (?, ?, ?, ?, ?)",
		cm.ID, cm.ParentID, cm.UserID, cm.Comment, cm.CreatedAt,
	)
	if err != nil {
		return model.Comment{}, err
	}

	err = c.db.QueryRowContext(ctx, "select name from users where id = ?", userID).Scan(&cm.UserName)
	if err != nil {
		return model.Comment{}, err
	}

	return cm, nil
}

func (c comments) list(ctx context.Context, parentID string) ([]model.Comment, error) {
	rows, err := c.db.QueryContext(ctx,
		"select c.id, c."+c.parent+", c.user_id, u.name, c.comment, c.created_at from "+c.table+
			" c join users u on u.id = c.user_id where c."+c.parent+" = ? order by c.created_at asc",
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Comment{}
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.ParentID, &cm.UserID, &cm.UserName, &cm.Comment, &cm.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, cm)
	}

	return result, rows.Err()
}
