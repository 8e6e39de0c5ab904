package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

const Dialect = "sqlite3"

//go:embed sql/*.sql
var embedMigrations embed.FS

var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(Dialect); err != nil {
		return fmt.Errorf("can't set migration dialect: %w", err)
	}

	if err := gooseUp(ctx, db, "sql"); err != nil {
		return fmt.Errorf("can't apply migrations: %w", err)
	}

	return nil
}
