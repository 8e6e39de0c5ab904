package driver

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const busyTimeoutMS = 5000

// NewSQLite opens the database named by databaseURL, which may be written as
// "sqlite:path", "sqlite://path" or a bare file path.
func NewSQLite(databaseURL string) (*sql.DB, error) {
	path, err := sqlitePath(databaseURL)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("mode", "rwc")
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprint(busyTimeoutMS))
	params.Set("_journal_mode", "WAL")

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("can't open sqlite database: %w", err)
	}

	// sqlite serializes writers.
	db.SetMaxOpenConns(1)

	return db, nil
}

func sqlitePath(databaseURL string) (string, error) {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	path = strings.TrimPrefix(path, "sqlite:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	if path == "" {
		return "", errors.New("empty sqlite database path")
	}

	return path, nil
}
