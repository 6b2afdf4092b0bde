package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const gameSchema = `
CREATE TABLE IF NOT EXISTS games (
	id             TEXT PRIMARY KEY,
	board          TEXT NOT NULL,
	current_player TEXT NOT NULL,
	status         TEXT NOT NULL,
	winner         TEXT NOT NULL DEFAULT '',
	moves          INTEGER NOT NULL DEFAULT 0,
	updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// NewSQLite opens the SQLite database at path (":memory:" for a private
// in-memory database) and makes sure the schema exists.
func NewSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection serializes writers and keeps an in-memory database alive.
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}
	if _, err := pool.ExecContext(ctx, gameSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create games table: %w", err)
	}

	slog.InfoContext(ctx, "SQLite connection initialized and schema verified", "db.path", path)
	return pool, nil
}
