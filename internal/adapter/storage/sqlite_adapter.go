package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS local_storage (
	profile    TEXT NOT NULL,
	item_key   TEXT NOT NULL,
	item_value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (profile, item_key)
)`

// SQLiteAdapter keeps local storage in a single database file.
type SQLiteAdapter struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteAdapter{db: db}, nil
}

func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}

func (s *SQLiteAdapter) GetItem(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT item_value FROM local_storage
		WHERE profile = ? AND item_key = ?`, profile, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query item: %w", err)
	}

	return value, true, nil
}

func (s *SQLiteAdapter) SetItem(ctx context.Context, profile, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (profile, item_key, item_value)
		VALUES (?, ?, ?)
		ON CONFLICT(profile, item_key) DO UPDATE
		SET item_value = excluded.item_value, updated_at = CURRENT_TIMESTAMP`,
		profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}

	return nil
}

func (s *SQLiteAdapter) RemoveItem(ctx context.Context, profile, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM local_storage WHERE profile = ? AND item_key = ?`,
		profile, key,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	return nil
}
