package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS local_storage (
	profile    VARCHAR(64)  NOT NULL,
	item_key   VARCHAR(128) NOT NULL,
	item_value MEDIUMTEXT   NOT NULL,
	updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (profile, item_key)
)`

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the local_storage table if it does not exist.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, mysqlSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetItem(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `
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

func (m *MySQLAdapter) SetItem(ctx context.Context, profile, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO local_storage (profile, item_key, item_value)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE item_value = VALUES(item_value), updated_at = NOW()`,
		profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}

	return nil
}

func (m *MySQLAdapter) RemoveItem(ctx context.Context, profile, key string) error {
	_, err := m.db.ExecContext(ctx, `
		DELETE FROM local_storage WHERE profile = ? AND item_key = ?`,
		profile, key,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	return nil
}
