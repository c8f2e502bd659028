package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLiteStorage keeps cart snapshots in the local SQLite database, one
// row per namespace. This is the durable slot a fresh process start
// rehydrates from; no network is involved.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) Load(ctx context.Context, namespace string) (*Snapshot, error) {
	query := `SELECT data FROM cart_snapshots WHERE namespace = $1`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, namespace).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, namespace string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO cart_snapshots (namespace, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT(namespace) DO UPDATE SET data = $2, updated_at = $3
	`

	if _, err := s.db.ExecContext(ctx, query, namespace, data, snap.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, namespace string) error {
	query := `DELETE FROM cart_snapshots WHERE namespace = $1`

	if _, err := s.db.ExecContext(ctx, query, namespace); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
