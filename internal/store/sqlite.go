package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records in a local SQLite file. This is the
// "local-device" half of the dual persistence model; it needs no external
// services.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and ensures the records
// table exists.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		blob TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	slog.Info("database connected", "driver", "sqlite", "path", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM records WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record %q: %w", key, err)
	}
	return blob, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, blob []byte) error {
	query := `INSERT INTO records (key, blob, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, blob, time.Now()); err != nil {
		return fmt.Errorf("failed to write record %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove record %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, blob FROM records ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Blob); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
