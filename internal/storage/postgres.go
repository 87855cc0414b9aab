package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore keeps records in the `records` table created by the db
// package migrations. Values are stored as jsonb.
type PostgresStore struct {
	db *sql.DB
}

const (
	getRecordQuery    = `SELECT value FROM records WHERE key = $1`
	putRecordQuery    = `INSERT INTO records (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteRecordQuery = `DELETE FROM records WHERE key = $1`
	getRecordsQuery   = `SELECT key, value FROM records WHERE key = ANY($1)`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	var v []byte
	err := s.db.QueryRowContext(ctx, getRecordQuery, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get record %q: %w", key, err)
	}
	return v, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, putRecordQuery, key, string(value)); err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, deleteRecordQuery, key); err != nil {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx, getRecordsQuery, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Close is a no-op; the *sql.DB is owned by the caller.
func (s *PostgresStore) Close() error { return nil }
