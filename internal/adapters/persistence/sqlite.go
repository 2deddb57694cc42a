package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/okian/simonev/internal/domain/model"
)

const (
	keySchools = "schools"
	keyEvents  = "events"
)

const createKV = `CREATE TABLE IF NOT EXISTS snapshot_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
)`

const upsertKV = `INSERT INTO snapshot_kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value,
	updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

// SQLiteBackend stores schools and events as two rows of a key-value table.
type SQLiteBackend struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createKV); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &SQLiteBackend{sqlDB: sqlDB}, nil
}

// DB returns the underlying sql.DB instance.
func (s *SQLiteBackend) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Load implements Backend.
func (s *SQLiteBackend) Load(ctx context.Context) (model.PartialSnapshot, error) {
	if s == nil || s.sqlDB == nil {
		return model.PartialSnapshot{}, ErrClosed
	}
	schools, err := s.get(ctx, keySchools)
	if err != nil {
		return model.PartialSnapshot{}, err
	}
	events, err := s.get(ctx, keyEvents)
	if err != nil {
		return model.PartialSnapshot{}, err
	}
	return decode(schools, events)
}

func (s *SQLiteBackend) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM snapshot_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Save implements Backend. Both rows are written in one transaction.
func (s *SQLiteBackend) Save(ctx context.Context, snap model.Snapshot) error {
	if s == nil || s.sqlDB == nil {
		return ErrClosed
	}
	snap = snap.Clone()
	schools, err := json.Marshal(snap.Schools)
	if err != nil {
		return fmt.Errorf("marshal schools: %w", err)
	}
	events, err := json.Marshal(snap.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertKV, keySchools, string(schools)); err != nil {
		return fmt.Errorf("write schools: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertKV, keyEvents, string(events)); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite database.
func (s *SQLiteBackend) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
