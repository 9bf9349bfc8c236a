package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"hellosleep/internal/model"
)

const patternSchema = `
CREATE TABLE IF NOT EXISTS patterns (
	hash       TEXT PRIMARY KEY,
	entry      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

// SQLiteStore keeps one row per pattern, the entry as a JSON document.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, patternSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create patterns table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Load(ctx context.Context) (map[string]model.PatternEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hash, entry FROM patterns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.PatternEntry)
	for rows.Next() {
		var hash, data string
		if err := rows.Scan(&hash, &data); err != nil {
			return nil, err
		}
		var entry model.PatternEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("decode pattern %s: %w", hash, err)
		}
		out[hash] = entry
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Put(ctx context.Context, entry model.PatternEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO patterns (hash, entry, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET entry = excluded.entry, updated_at = excluded.updated_at`,
		entry.Hash, string(data), entry.UpdatedAt)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, hashes []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM patterns WHERE hash = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range hashes {
		if _, err := stmt.ExecContext(ctx, h); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
