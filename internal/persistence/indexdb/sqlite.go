// Package indexdb keeps a small SQLite index over written save files
// so the latest save can be found without scanning the data directory.
package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	db *sql.DB
}

type SaveRow struct {
	ID        int64
	CreatedAt string
	Day       int
	Season    string
	Money     int
	Level     int
	Path      string
	Digest    string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS saves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	day INTEGER NOT NULL,
	season TEXT NOT NULL,
	money INTEGER NOT NULL,
	level INTEGER NOT NULL,
	path TEXT NOT NULL,
	digest TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saves_day ON saves(day);
`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteIndex{db: db}, nil
}

func (s *SQLiteIndex) Close() error { return s.db.Close() }

func (s *SQLiteIndex) RecordSave(ctx context.Context, row SaveRow) error {
	createdAt := row.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (created_at, day, season, money, level, path, digest) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt, row.Day, row.Season, row.Money, row.Level, row.Path, row.Digest)
	return err
}

// LatestSave returns the most recently recorded save, or ok=false when
// the index is empty.
func (s *SQLiteIndex) LatestSave(ctx context.Context) (SaveRow, bool, error) {
	var row SaveRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, day, season, money, level, path, digest FROM saves ORDER BY id DESC LIMIT 1`).
		Scan(&row.ID, &row.CreatedAt, &row.Day, &row.Season, &row.Money, &row.Level, &row.Path, &row.Digest)
	if err == sql.ErrNoRows {
		return row, false, nil
	}
	if err != nil {
		return row, false, err
	}
	return row, true, nil
}

// Saves lists recorded saves, newest first.
func (s *SQLiteIndex) Saves(ctx context.Context, limit int) ([]SaveRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, day, season, money, level, path, digest FROM saves ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveRow
	for rows.Next() {
		var row SaveRow
		if err := rows.Scan(&row.ID, &row.CreatedAt, &row.Day, &row.Season, &row.Money, &row.Level, &row.Path, &row.Digest); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
