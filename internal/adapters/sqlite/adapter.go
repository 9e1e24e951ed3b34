// Package sqlite provides a SQLite-backed implementation of the history repository port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
)

// Adapter implements the history repository for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.HistoryRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Save stores one history entry. Saving the same ID twice keeps the first row.
func (a *Adapter) Save(ctx context.Context, e domain.HistoryEntry) error {
	if e.ID == "" {
		return errors.New("sqlite: history entry has no id")
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO history (id, text, emotion, confidence, source, song_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		e.ID,
		e.Text,
		e.Emotion,
		e.Confidence,
		string(e.Source),
		e.SongCount,
		createdAt.UTC().UnixNano(),
	); err != nil {
		return fmt.Errorf("sqlite: save history %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (a *Adapter) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return []domain.HistoryEntry{}, nil
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, text, emotion, confidence, IFNULL(source, ''), IFNULL(song_count, 0), created_at
		FROM history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e       domain.HistoryEntry
			source  string
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Text, &e.Emotion, &e.Confidence, &source, &e.SongCount, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan history: %w", err)
		}
		e.Source = domain.Source(source)
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate history: %w", err)
	}

	return entries, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		emotion TEXT NOT NULL,
		confidence REAL NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_created_at ON history (created_at);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	// Columns added after the first release.
	for _, stmt := range []string{
		"ALTER TABLE history ADD COLUMN source TEXT",
		"ALTER TABLE history ADD COLUMN song_count INTEGER",
	} {
		if _, err := a.db.Exec(stmt); err != nil && !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
