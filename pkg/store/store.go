package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// ErrStale is returned by Replace when the caller's content hash no longer
// matches the stored one
var ErrStale = errors.New("pipeline selection was modified by someone else")

// Store persists each user's views in a sqlite database
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite registers as "sqlite"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// one writer keeps the compare-and-swap in Replace serialized
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pipeline_selections (
			username TEXT PRIMARY KEY,
			filters_json TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the user's views. Users without a stored row get the single
// Default view.
func (s *Store) Load(ctx context.Context, user string) (models.Personalization, error) {
	return load(ctx, s.db, user)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func load(ctx context.Context, q querier, user string) (models.Personalization, error) {
	var filtersJSON, hash string
	err := q.QueryRowContext(ctx,
		`SELECT filters_json, content_hash FROM pipeline_selections WHERE username = ?`, user,
	).Scan(&filtersJSON, &hash)

	if errors.Is(err, sql.ErrNoRows) {
		views := []models.View{models.DefaultView()}
		return models.Personalization{Filters: views, ContentHash: ContentHash(views)}, nil
	}
	if err != nil {
		return models.Personalization{}, fmt.Errorf("failed to load pipeline selection for %s: %w", user, err)
	}

	var views []models.View
	if err := json.Unmarshal([]byte(filtersJSON), &views); err != nil {
		return models.Personalization{}, fmt.Errorf("corrupt pipeline selection for %s: %w", user, err)
	}
	return models.Personalization{Filters: views, ContentHash: hash}, nil
}

// Replace stores views for user if ifMatch equals the current content hash,
// returning the new hash. A mismatch yields ErrStale and changes nothing.
func (s *Store) Replace(ctx context.Context, user string, views []models.View, ifMatch string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := load(ctx, tx, user)
	if err != nil {
		return "", err
	}
	if current.ContentHash != ifMatch {
		return "", ErrStale
	}

	raw, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("failed to encode views: %w", err)
	}
	hash := ContentHash(views)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pipeline_selections (username, filters_json, content_hash, updated_at_unixms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			filters_json = excluded.filters_json,
			content_hash = excluded.content_hash,
			updated_at_unixms = excluded.updated_at_unixms`,
		user, string(raw), hash, s.now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store pipeline selection for %s: %w", user, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit pipeline selection: %w", err)
	}
	return hash, nil
}

// Users lists everyone with a stored selection
func (s *Store) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username FROM pipeline_selections ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ContentHash fingerprints a view list
func ContentHash(views []models.View) string {
	raw, _ := json.Marshal(views)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
