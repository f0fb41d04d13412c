// Package store provides SQLite-backed persistence for capture sessions:
// conversation turns, completed review results, and per-session prompt
// overrides. Each session is an independent thread keyed by a caller-chosen
// session ID. Data survives server restarts; the review and capture cores
// never touch this package directly — callers load state and pass it in.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/megalab/halo/internal/conversation"
	"github.com/megalab/halo/internal/review"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store persists session state in a local SQLite database.
// It is safe for concurrent use.
type Store struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the session database.
// It resolves to ~/.halo/sessions.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".halo")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "sessions.db"), nil
}

// Open opens (or creates) a Store at the given path and runs the schema
// migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*Store, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *Store) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS turns (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session    TEXT    NOT NULL,
    role       TEXT    NOT NULL CHECK(role IN ('user','assistant')),
    content    TEXT    NOT NULL,
    ts         TEXT    NOT NULL,  -- caller-supplied ISO-8601 label, stored opaquely
    emotions   TEXT,              -- JSON object of label -> intensity, NULL when absent
    created_at INTEGER NOT NULL   -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_turns_session_id ON turns (session, id);

CREATE TABLE IF NOT EXISTS reviews (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session    TEXT    NOT NULL,
    result     TEXT    NOT NULL,  -- serialized review.Result
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_session_id ON reviews (session, id);

CREATE TABLE IF NOT EXISTS prompt_overrides (
    session    TEXT NOT NULL,
    method     TEXT NOT NULL,
    prompt     TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (session, method)
);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// AppendTurn persists a single conversation turn for the given session.
func (s *Store) AppendTurn(ctx context.Context, session string, t conversation.Turn) error {
	var emotions any
	if len(t.Emotions) > 0 {
		data, err := json.Marshal(t.Emotions)
		if err != nil {
			return fmt.Errorf("store: marshal emotions: %w", err)
		}
		emotions = string(data)
	}

	const q = `INSERT INTO turns (session, role, content, ts, emotions, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, session, string(t.Role), t.Content, t.Timestamp, emotions, time.Now().Unix()); err != nil {
		return fmt.Errorf("store: append turn: %w", err)
	}
	return nil
}

// Turns returns the full conversation for the session in insertion order.
// A session with no turns returns an empty slice, not an error.
func (s *Store) Turns(ctx context.Context, session string) ([]conversation.Turn, error) {
	const q = `SELECT role, content, ts, emotions FROM turns WHERE session = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, session)
	if err != nil {
		return nil, fmt.Errorf("store: query turns: %w", err)
	}
	defer rows.Close()

	var turns []conversation.Turn
	for rows.Next() {
		var (
			role, content, ts string
			emotions          sql.NullString
		)
		if err := rows.Scan(&role, &content, &ts, &emotions); err != nil {
			return nil, fmt.Errorf("store: scan turn: %w", err)
		}
		t := conversation.Turn{Role: conversation.Role(role), Content: content, Timestamp: ts}
		if emotions.Valid && emotions.String != "" {
			if err := json.Unmarshal([]byte(emotions.String), &t.Emotions); err != nil {
				return nil, fmt.Errorf("store: unmarshal emotions: %w", err)
			}
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate turns: %w", err)
	}
	return turns, nil
}

// SaveReview persists a completed review result for the session.
func (s *Store) SaveReview(ctx context.Context, session string, res *review.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("store: marshal review: %w", err)
	}
	const q = `INSERT INTO reviews (session, result, created_at) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, session, string(data), time.Now().Unix()); err != nil {
		return fmt.Errorf("store: save review: %w", err)
	}
	return nil
}

// LatestReview returns the most recently saved review for the session, or
// ErrNotFound when none exists.
func (s *Store) LatestReview(ctx context.Context, session string) (*review.Result, error) {
	const q = `SELECT result FROM reviews WHERE session = ? ORDER BY id DESC LIMIT 1`
	var data string
	err := s.db.QueryRowContext(ctx, q, session).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: query latest review: %w", err)
	}

	var res review.Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, fmt.Errorf("store: unmarshal review: %w", err)
	}
	return &res, nil
}

// SetPromptOverride stores or replaces the session's override prompt for a
// capture method.
func (s *Store) SetPromptOverride(ctx context.Context, session, method, prompt string) error {
	const q = `INSERT INTO prompt_overrides (session, method, prompt, updated_at) VALUES (?, ?, ?, ?)
	           ON CONFLICT(session, method) DO UPDATE SET prompt = excluded.prompt, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, q, session, method, prompt, time.Now().Unix()); err != nil {
		return fmt.Errorf("store: set prompt override: %w", err)
	}
	return nil
}

// DeletePromptOverride removes the session's override for a capture method.
// Deleting a non-existent override is not an error.
func (s *Store) DeletePromptOverride(ctx context.Context, session, method string) error {
	const q = `DELETE FROM prompt_overrides WHERE session = ? AND method = ?`
	if _, err := s.db.ExecContext(ctx, q, session, method); err != nil {
		return fmt.Errorf("store: delete prompt override: %w", err)
	}
	return nil
}

// PromptOverrides returns the session's override table, keyed by method.
// A session with no overrides returns an empty map.
func (s *Store) PromptOverrides(ctx context.Context, session string) (map[string]string, error) {
	const q = `SELECT method, prompt FROM prompt_overrides WHERE session = ?`
	rows, err := s.db.QueryContext(ctx, q, session)
	if err != nil {
		return nil, fmt.Errorf("store: query prompt overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]string)
	for rows.Next() {
		var method, prompt string
		if err := rows.Scan(&method, &prompt); err != nil {
			return nil, fmt.Errorf("store: scan prompt override: %w", err)
		}
		overrides[method] = prompt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate prompt overrides: %w", err)
	}
	return overrides, nil
}

// Ping verifies the database connection, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

// Close releases the underlying database connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
