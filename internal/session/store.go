// Package session owns the client's authenticated identity: the persisted
// bearer token, the cached current user, and the bootstrap sequence that
// reconciles them with the ledger service at startup.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/splittab/splittab/internal/models"
)

// schema holds the single-row session table. Token and cached user are
// written and invalidated together; a half-cleared row never persists.
const schema = `
CREATE TABLE IF NOT EXISTS session (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    token TEXT NOT NULL,
    user_json TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// Store persists the session token and cached user between runs.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the session database at dbPath, creating
// parent directories and running migrations automatically.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists the token together with the cached user, replacing any
// previous session.
func (s *Store) Save(ctx context.Context, token string, user *models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode cached user: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (id, token, user_json, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token = excluded.token,
			user_json = excluded.user_json,
			updated_at = excluded.updated_at
	`, token, string(userJSON), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the persisted token and cached user. A missing row yields an
// empty token and nil user, not an error.
func (s *Store) Load(ctx context.Context) (string, *models.User, error) {
	var token, userJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT token, user_json FROM session WHERE id = 1",
	).Scan(&token, &userJSON)
	if err == sql.ErrNoRows {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load session: %w", err)
	}

	var user *models.User
	if userJSON != "" && userJSON != "null" {
		user = &models.User{}
		if err := json.Unmarshal([]byte(userJSON), user); err != nil {
			// A corrupt cache is treated as no cache; the token may still
			// hydrate a fresh user.
			user = nil
		}
	}
	return token, user, nil
}

// Clear removes the persisted session entirely.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
