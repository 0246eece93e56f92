package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DefaultAppID namespaces records when no explicit application
// identifier is configured.
const DefaultAppID = "redator"

// Store holds the database handle and provides access to repositories.
// It is the local stand-in for the hosted document store: records live
// under the (app, owner) namespace and carry store-assigned timestamps.
type Store struct {
	db    *sql.DB
	appID string

	hub *subscriptionHub
}

// Open creates a new Store connected to the SQLite database at dsn,
// scoped to the given application namespace. It applies recommended
// pragmas and creates the schema.
func Open(dsn, appID string) (*Store, error) {
	if appID == "" {
		appID = DefaultAppID
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, appID: appID, hub: newSubscriptionHub()}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// AppID returns the application namespace this store is scoped to.
func (s *Store) AppID() string {
	return s.appID
}

// Close tears down all live subscriptions and closes the database.
func (s *Store) Close() error {
	s.hub.closeAll()
	return s.db.Close()
}

// Corrections returns the correction record repository.
func (s *Store) Corrections() *CorrectionsRepo {
	return &CorrectionsRepo{db: s.db, appID: s.appID, hub: s.hub}
}

// EventRepo returns the LLM request event repository.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS corrections (
			app_id     TEXT NOT NULL,
			owner_id   TEXT NOT NULL,
			id         TEXT NOT NULL,
			essay_text TEXT NOT NULL,
			correction TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (app_id, owner_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_corrections_owner
			ON corrections (app_id, owner_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS llm_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     TIMESTAMP NOT NULL,
			provider      TEXT NOT NULL,
			model         TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    INTEGER NOT NULL DEFAULT 0,
			success       BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body  TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. REDATOR_DB environment variable
// 2. $XDG_DATA_HOME/redator/redator.db
// 3. ~/.local/share/redator/redator.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("REDATOR_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "redator", "redator.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
