package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// schemaVersion is the latest schema version. Bump it when adding
// migrations.
const schemaVersion = 2

// Store owns the SQLite connection and hands out repositories.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the SQLite database at path and runs migrations.
// Pragmas are passed in the DSN so they apply to every pooled connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsnWithPragmas(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, now: s.now}
}

func dsnWithPragmas(path string) string {
	pragmas := "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmas
}

// migrate applies schema migrations based on PRAGMA user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS llm_request_events (
		  id            INTEGER PRIMARY KEY AUTOINCREMENT,
		  timestamp     INTEGER NOT NULL,
		  provider      TEXT NOT NULL,
		  model         TEXT NOT NULL,
		  purpose       TEXT NOT NULL,
		  input_tokens  INTEGER NOT NULL DEFAULT 0,
		  output_tokens INTEGER NOT NULL DEFAULT 0,
		  latency_ms    INTEGER NOT NULL DEFAULT 0,
		  success       INTEGER NOT NULL,
		  error_message TEXT NOT NULL DEFAULT '',
		  request_body  TEXT NOT NULL DEFAULT '',
		  response_body TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_llm_request_events_timestamp
		ON llm_request_events(timestamp DESC);

		CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose
		ON llm_request_events(purpose);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("apply schema v1: %w", err)
		}
	}

	if version < 2 {
		// Correlates LLM calls with the HTTP request that caused them.
		migration := `
		ALTER TABLE llm_request_events ADD COLUMN request_id TEXT NOT NULL DEFAULT '';

		CREATE INDEX IF NOT EXISTS idx_llm_request_events_request_id
		ON llm_request_events(request_id);
		`
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("apply schema v2: %w", err)
		}
	}

	if version < schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SKILLSTRACKER_DB environment variable
// 2. $XDG_DATA_HOME/skillstracker/skillstracker.db
// 3. ~/.local/share/skillstracker/skillstracker.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SKILLSTRACKER_DB"); p != "" {
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

	p := filepath.Join(dataHome, "skillstracker", "skillstracker.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
