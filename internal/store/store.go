package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// MemoryDSN is a shared-cache in-memory database. Nothing written to it
// outlives the process.
const MemoryDSN = "file:ws101?mode=memory&cache=shared"

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store holds the journal database and provides access to repositories.
type Store struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the journal tables.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps an
	// in-memory database alive for the life of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sqlx.DB) error {
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

var schema = []string{
	`CREATE TABLE IF NOT EXISTS answer_events (
		sequence INTEGER PRIMARY KEY,
		ts_ms INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		module_slug TEXT NOT NULL,
		card_index INTEGER NOT NULL,
		tier INTEGER NOT NULL,
		option_index INTEGER NOT NULL,
		correct BOOLEAN NOT NULL,
		term TEXT NOT NULL DEFAULT '',
		question TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_events_session ON answer_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS badge_events (
		sequence INTEGER PRIMARY KEY,
		ts_ms INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		badge_id TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_badge_events_session ON badge_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		sequence INTEGER PRIMARY KEY,
		ts_ms INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		action TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events (session_id)`,
}

func migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultJournalPath resolves the file-backed journal path in priority order:
// 1. WS101_JOURNAL environment variable
// 2. $XDG_DATA_HOME/ws101/journal.db
// 3. ~/.local/share/ws101/journal.db
func DefaultJournalPath() (string, error) {
	if p := os.Getenv("WS101_JOURNAL"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "ws101", "journal.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
