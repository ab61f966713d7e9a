package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no thread is recorded for a sender.
var ErrNotFound = errors.New("thread not found")

// ThreadStore maps a WhatsApp sender (wa_id) to the provider-side conversation
// thread created for them. The conversation content itself lives on the
// provider's servers; only the handle is kept here.
type ThreadStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS threads (
    wa_id     TEXT NOT NULL,
    provider  TEXT NOT NULL,
    thread_id TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (wa_id, provider)
);
`

// Open creates or opens the thread database at the given path.
func Open(path string) (*ThreadStore, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening thread database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging thread database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating thread database: %w", err)
	}
	return &ThreadStore{db: db}, nil
}

// OpenMemory creates an in-memory store, useful for testing.
func OpenMemory() (*ThreadStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory thread database: %w", err)
	}
	// Every pooled connection would get its own empty memory database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating thread database: %w", err)
	}
	return &ThreadStore{db: db}, nil
}

// Get returns the thread ID recorded for the sender, or ErrNotFound.
func (s *ThreadStore) Get(ctx context.Context, waID, provider string) (string, error) {
	var threadID string
	err := s.db.QueryRowContext(ctx,
		`SELECT thread_id FROM threads WHERE wa_id = ? AND provider = ?`,
		waID, provider).Scan(&threadID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying thread: %w", err)
	}
	return threadID, nil
}

// Put records (or replaces) the thread ID for the sender.
func (s *ThreadStore) Put(ctx context.Context, waID, provider, threadID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO threads (wa_id, provider, thread_id) VALUES (?, ?, ?)
         ON CONFLICT (wa_id, provider) DO UPDATE SET thread_id = excluded.thread_id`,
		waID, provider, threadID)
	if err != nil {
		return fmt.Errorf("storing thread: %w", err)
	}
	return nil
}

func (s *ThreadStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ThreadStore) Close() error {
	return s.db.Close()
}
