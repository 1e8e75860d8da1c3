package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlstore"
)

// Open opens (or creates) a SQLite database at the given path with WAL journaling
// and foreign keys enabled.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a SQLite-backed store.
func NewWithDB(db *sql.DB, opts ...sqlstore.Option) *sqlstore.Store {
	return sqlstore.New(db, sqlstore.SQLite, opts...)
}

// Migrate creates tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        email TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS profiles (
        user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
        phone_number TEXT,
        phone_verified BOOLEAN NOT NULL DEFAULT 0,
        updated_at TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS calls (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        phone_number TEXT,
        status TEXT NOT NULL CHECK (status IN ('initiated','completed')),
        summary TEXT,
        transcript TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMP NOT NULL,
        completed_at TIMESTAMP
    )`,
	`CREATE INDEX IF NOT EXISTS calls_user_idx ON calls (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS memory_contexts (
        id TEXT PRIMARY KEY,
        call_id TEXT NOT NULL,
        time_period TEXT,
        location TEXT,
        people_involved TEXT NOT NULL DEFAULT '[]',
        created_at TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS memory_contexts_call_idx ON memory_contexts (call_id)`,
	`CREATE TABLE IF NOT EXISTS emotional_moments (
        id TEXT PRIMARY KEY,
        call_id TEXT NOT NULL,
        emotion TEXT NOT NULL,
        intensity REAL NOT NULL DEFAULT 0,
        context TEXT,
        created_at TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS emotional_moments_call_idx ON emotional_moments (call_id)`,
	`CREATE TABLE IF NOT EXISTS transcripts (
        call_id TEXT PRIMARY KEY,
        content TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS stories (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        title TEXT NOT NULL,
        content TEXT NOT NULL,
        category TEXT NOT NULL,
        emotion TEXT,
        themes TEXT NOT NULL DEFAULT '[]',
        chapter_metadata TEXT NOT NULL DEFAULT '{}',
        source TEXT NOT NULL,
        call_id TEXT,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS stories_user_idx ON stories (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS recordings (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        session_id TEXT NOT NULL,
        title TEXT NOT NULL,
        description TEXT,
        status TEXT NOT NULL CHECK (status IN ('created','completed')),
        transcript TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMP NOT NULL,
        completed_at TIMESTAMP
    )`,
	`CREATE INDEX IF NOT EXISTS recordings_user_idx ON recordings (user_id, created_at)`,
}
