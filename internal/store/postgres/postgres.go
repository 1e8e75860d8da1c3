package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlstore"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres-backed store.
func NewWithDB(db *sql.DB, opts ...sqlstore.Option) *sqlstore.Store {
	return sqlstore.New(db, sqlstore.Postgres, opts...)
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        email TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS profiles (
        user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
        phone_number TEXT,
        phone_verified BOOLEAN NOT NULL DEFAULT FALSE,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS calls (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        phone_number TEXT,
        status TEXT NOT NULL CHECK (status IN ('initiated','completed')),
        summary JSONB,
        transcript TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL,
        completed_at TIMESTAMPTZ
    )`,
	`CREATE INDEX IF NOT EXISTS calls_user_idx ON calls (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS memory_contexts (
        id TEXT PRIMARY KEY,
        call_id TEXT NOT NULL,
        time_period TEXT,
        location TEXT,
        people_involved JSONB NOT NULL DEFAULT '[]',
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS memory_contexts_call_idx ON memory_contexts (call_id)`,
	`CREATE TABLE IF NOT EXISTS emotional_moments (
        id TEXT PRIMARY KEY,
        call_id TEXT NOT NULL,
        emotion TEXT NOT NULL,
        intensity DOUBLE PRECISION NOT NULL DEFAULT 0,
        context TEXT,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS emotional_moments_call_idx ON emotional_moments (call_id)`,
	`CREATE TABLE IF NOT EXISTS transcripts (
        call_id TEXT PRIMARY KEY,
        content TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS stories (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        title TEXT NOT NULL,
        content TEXT NOT NULL,
        category TEXT NOT NULL,
        emotion TEXT,
        themes JSONB NOT NULL DEFAULT '[]',
        chapter_metadata JSONB NOT NULL DEFAULT '{}',
        source TEXT NOT NULL,
        call_id TEXT,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
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
        created_at TIMESTAMPTZ NOT NULL,
        completed_at TIMESTAMPTZ
    )`,
	`CREATE INDEX IF NOT EXISTS recordings_user_idx ON recordings (user_id, created_at DESC)`,
}
