// Package index persists notes and their derived facts (links, tags, tasks)
// in SQLite.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/notegraph/internal/apperr"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	slug       TEXT NOT NULL UNIQUE,
	content    TEXT,
	type       TEXT NOT NULL DEFAULT 'note'
		CHECK (type IN ('note', 'project', 'person', 'meeting', 'daily')),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	deleted_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);
CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);
CREATE INDEX IF NOT EXISTS idx_notes_title_lower ON notes(lower(title));
CREATE INDEX IF NOT EXISTS idx_notes_content_lower ON notes(lower(content));

CREATE TABLE IF NOT EXISTS links (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	from_note_id   TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	to_note_id     TEXT REFERENCES notes(id) ON DELETE SET NULL,
	to_note_title  TEXT NOT NULL,
	alias          TEXT,
	position_start INTEGER NOT NULL,
	position_end   INTEGER NOT NULL,
	is_broken      INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL,
	UNIQUE (from_note_id, to_note_title, position_start, position_end)
);

CREATE INDEX IF NOT EXISTS idx_links_from ON links(from_note_id);
CREATE INDEX IF NOT EXISTS idx_links_to ON links(to_note_id);
CREATE INDEX IF NOT EXISTS idx_links_to_title ON links(to_note_title);

CREATE TABLE IF NOT EXISTS tags (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	tag     TEXT NOT NULL,
	UNIQUE (note_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_tags_tag ON tags(tag);

CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	note_id     TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	content     TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'done', 'deferred', 'cancelled')),
	line_number INTEGER NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_note ON tasks(note_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

CREATE TABLE IF NOT EXISTS captures (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	note_id    TEXT REFERENCES notes(id) ON DELETE SET NULL,
	source     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// DB wraps a sql.DB with note graph operations. A nil or closed DB reports
// apperr.ErrNotInitialized from every method.
type DB struct {
	conn         *sql.DB
	closed       atomic.Bool
	now          func() time.Time
	slugAttempts int
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	return &DB{
		conn:         conn,
		now:          func() time.Time { return time.Now().UTC() },
		slugAttempts: MaxSlugAttempts,
	}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	if db == nil || db.closed.Swap(true) {
		return nil
	}
	return db.conn.Close()
}

func (db *DB) handle() (*sql.DB, error) {
	if db == nil || db.conn == nil || db.closed.Load() {
		return nil, apperr.ErrNotInitialized
	}
	return db.conn, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := db.handle()
	if err != nil {
		return err
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index: commit: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given "table.column".
func isUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return column == "" || strings.Contains(sqliteErr.Error(), column)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
