package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/notegraph/internal/apperr"
	"github.com/starford/notegraph/internal/models"
	"github.com/starford/notegraph/internal/slug"
)

// MaxSlugAttempts bounds the slug collision loop.
const MaxSlugAttempts = 1000

// NoteInput carries the writable fields of a note. An empty Type on update
// keeps the stored type.
type NoteInput struct {
	Title   string
	Slug    string
	Content *string
	Type    models.NoteType
}

// Derived is the content-derived state replaced alongside a note write.
type Derived struct {
	Tags  []string
	Tasks []models.Task
}

const noteColumns = `id, title, slug, content, type, created_at, updated_at, deleted_at`

// CreateNote inserts a new note under a fresh id together with its tags and
// tasks. On a slug collision it retries with "-2", "-3", ... appended.
func (db *DB) CreateNote(ctx context.Context, in NoteInput, d Derived) (*models.Note, error) {
	id := uuid.NewString()
	now := db.now()
	noteType := in.Type
	if noteType == "" {
		noteType = models.NoteTypeNote
	}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		err := retrySlug(in.Slug, db.slugAttempts, func(candidate string) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO notes (id, title, slug, content, type, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, id, in.Title, candidate, nullString(in.Content), string(noteType), now, now)
			return err
		})
		if err != nil {
			return err
		}
		return replaceDerived(ctx, tx, id, d, now)
	})
	if err != nil {
		return nil, err
	}
	return db.GetNote(ctx, id)
}

// UpdateNote rewrites an active note and replaces its tags and tasks.
func (db *DB) UpdateNote(ctx context.Context, id string, in NoteInput, d Derived) (*models.Note, error) {
	now := db.now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireActive(ctx, tx, id); err != nil {
			return err
		}
		err := retrySlug(in.Slug, db.slugAttempts, func(candidate string) error {
			_, err := tx.ExecContext(ctx, `
				UPDATE notes
				SET title = ?, slug = ?, content = ?,
				    type = COALESCE(NULLIF(?, ''), type),
				    updated_at = ?
				WHERE id = ?
			`, in.Title, candidate, nullString(in.Content), string(in.Type), now, id)
			return err
		})
		if err != nil {
			return err
		}
		return replaceDerived(ctx, tx, id, d, now)
	})
	if err != nil {
		return nil, err
	}
	return db.GetNote(ctx, id)
}

// retrySlug calls write with base, base-2, base-3, ... until it stops
// failing on the notes.slug unique constraint.
func retrySlug(base string, attempts int, write func(candidate string) error) error {
	for n := 1; n <= attempts; n++ {
		err := write(slug.WithSuffix(base, n))
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err, "notes.slug") {
			return fmt.Errorf("index: write note: %w", err)
		}
	}
	return fmt.Errorf("index: slug %q: %w", base, apperr.ErrSlugExhausted)
}

func replaceDerived(ctx context.Context, q queryer, noteID string, d Derived, now time.Time) error {
	if err := replaceTags(ctx, q, noteID, d.Tags); err != nil {
		return err
	}
	return replaceTasks(ctx, q, noteID, d.Tasks, now)
}

func requireActive(ctx context.Context, q queryer, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM notes WHERE id = ? AND deleted_at IS NULL`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("index: note %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("index: lookup note: %w", err)
	}
	return nil
}

// SoftDeleteNote marks an active note deleted and removes the links, tags
// and tasks it owns. Links pointing at the note are left alone.
func (db *DB) SoftDeleteNote(ctx context.Context, id string) error {
	now := db.now()
	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE notes SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, now, id)
		if err != nil {
			return fmt.Errorf("index: soft delete note: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("index: note %s: %w", id, apperr.ErrNotFound)
		}
		for _, stmt := range []string{
			`DELETE FROM links WHERE from_note_id = ?`,
			`DELETE FROM tags WHERE note_id = ?`,
			`DELETE FROM tasks WHERE note_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("index: cascade delete: %w", err)
			}
		}
		return nil
	})
}

// UpdateNoteType sets the type of an existing note.
func (db *DB) UpdateNoteType(ctx context.Context, id string, t models.NoteType) error {
	if !t.Valid() {
		return fmt.Errorf("index: type %q: %w", t, apperr.ErrInvalidType)
	}
	conn, err := db.handle()
	if err != nil {
		return err
	}
	res, err := conn.ExecContext(ctx, `UPDATE notes SET type = ?, updated_at = ? WHERE id = ?`, string(t), db.now(), id)
	if err != nil {
		return fmt.Errorf("index: update note type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("index: note %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// GetNote returns the note with id, including soft-deleted ones.
func (db *DB) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return db.getNoteWhere(ctx, `id = ?`, id)
}

// GetNoteByTitle returns the oldest active note with exactly this title.
func (db *DB) GetNoteByTitle(ctx context.Context, title string) (*models.Note, error) {
	return db.getNoteWhere(ctx, `title = ? AND deleted_at IS NULL`, title)
}

// GetNoteBySlug returns the active note with this slug.
func (db *DB) GetNoteBySlug(ctx context.Context, s string) (*models.Note, error) {
	return db.getNoteWhere(ctx, `slug = ? AND deleted_at IS NULL`, s)
}

func (db *DB) getNoteWhere(ctx context.Context, where string, args ...any) (*models.Note, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	row := conn.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE `+where+` ORDER BY created_at, rowid LIMIT 1`, args...)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	return n, nil
}

// ListNotes returns active notes ordered by creation time, oldest first.
func (db *DB) ListNotes(ctx context.Context) ([]models.Note, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE deleted_at IS NULL
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("index: scan note: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(s rowScanner) (*models.Note, error) {
	var (
		n         models.Note
		content   sql.NullString
		noteType  string
		deletedAt sql.NullTime
	)
	if err := s.Scan(&n.ID, &n.Title, &n.Slug, &content, &noteType, &n.CreatedAt, &n.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	n.Content = stringPtr(content)
	n.Type = models.NoteType(noteType)
	if deletedAt.Valid {
		t := deletedAt.Time
		n.DeletedAt = &t
	}
	return &n, nil
}
