package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/notegraph/internal/models"
)

// ReplaceTags swaps the full tag set of a note.
func (db *DB) ReplaceTags(ctx context.Context, noteID string, tags []string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return replaceTags(ctx, tx, noteID, tags)
	})
}

// DeleteTagsByNote removes every tag of a note.
func (db *DB) DeleteTagsByNote(ctx context.Context, noteID string) error {
	conn, err := db.handle()
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM tags WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("index: delete tags: %w", err)
	}
	return nil
}

func replaceTags(ctx context.Context, q queryer, noteID string, tags []string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM tags WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("index: clear tags: %w", err)
	}
	for _, tag := range tags {
		if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO tags (note_id, tag) VALUES (?, ?)`, noteID, tag); err != nil {
			return fmt.Errorf("index: insert tag: %w", err)
		}
	}
	return nil
}

// GetAllTags returns each tag with the number of active notes carrying it,
// sorted alphabetically.
func (db *DB) GetAllTags(ctx context.Context) ([]models.TagCount, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, `
		SELECT t.tag, COUNT(*)
		FROM tags t
		JOIN notes n ON n.id = t.note_id AND n.deleted_at IS NULL
		GROUP BY t.tag
		ORDER BY t.tag
	`)
	if err != nil {
		return nil, fmt.Errorf("index: all tags: %w", err)
	}
	defer rows.Close()

	var out []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// GetTagsByNote returns the tags of one note, sorted.
func (db *DB) GetTagsByNote(ctx context.Context, noteID string) ([]models.Tag, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, `SELECT id, note_id, tag FROM tags WHERE note_id = ? ORDER BY tag`, noteID)
	if err != nil {
		return nil, fmt.Errorf("index: tags by note: %w", err)
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.NoteID, &t.Tag); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetNotesByTag returns the ids of active notes carrying exactly tag.
func (db *DB) GetNotesByTag(ctx context.Context, tag string) ([]string, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, `
		SELECT n.id
		FROM tags t
		JOIN notes n ON n.id = t.note_id AND n.deleted_at IS NULL
		WHERE t.tag = ?
		ORDER BY n.created_at, n.rowid
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("index: notes by tag: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
