package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/notegraph/internal/models"
)

// LogCapture records that source produced noteID.
func (db *DB) LogCapture(ctx context.Context, noteID, source string) (*models.Capture, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	now := db.now()
	res, err := conn.ExecContext(ctx, `INSERT INTO captures (note_id, source, created_at) VALUES (?, ?, ?)`, noteID, source, now)
	if err != nil {
		return nil, fmt.Errorf("index: log capture: %w", err)
	}
	id, _ := res.LastInsertId()
	return &models.Capture{ID: id, NoteID: &noteID, Source: source, CreatedAt: now}, nil
}

// ListCaptures returns the most recent captures first. limit <= 0 means 50.
func (db *DB) ListCaptures(ctx context.Context, limit int) ([]models.Capture, error) {
	if limit <= 0 {
		limit = 50
	}
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, `
		SELECT id, note_id, source, created_at
		FROM captures
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("index: list captures: %w", err)
	}
	defer rows.Close()

	var out []models.Capture
	for rows.Next() {
		var (
			c      models.Capture
			noteID sql.NullString
		)
		if err := rows.Scan(&c.ID, &noteID, &c.Source, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.NoteID = stringPtr(noteID)
		out = append(out, c)
	}
	return out, rows.Err()
}
