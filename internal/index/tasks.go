package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/starford/notegraph/internal/models"
)

// ReplaceTasks swaps the full task list of a note. Previous task ids are gone
// afterwards.
func (db *DB) ReplaceTasks(ctx context.Context, noteID string, tasks []models.Task) error {
	now := db.now()
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return replaceTasks(ctx, tx, noteID, tasks, now)
	})
}

// DeleteTasksByNote removes every task of a note.
func (db *DB) DeleteTasksByNote(ctx context.Context, noteID string) error {
	conn, err := db.handle()
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM tasks WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("index: delete tasks: %w", err)
	}
	return nil
}

func replaceTasks(ctx context.Context, q queryer, noteID string, tasks []models.Task, now time.Time) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM tasks WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("index: clear tasks: %w", err)
	}
	for _, t := range tasks {
		if !t.Status.Valid() {
			continue
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO tasks (note_id, content, status, line_number, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, noteID, t.Content, string(t.Status), t.LineNumber, now)
		if err != nil {
			return fmt.Errorf("index: insert task: %w", err)
		}
	}
	return nil
}

// GetTasksByNote returns a note's tasks in line order.
func (db *DB) GetTasksByNote(ctx context.Context, noteID string) ([]models.Task, error) {
	return db.queryTasks(ctx, `
		SELECT t.id, t.note_id, t.content, t.status, t.line_number, t.created_at, n.title
		FROM tasks t
		JOIN notes n ON n.id = t.note_id
		WHERE t.note_id = ?
		ORDER BY t.line_number
	`, noteID)
}

// GetAllTasks returns the tasks of all active notes, newest first.
func (db *DB) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return db.queryTasks(ctx, `
		SELECT t.id, t.note_id, t.content, t.status, t.line_number, t.created_at, n.title
		FROM tasks t
		JOIN notes n ON n.id = t.note_id AND n.deleted_at IS NULL
		ORDER BY t.created_at DESC, t.line_number
	`)
}

// GetTasksByStatus returns the tasks of active notes in the given status,
// newest first.
func (db *DB) GetTasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	return db.queryTasks(ctx, `
		SELECT t.id, t.note_id, t.content, t.status, t.line_number, t.created_at, n.title
		FROM tasks t
		JOIN notes n ON n.id = t.note_id AND n.deleted_at IS NULL
		WHERE t.status = ?
		ORDER BY t.created_at DESC, t.line_number
	`, string(status))
}

func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: query tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var (
			t      models.Task
			status string
		)
		if err := rows.Scan(&t.ID, &t.NoteID, &t.Content, &status, &t.LineNumber, &t.CreatedAt, &t.NoteTitle); err != nil {
			return nil, err
		}
		t.Status = models.TaskStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}
