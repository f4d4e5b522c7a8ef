package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/starford/notegraph/internal/models"
)

const linkColumns = `l.id, l.from_note_id, l.to_note_id, l.to_note_title, l.alias, l.position_start, l.position_end, l.is_broken, l.created_at`

// GraphNode is an active note in the link graph.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// GraphLink is a resolved, unbroken edge between two active notes.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// CreateLink stores a link. A second link with the same
// (from, to title, start, end) is silently ignored.
func (db *DB) CreateLink(ctx context.Context, l models.NoteLink) error {
	conn, err := db.handle()
	if err != nil {
		return err
	}
	return insertLink(ctx, conn, l, db.now())
}

func insertLink(ctx context.Context, q queryer, l models.NoteLink, now time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT OR IGNORE INTO links
			(from_note_id, to_note_id, to_note_title, alias, position_start, position_end, is_broken, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, l.FromNoteID, nullString(l.ToNoteID), l.ToNoteTitle, nullString(l.Alias), l.PositionStart, l.PositionEnd, l.IsBroken, now)
	if err != nil {
		return fmt.Errorf("index: insert link: %w", err)
	}
	return nil
}

// ReplaceLinks deletes every link owned by noteID and inserts links in one
// transaction.
func (db *DB) ReplaceLinks(ctx context.Context, noteID string, links []models.NoteLink) error {
	now := db.now()
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE from_note_id = ?`, noteID); err != nil {
			return fmt.Errorf("index: clear links: %w", err)
		}
		for _, l := range links {
			l.FromNoteID = noteID
			if err := insertLink(ctx, tx, l, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteLinksByNote removes every link owned by noteID.
func (db *DB) DeleteLinksByNote(ctx context.Context, noteID string) error {
	conn, err := db.handle()
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM links WHERE from_note_id = ?`, noteID); err != nil {
		return fmt.Errorf("index: delete links: %w", err)
	}
	return nil
}

// GetOutgoingLinks returns the links owned by noteID in content order.
func (db *DB) GetOutgoingLinks(ctx context.Context, noteID string) ([]models.NoteLink, error) {
	return db.queryLinks(ctx, `
		SELECT `+linkColumns+`
		FROM links l
		WHERE l.from_note_id = ?
		ORDER BY l.position_start, l.id
	`, noteID)
}

// GetBacklinks returns links pointing at the note either by id or by its
// current title. Links created before the target existed only match by
// title; links to a renamed target still match by id.
func (db *DB) GetBacklinks(ctx context.Context, noteID string) ([]models.NoteLink, error) {
	n, err := db.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return db.queryLinks(ctx, `
		SELECT `+linkColumns+`
		FROM links l
		JOIN notes src ON src.id = l.from_note_id AND src.deleted_at IS NULL
		WHERE l.to_note_id = ? OR l.to_note_title = ?
		ORDER BY l.created_at, l.id
	`, n.ID, n.Title)
}

// MarkLinksBroken flags every link whose target title is title.
func (db *DB) MarkLinksBroken(ctx context.Context, title string) (int64, error) {
	conn, err := db.handle()
	if err != nil {
		return 0, err
	}
	res, err := conn.ExecContext(ctx, `UPDATE links SET is_broken = 1 WHERE to_note_title = ?`, title)
	if err != nil {
		return 0, fmt.Errorf("index: mark links broken: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// RenameFunc rewrites note content for a title change and reports whether
// anything changed.
type RenameFunc func(content string) (string, bool)

// Rename describes a title change and its cascade. NoteID is the note being
// retitled; it may be empty when only links and referencing content should
// follow the title. Derive, when set, recomputes tags and tasks for every
// note whose content the rewrite changed.
type Rename struct {
	NoteID   string
	OldTitle string
	NewTitle string
	NewSlug  string
	Rewrite  RenameFunc
	Derive   func(content string) Derived
}

// RenameLinks retargets link rows from oldTitle to newTitle and rewrites the
// content of every active note that contains a literal wikilink to
// oldTitle. Both steps commit together or not at all. It returns the ids of
// the notes whose content changed.
func (db *DB) RenameLinks(ctx context.Context, oldTitle, newTitle string, rewrite RenameFunc) ([]string, error) {
	return db.Rename(ctx, Rename{OldTitle: oldTitle, NewTitle: newTitle, Rewrite: rewrite})
}

// Rename applies r in one transaction: link rows and referencing content
// follow the new title, then the note itself gets its new title and slug.
// If any step fails, including the slug retry, nothing is kept. It returns
// the ids of the notes whose content changed.
func (db *DB) Rename(ctx context.Context, r Rename) ([]string, error) {
	now := db.now()
	var changed []string
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		changed = nil
		if r.NoteID != "" {
			if err := requireActive(ctx, tx, r.NoteID); err != nil {
				return err
			}
		}
		if r.OldTitle != r.NewTitle {
			ids, err := cascadeTitle(ctx, tx, r, now)
			if err != nil {
				return err
			}
			changed = ids
		}
		if r.NoteID == "" {
			return nil
		}
		return retrySlug(r.NewSlug, db.slugAttempts, func(candidate string) error {
			_, err := tx.ExecContext(ctx, `
				UPDATE notes SET title = ?, slug = ?, updated_at = ? WHERE id = ?
			`, r.NewTitle, candidate, now, r.NoteID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

func cascadeTitle(ctx context.Context, tx *sql.Tx, r Rename, now time.Time) ([]string, error) {
	if _, err := tx.ExecContext(ctx, `UPDATE links SET to_note_title = ? WHERE to_note_title = ?`, r.NewTitle, r.OldTitle); err != nil {
		return nil, fmt.Errorf("index: rename links: %w", err)
	}

	type candidate struct {
		id      string
		content string
	}
	rows, err := tx.QueryContext(ctx, `
		SELECT id, content
		FROM notes
		WHERE deleted_at IS NULL
		  AND (instr(content, ?) > 0 OR instr(content, ?) > 0)
		ORDER BY created_at, rowid
	`, "[["+r.OldTitle+"]]", "[["+r.OldTitle+"|")
	if err != nil {
		return nil, fmt.Errorf("index: find referencing notes: %w", err)
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.content); err != nil {
			rows.Close()
			return nil, err
		}
		candidates = append(candidates, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var changed []string
	for _, c := range candidates {
		updated, ok := r.Rewrite(c.content)
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE notes SET content = ?, updated_at = ? WHERE id = ?`, updated, now, c.id); err != nil {
			return nil, fmt.Errorf("index: rewrite note %s: %w", c.id, err)
		}
		if r.Derive != nil {
			if err := replaceDerived(ctx, tx, c.id, r.Derive(updated), now); err != nil {
				return nil, err
			}
		}
		changed = append(changed, c.id)
	}
	return changed, nil
}

// Graph returns every active note and every resolved, unbroken link between
// active notes.
func (db *DB) Graph(ctx context.Context) ([]GraphNode, []GraphLink, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, nil, err
	}

	nodeRows, err := conn.QueryContext(ctx, `SELECT id, title FROM notes WHERE deleted_at IS NULL ORDER BY created_at, rowid`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph nodes: %w", err)
	}
	defer nodeRows.Close()
	nodes := []GraphNode{}
	for nodeRows.Next() {
		var n GraphNode
		if err := nodeRows.Scan(&n.ID, &n.Title); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, nil, err
	}

	linkRows, err := conn.QueryContext(ctx, `
		SELECT DISTINCT l.from_note_id, l.to_note_id
		FROM links l
		JOIN notes src ON src.id = l.from_note_id AND src.deleted_at IS NULL
		JOIN notes dst ON dst.id = l.to_note_id AND dst.deleted_at IS NULL
		WHERE l.is_broken = 0
		ORDER BY l.from_note_id, l.to_note_id
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph links: %w", err)
	}
	defer linkRows.Close()
	links := []GraphLink{}
	for linkRows.Next() {
		var l GraphLink
		if err := linkRows.Scan(&l.Source, &l.Target); err != nil {
			return nil, nil, err
		}
		links = append(links, l)
	}
	return nodes, links, linkRows.Err()
}

func (db *DB) queryLinks(ctx context.Context, query string, args ...any) ([]models.NoteLink, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: query links: %w", err)
	}
	defer rows.Close()

	var out []models.NoteLink
	for rows.Next() {
		var (
			l     models.NoteLink
			toID  sql.NullString
			alias sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.FromNoteID, &toID, &l.ToNoteTitle, &alias, &l.PositionStart, &l.PositionEnd, &l.IsBroken, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.ToNoteID = stringPtr(toID)
		l.Alias = stringPtr(alias)
		out = append(out, l)
	}
	return out, rows.Err()
}
