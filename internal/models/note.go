// Package models defines the domain types for the note graph.
package models

import "time"

// NoteType classifies a note. The value is taken from the "type" frontmatter key.
type NoteType string

const (
	NoteTypeNote    NoteType = "note"
	NoteTypeProject NoteType = "project"
	NoteTypePerson  NoteType = "person"
	NoteTypeMeeting NoteType = "meeting"
	NoteTypeDaily   NoteType = "daily"
)

// NoteTypes lists every accepted note type.
var NoteTypes = []NoteType{NoteTypeNote, NoteTypeProject, NoteTypePerson, NoteTypeMeeting, NoteTypeDaily}

// Valid reports whether t is one of the known note types.
func (t NoteType) Valid() bool {
	for _, known := range NoteTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Note is a single note row. A non-nil DeletedAt marks the note as trashed.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   *string    `json:"content"`
	Type      NoteType   `json:"type"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Body returns the note content, or the empty string when content is null.
func (n *Note) Body() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// Active reports whether the note has not been soft-deleted.
func (n *Note) Active() bool {
	return n.DeletedAt == nil
}

// NoteLink is a wikilink owned by FromNoteID. ToNoteID is nil when the target
// title did not resolve to a note at creation time.
type NoteLink struct {
	ID            int64     `json:"id"`
	FromNoteID    string    `json:"from_note_id"`
	ToNoteID      *string   `json:"to_note_id"`
	ToNoteTitle   string    `json:"to_note_title"`
	Alias         *string   `json:"alias"`
	PositionStart int       `json:"position_start"`
	PositionEnd   int       `json:"position_end"`
	IsBroken      bool      `json:"is_broken"`
	CreatedAt     time.Time `json:"created_at"`
}

// Tag is a single tag attached to a note. Hierarchy is expressed with "/".
type Tag struct {
	ID     int64  `json:"id"`
	NoteID string `json:"note_id"`
	Tag    string `json:"tag"`
}

// TagCount is a tag with the number of active notes carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TaskStatus is the state of a checklist item.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskDone      TaskStatus = "done"
	TaskDeferred  TaskStatus = "deferred"
	TaskCancelled TaskStatus = "cancelled"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskDone, TaskDeferred, TaskCancelled:
		return true
	}
	return false
}

// Task is a checklist item extracted from a note. Task ids are regenerated on
// every content save and must not be held across edits.
type Task struct {
	ID         int64      `json:"id"`
	NoteID     string     `json:"note_id"`
	Content    string     `json:"content"`
	Status     TaskStatus `json:"status"`
	LineNumber int        `json:"line_number"`
	CreatedAt  time.Time  `json:"created_at"`
	NoteTitle  string     `json:"note_title,omitempty"`
}

// Capture records a note created through the inbox importer.
type Capture struct {
	ID        int64     `json:"id"`
	NoteID    *string   `json:"note_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
