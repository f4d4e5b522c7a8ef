package index

import (
	"context"

	"github.com/starford/notegraph/internal/models"
)

// Store is the persistence surface the note service depends on.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Store interface {
	CreateNote(ctx context.Context, in NoteInput, d Derived) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, in NoteInput, d Derived) (*models.Note, error)
	SoftDeleteNote(ctx context.Context, id string) error
	UpdateNoteType(ctx context.Context, id string, t models.NoteType) error
	GetNote(ctx context.Context, id string) (*models.Note, error)
	GetNoteByTitle(ctx context.Context, title string) (*models.Note, error)
	GetNoteBySlug(ctx context.Context, slug string) (*models.Note, error)
	ListNotes(ctx context.Context) ([]models.Note, error)

	CreateLink(ctx context.Context, l models.NoteLink) error
	ReplaceLinks(ctx context.Context, noteID string, links []models.NoteLink) error
	DeleteLinksByNote(ctx context.Context, noteID string) error
	GetOutgoingLinks(ctx context.Context, noteID string) ([]models.NoteLink, error)
	GetBacklinks(ctx context.Context, noteID string) ([]models.NoteLink, error)
	MarkLinksBroken(ctx context.Context, title string) (int64, error)
	RenameLinks(ctx context.Context, oldTitle, newTitle string, rewrite RenameFunc) ([]string, error)
	Rename(ctx context.Context, r Rename) ([]string, error)
	Graph(ctx context.Context) ([]GraphNode, []GraphLink, error)

	ReplaceTags(ctx context.Context, noteID string, tags []string) error
	DeleteTagsByNote(ctx context.Context, noteID string) error
	GetAllTags(ctx context.Context) ([]models.TagCount, error)
	GetTagsByNote(ctx context.Context, noteID string) ([]models.Tag, error)
	GetNotesByTag(ctx context.Context, tag string) ([]string, error)

	ReplaceTasks(ctx context.Context, noteID string, tasks []models.Task) error
	DeleteTasksByNote(ctx context.Context, noteID string) error
	GetTasksByNote(ctx context.Context, noteID string) ([]models.Task, error)
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	GetTasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)

	LogCapture(ctx context.Context, noteID, source string) (*models.Capture, error)
	ListCaptures(ctx context.Context, limit int) ([]models.Capture, error)

	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
