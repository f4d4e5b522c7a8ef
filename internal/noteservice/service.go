// Package noteservice orchestrates note writes and their derived state:
// parsing content, keeping tags, tasks and links in step, the rename
// cascade and ranked search.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/notegraph/internal/apperr"
	"github.com/starford/notegraph/internal/checksum"
	"github.com/starford/notegraph/internal/index"
	"github.com/starford/notegraph/internal/models"
	"github.com/starford/notegraph/internal/parser"
	"github.com/starford/notegraph/internal/search"
	"github.com/starford/notegraph/internal/slug"
	"github.com/starford/notegraph/internal/tagtree"
)

// DefaultTitle names notes created without a title or a derivable heading.
const DefaultTitle = "Untitled"

// NoteDetail is a note enriched with its derived state.
type NoteDetail struct {
	models.Note
	Checksum  string            `json:"checksum"`
	Tags      []string          `json:"tags"`
	Tasks     []models.Task     `json:"tasks"`
	Links     []models.NoteLink `json:"links"`
	Backlinks []models.NoteLink `json:"backlinks"`
}

// Change kinds reported to a Notifier.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
	ChangeLinks   = "links"
)

// Notifier is told about committed note changes.
type Notifier interface {
	NoteChanged(kind, noteID string)
}

// Service coordinates the index and the content parser.
type Service struct {
	db     index.Store
	logger *slog.Logger
	notify Notifier
}

// NewService creates a new note service. A nil logger falls back to
// slog.Default.
func NewService(db index.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger}
}

// SetNotifier registers n to receive change notifications. Call it before
// the service is shared.
func (s *Service) SetNotifier(n Notifier) {
	s.notify = n
}

func (s *Service) changed(kind, id string) {
	if s.notify != nil {
		s.notify.NoteChanged(kind, id)
	}
}

// CreateNote stores a new note. An empty slug is derived from the title and
// an empty title from the content's frontmatter or first heading.
func (s *Service) CreateNote(ctx context.Context, title, noteSlug, content string) (*models.Note, error) {
	parsed := parser.Parse(content)
	if title == "" {
		title = parsed.Title
	}
	if title == "" {
		title = DefaultTitle
	}
	if noteSlug == "" {
		noteSlug = slug.Make(title)
	}

	n, err := s.db.CreateNote(ctx, index.NoteInput{
		Title:   title,
		Slug:    noteSlug,
		Content: contentPtr(content),
		Type:    parsed.Type,
	}, derive(content, parsed))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note created", "id", n.ID, "slug", n.Slug)
	s.changed(ChangeCreated, n.ID)
	return n, nil
}

// UpdateNote rewrites an active note. The stored type changes only when the
// new content declares a valid frontmatter type.
func (s *Service) UpdateNote(ctx context.Context, id, title, noteSlug, content string) (*models.Note, error) {
	if noteSlug == "" {
		noteSlug = slug.Make(title)
	}
	in := index.NoteInput{
		Title:   title,
		Slug:    noteSlug,
		Content: contentPtr(content),
	}
	parsed := parser.Parse(content)
	if parser.HasFrontmatterType(content) {
		in.Type = parsed.Type
	}

	n, err := s.db.UpdateNote(ctx, id, in, derive(content, parsed))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note updated", "id", n.ID, "slug", n.Slug)
	s.changed(ChangeUpdated, n.ID)
	return n, nil
}

// CheckVersion returns apperr.ErrConflict when the If-Match value ifMatch is
// set and does not accept the checksum of the note's current content.
func (s *Service) CheckVersion(ctx context.Context, id, ifMatch string) error {
	if ifMatch == "" {
		return nil
	}
	n, err := s.activeNote(ctx, id)
	if err != nil {
		return err
	}
	if !checksum.Matches(ifMatch, Checksum(n)) {
		return apperr.ErrConflict
	}
	return nil
}

// DeleteNote soft-deletes a note and drops its outgoing links, tags and
// tasks. Incoming links are left alone.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.db.SoftDeleteNote(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("note deleted", "id", id)
	s.changed(ChangeDeleted, id)
	return nil
}

// UpdateNoteType sets the note type explicitly.
func (s *Service) UpdateNoteType(ctx context.Context, id string, t models.NoteType) error {
	if err := s.db.UpdateNoteType(ctx, id, t); err != nil {
		return err
	}
	s.changed(ChangeUpdated, id)
	return nil
}

// GetNote returns a note by id, including soft-deleted ones.
func (s *Service) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return s.db.GetNote(ctx, id)
}

// GetNoteDetail returns an active note with its tags, tasks and links.
func (s *Service) GetNoteDetail(ctx context.Context, id string) (*NoteDetail, error) {
	n, err := s.activeNote(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.db.GetTagsByNote(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.db.GetTasksByNote(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.db.GetOutgoingLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	backlinks, err := s.db.GetBacklinks(ctx, id)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Tag
	}
	return &NoteDetail{
		Note:      *n,
		Checksum:  Checksum(n),
		Tags:      names,
		Tasks:     nonNilSlice(tasks),
		Links:     nonNilSlice(links),
		Backlinks: nonNilSlice(backlinks),
	}, nil
}

// GetAllNotes returns active notes oldest first.
func (s *Service) GetAllNotes(ctx context.Context) ([]models.Note, error) {
	return s.db.ListNotes(ctx)
}

// GetNoteByTitle returns the active note with exactly this title.
func (s *Service) GetNoteByTitle(ctx context.Context, title string) (*models.Note, error) {
	return s.db.GetNoteByTitle(ctx, title)
}

// GetNoteBySlug returns the active note with this slug.
func (s *Service) GetNoteBySlug(ctx context.Context, noteSlug string) (*models.Note, error) {
	return s.db.GetNoteBySlug(ctx, noteSlug)
}

// SyncLinks replaces the outgoing links of a note with the wikilinks found
// in its current content. Targets are resolved by exact active title; links
// to titles with no matching note are kept unresolved.
func (s *Service) SyncLinks(ctx context.Context, noteID string) ([]models.NoteLink, error) {
	n, err := s.activeNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]*string)
	var links []models.NoteLink
	for _, wl := range parser.ParseWikilinks(n.Body()) {
		target, seen := resolved[wl.Title]
		if !seen {
			t, err := s.db.GetNoteByTitle(ctx, wl.Title)
			switch {
			case err == nil:
				target = &t.ID
			case errors.Is(err, apperr.ErrNotFound):
			default:
				return nil, err
			}
			resolved[wl.Title] = target
		}

		l := models.NoteLink{
			FromNoteID:    noteID,
			ToNoteID:      target,
			ToNoteTitle:   wl.Title,
			PositionStart: wl.Start,
			PositionEnd:   wl.End,
		}
		if wl.HasAlias() {
			alias := wl.Alias
			l.Alias = &alias
		}
		links = append(links, l)
	}

	if err := s.db.ReplaceLinks(ctx, noteID, links); err != nil {
		return nil, err
	}
	s.logger.Debug("links synced", "id", noteID, "count", len(links))
	s.changed(ChangeLinks, noteID)
	return s.db.GetOutgoingLinks(ctx, noteID)
}

// UpdateLinksOnRename retargets links from oldTitle to newTitle and rewrites
// [[oldTitle]] and [[oldTitle|alias]] in every active note. Everything
// commits in one transaction; running it again is a no-op. Rewritten notes
// get their tags, tasks and link offsets re-derived.
func (s *Service) UpdateLinksOnRename(ctx context.Context, oldTitle, newTitle string) ([]string, error) {
	if oldTitle == newTitle {
		return nil, nil
	}
	return s.rename(ctx, index.Rename{OldTitle: oldTitle, NewTitle: newTitle})
}

// rename runs r with the wikilink rewrite and derivation filled in, then
// resyncs the links of every rewritten note.
func (s *Service) rename(ctx context.Context, r index.Rename) ([]string, error) {
	oldTitle, newTitle := r.OldTitle, r.NewTitle
	r.Rewrite = func(content string) (string, bool) {
		if !parser.ContainsWikilinkTo(content, oldTitle) {
			return content, false
		}
		return parser.RewriteWikilinkTitle(content, oldTitle, newTitle)
	}
	r.Derive = func(content string) index.Derived {
		return derive(content, parser.Parse(content))
	}

	changed, err := s.db.Rename(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("rename %q: %w", oldTitle, err)
	}
	s.logger.Debug("links renamed", "from", oldTitle, "to", newTitle, "notes", len(changed))

	// Offsets shift with the title length.
	for _, id := range changed {
		if _, err := s.SyncLinks(ctx, id); err != nil {
			return nil, err
		}
		s.changed(ChangeUpdated, id)
	}
	return changed, nil
}

// MarkLinksBroken flags every link pointing at title as broken.
func (s *Service) MarkLinksBroken(ctx context.Context, title string) (int64, error) {
	return s.db.MarkLinksBroken(ctx, title)
}

// RenameNote renames a note, cascades the new title into every referencing
// note and re-derives the slug from the new title. The title, slug and
// cascade commit together.
func (s *Service) RenameNote(ctx context.Context, id, newTitle string) (*models.Note, error) {
	n, err := s.activeNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.rename(ctx, index.Rename{
		NoteID:   id,
		OldTitle: n.Title,
		NewTitle: newTitle,
		NewSlug:  slug.Make(newTitle),
	}); err != nil {
		return nil, err
	}
	s.changed(ChangeUpdated, id)
	return s.db.GetNote(ctx, id)
}

// TrashNote marks links to the note broken, then soft-deletes it.
func (s *Service) TrashNote(ctx context.Context, id string) error {
	n, err := s.activeNote(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.MarkLinksBroken(ctx, n.Title); err != nil {
		return err
	}
	return s.DeleteNote(ctx, id)
}

// GetOutgoingLinks returns the links a note makes, in content order.
func (s *Service) GetOutgoingLinks(ctx context.Context, id string) ([]models.NoteLink, error) {
	return s.db.GetOutgoingLinks(ctx, id)
}

// Backlinks returns links pointing at a note by id or by its current title.
func (s *Service) Backlinks(ctx context.Context, id string) ([]models.NoteLink, error) {
	return s.db.GetBacklinks(ctx, id)
}

// Graph returns active notes and the resolved links between them.
func (s *Service) Graph(ctx context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph(ctx)
}

// GetAllTags returns tag usage counts over active notes.
func (s *Service) GetAllTags(ctx context.Context) ([]models.TagCount, error) {
	return s.db.GetAllTags(ctx)
}

// TagTree returns the tag hierarchy with usage counts.
func (s *Service) TagTree(ctx context.Context) ([]*tagtree.Node, error) {
	tags, err := s.db.GetAllTags(ctx)
	if err != nil {
		return nil, err
	}
	return tagtree.Build(tags), nil
}

// GetNotesByTag returns the active notes carrying exactly tag.
func (s *Service) GetNotesByTag(ctx context.Context, tag string) ([]models.Note, error) {
	ids, err := s.db.GetNotesByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	notes := make([]models.Note, 0, len(ids))
	for _, id := range ids {
		n, err := s.db.GetNote(ctx, id)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, nil
}

// GetTasksByNote returns a note's tasks in line order.
func (s *Service) GetTasksByNote(ctx context.Context, id string) ([]models.Task, error) {
	return s.db.GetTasksByNote(ctx, id)
}

// GetTasks returns tasks of active notes, newest note first. An empty status
// returns every task.
func (s *Service) GetTasks(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	if status == "" {
		return s.db.GetAllTasks(ctx)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("task status %q: %w", status, apperr.ErrInvalidType)
	}
	return s.db.GetTasksByStatus(ctx, status)
}

// Search ranks active notes against query.
func (s *Service) Search(ctx context.Context, query string) ([]search.Result, error) {
	notes, err := s.db.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	return search.Search(notes, query), nil
}

// Capture imports externally captured content as a new note, links it and
// records the capture source. fallbackTitle is used when the content has
// neither a frontmatter title nor a heading.
func (s *Service) Capture(ctx context.Context, source, fallbackTitle, content string) (*models.Note, error) {
	title := parser.DeriveTitle(content)
	if title == "" {
		title = fallbackTitle
	}
	n, err := s.CreateNote(ctx, title, "", content)
	if err != nil {
		return nil, err
	}
	if _, err := s.SyncLinks(ctx, n.ID); err != nil {
		return nil, err
	}
	if _, err := s.db.LogCapture(ctx, n.ID, source); err != nil {
		return nil, err
	}
	s.logger.Info("note captured", "id", n.ID, "source", source)
	return n, nil
}

// ListCaptures returns the most recent capture log entries.
func (s *Service) ListCaptures(ctx context.Context, limit int) ([]models.Capture, error) {
	return s.db.ListCaptures(ctx, limit)
}

// Checksum returns the content checksum used for optimistic concurrency.
func Checksum(n *models.Note) string {
	return checksum.Sum([]byte(n.Body()))
}

func (s *Service) activeNote(ctx context.Context, id string) (*models.Note, error) {
	n, err := s.db.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.Active() {
		return nil, apperr.ErrNotFound
	}
	return n, nil
}

// derive extracts tags and tasks. Empty content clears both.
func derive(content string, parsed *parser.Result) index.Derived {
	if content == "" {
		return index.Derived{}
	}
	tasks := make([]models.Task, len(parsed.Tasks))
	for i, t := range parsed.Tasks {
		tasks[i] = models.Task{Content: t.Content, Status: t.Status, LineNumber: t.LineNumber}
	}
	return index.Derived{Tags: parsed.Tags, Tasks: tasks}
}

func contentPtr(content string) *string {
	if content == "" {
		return nil
	}
	return &content
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
