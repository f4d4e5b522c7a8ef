package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegraph/internal/models"
)

// SyncLinks handles POST /api/notes/{id}/links/sync.
//
//	@Summary		Rebuild outgoing links from the note's wikilinks
//	@Tags			links
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	LinksResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/links/sync [post]
func (h *Handler) SyncLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.SyncLinks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "sync links", err)
		return
	}
	writeJSON(w, http.StatusOK, LinksResponse{Links: nonNil(links)})
}

// OutgoingLinks handles GET /api/notes/{id}/links.
//
//	@Summary		Links made by a note, in content order
//	@Tags			links
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	LinksResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/links [get]
func (h *Handler) OutgoingLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.GetOutgoingLinks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "outgoing links", err)
		return
	}
	writeJSON(w, http.StatusOK, LinksResponse{Links: nonNil(links)})
}

// Backlinks handles GET /api/notes/{id}/backlinks.
//
//	@Summary		Links pointing at a note by id or current title
//	@Tags			links
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	LinksResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/backlinks [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.Backlinks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, LinksResponse{Links: nonNil(links)})
}

// NoteTasks handles GET /api/notes/{id}/tasks.
func (h *Handler) NoteTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.GetTasksByNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "note tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, TasksResponse{Tasks: nonNil(tasks)})
}

// ListTasks handles GET /api/tasks.
//
//	@Summary		Tasks of active notes, newest note first
//	@Tags			tasks
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	Enums(pending, done, deferred, cancelled)
//	@Success		200		{object}	TasksResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	status := models.TaskStatus(r.URL.Query().Get("status"))
	tasks, err := h.svc.GetTasks(r.Context(), status)
	if err != nil {
		writeError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, TasksResponse{Tasks: nonNil(tasks)})
}

// ListTags handles GET /api/tags.
//
//	@Summary		Tag usage counts over active notes
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.GetAllTags(r.Context())
	if err != nil {
		writeError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: nonNil(tags)})
}

// TagTree handles GET /api/tags/tree.
func (h *Handler) TagTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.TagTree(r.Context())
	if err != nil {
		writeError(w, "tag tree", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tree": nonNil(tree)})
}

// NotesByTag handles GET /api/tags/{tag}/notes. Hierarchical tags are
// passed URL-encoded, e.g. dev%2Ffrontend.
func (h *Handler) NotesByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if decoded, err := url.PathUnescape(tag); err == nil {
		tag = decoded
	}
	notes, err := h.svc.GetNotesByTag(r.Context(), tag)
	if err != nil {
		writeError(w, "notes by tag", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: nonNil(notes), Total: len(notes)})
}

// ListCaptures handles GET /api/captures.
func (h *Handler) ListCaptures(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	caps, err := h.svc.ListCaptures(r.Context(), limit)
	if err != nil {
		writeError(w, "list captures", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"captures": nonNil(caps)})
}

// Search handles GET /api/search. A blank query lists every active note.
//
//	@Summary		Accent and case insensitive search over titles and content
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	false	"Search query"
//	@Success		200	{object}	SearchResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results, err := h.svc.Search(r.Context(), q)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: nonNil(results)})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the note graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	nodes, links, err := h.svc.Graph(r.Context())
	if err != nil {
		writeError(w, "graph", err)
		return
	}
	writeJSON(w, http.StatusOK, GraphResponse{Nodes: nonNil(nodes), Links: nonNil(links)})
}
