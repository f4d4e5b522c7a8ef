package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegraph/internal/checksum"
	"github.com/starford/notegraph/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List active notes, oldest first
//	@Tags			notes
//	@Produce		json
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.GetAllNotes(r.Context())
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: nonNil(notes), Total: len(notes)})
}

// GetNote handles GET /api/notes/{id}. The response carries an ETag with
// the content checksum.
//
//	@Summary		Get a single note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id		path		string	true	"Note id"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNoteDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes. Wikilinks in the content are synced
// right after the note is stored.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title or content is required"))
		return
	}
	ctx := r.Context()
	note, err := h.svc.CreateNote(ctx, strings.TrimSpace(req.Title), req.Slug, req.Content)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	if _, err := h.svc.SyncLinks(ctx, note.ID); err != nil {
		writeError(w, "sync links", err)
		return
	}
	detail, err := h.svc.GetNoteDetail(ctx, note.ID)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string				true	"Note id"
//	@Param			If-Match	header	string				false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	UpdateNoteRequest	true	"Updated note"
//	@Success		200		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}

	ctx := r.Context()
	if err := h.svc.CheckVersion(ctx, id, r.Header.Get("If-Match")); err != nil {
		writeError(w, "update note", err)
		return
	}
	if _, err := h.svc.UpdateNote(ctx, id, strings.TrimSpace(req.Title), req.Slug, req.Content); err != nil {
		writeError(w, "update note", err)
		return
	}
	if _, err := h.svc.SyncLinks(ctx, id); err != nil {
		writeError(w, "sync links", err)
		return
	}
	detail, err := h.svc.GetNoteDetail(ctx, id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteNote handles DELETE /api/notes/{id}. Links pointing at the note are
// marked broken before it is trashed.
//
//	@Summary		Trash a note
//	@Tags			notes
//	@Param			id		path	string	true	"Note id"
//	@Success		204		"Note deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.TrashNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateNoteType handles PUT /api/notes/{id}/type.
//
//	@Summary		Set the note type
//	@Tags			notes
//	@Accept			json
//	@Param			id		path	string				true	"Note id"
//	@Param			body	body	UpdateTypeRequest	true	"New type"
//	@Success		204		"Type updated"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/type [put]
func (h *Handler) UpdateNoteType(w http.ResponseWriter, r *http.Request) {
	var req UpdateTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateNoteType(r.Context(), chi.URLParam(r, "id"), req.Type); err != nil {
		writeError(w, "update note type", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenameNote handles POST /api/notes/{id}/rename.
//
//	@Summary		Rename a note and rewrite wikilinks that reference it
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Note id"
//	@Param			body	body		RenameRequest	true	"New title"
//	@Success		200		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/rename [post]
func (h *Handler) RenameNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	ctx := r.Context()
	if _, err := h.svc.RenameNote(ctx, id, title); err != nil {
		writeError(w, "rename note", err)
		return
	}
	detail, err := h.svc.GetNoteDetail(ctx, id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
