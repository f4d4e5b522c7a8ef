package api

import (
	"github.com/starford/notegraph/internal/index"
	"github.com/starford/notegraph/internal/models"
	"github.com/starford/notegraph/internal/noteservice"
	"github.com/starford/notegraph/internal/search"
)

// CreateNoteRequest is the request body for creating a note. Title and slug
// are optional; a missing title is taken from the content.
type CreateNoteRequest struct {
	Title   string `json:"title" example:"Hello"`
	Slug    string `json:"slug,omitempty" example:"hello"`
	Content string `json:"content" example:"# Hello\nWorld"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Title   string `json:"title" example:"Hello" validate:"required"`
	Slug    string `json:"slug,omitempty" example:"hello"`
	Content string `json:"content" example:"# Hello\nWorld"`
}

// UpdateTypeRequest is the request body for PUT /notes/{id}/type.
type UpdateTypeRequest struct {
	Type models.NoteType `json:"type" example:"meeting" validate:"required"`
}

// RenameRequest is the request body for POST /notes/{id}/rename.
type RenameRequest struct {
	Title string `json:"title" example:"New title" validate:"required"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []search.Result `json:"results" validate:"required"`
}

// GraphResponse wraps the note graph.
type GraphResponse struct {
	Nodes []index.GraphNode `json:"nodes" validate:"required"`
	Links []index.GraphLink `json:"links" validate:"required"`
}

// LinksResponse wraps outgoing links or backlinks of a note.
type LinksResponse struct {
	Links []models.NoteLink `json:"links" validate:"required"`
}

// TasksResponse wraps task listings.
type TasksResponse struct {
	Tasks []models.Task `json:"tasks" validate:"required"`
}

// TagsResponse wraps tag usage counts.
type TagsResponse struct {
	Tags []models.TagCount `json:"tags" validate:"required"`
}
